package httpx

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/wiqayah/admin-console/internal/errors"
)

// ErrorRenderer renders an error template with the given data.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, data map[string]any)

// ErrorOpts contains all options needed to render an error response.
type ErrorOpts struct {
	W http.ResponseWriter
	R *http.Request
	// Err is optional when only FieldErrors are reported.
	Err         error
	FieldErrors map[string]string
	Renderer    ErrorRenderer
	PageMeta    PageMeta
	// Data preserves form values and dropdown options across the re-render.
	Data map[string]any
	// StatusCode defaults to 200 so htmx swaps the response.
	StatusCode int
	ShowToast  bool
}

// DetermineErrorStatus maps an application error to the status a form
// re-render should carry; 0 means the default.
func DetermineErrorStatus(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	}
	return 0
}

// RenderError re-renders a page with a general error and optional field
// errors. Field-scoped validation and conflict errors land on their field.
func RenderError(opts ErrorOpts) {
	if opts.Renderer == nil {
		http.Error(opts.W, "misconfigured error renderer", http.StatusInternalServerError)
		return
	}

	builder := NewTemplateData(opts.R, opts.PageMeta)
	generalError := processError(opts.Err, &opts.FieldErrors)

	if len(opts.FieldErrors) > 0 {
		builder.WithFieldErrors(opts.FieldErrors)
	}
	switch {
	case generalError != "":
		builder.WithError(generalError)
	case len(opts.FieldErrors) > 0:
		builder.WithError(errMsgFixBelow)
	}
	for k, v := range opts.Data {
		builder.With(k, v)
	}

	if opts.ShowToast && generalError != "" {
		triggerToast(opts.W, generalError, "error")
	}
	if opts.StatusCode != 0 {
		opts.W.Header().Set("Content-Type", "text/html; charset=utf-8")
		opts.W.WriteHeader(opts.StatusCode)
	}
	opts.Renderer(opts.W, opts.R, builder.Build())
}

// processError returns the operator-facing message for err, moving it to
// fieldErrors when the error names a field.
func processError(err error, fieldErrors *map[string]string) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Request timed out. Please try again."
	}
	if errors.Is(err, context.Canceled) {
		return "Request was canceled."
	}

	msg := apperrors.UserMessage(err)
	field := apperrors.GetField(err)
	code := apperrors.GetCode(err)
	if field != "" && (code == apperrors.ErrCodeValidation || code == apperrors.ErrCodeConflict) {
		if *fieldErrors == nil {
			*fieldErrors = make(map[string]string)
		}
		(*fieldErrors)[field] = msg
		return errMsgFixBelow
	}
	return msg
}
