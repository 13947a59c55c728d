package httpx

import (
	"context"
	"net/http"
)

// FormParser parses a request into T plus field-level validation errors.
type FormParser[T any] func(r *http.Request) (T, map[string]string)

// FormSaver persists T; an empty id creates, otherwise id is updated.
type FormSaver[T any] func(ctx context.Context, id string, req T) error

// FormRenderer renders the form template with the given data.
type FormRenderer func(w http.ResponseWriter, r *http.Request, data map[string]any)

// FormHandlerOpts contains all options needed to handle a form submission.
type FormHandlerOpts[T any] struct {
	W          http.ResponseWriter
	R          *http.Request
	Mode       FormMode
	Parser     FormParser[T]
	Save       FormSaver[T]
	Renderer   FormRenderer
	SuccessURL string
	// SuccessMessage is shown as a toast after the redirect. Optional.
	SuccessMessage string
	PageMeta       PageMeta
	// ExtraData is merged into the template data on error. Optional.
	ExtraData map[string]any
	// GetID defaults to r.PathValue("id").
	GetID func(r *http.Request) string
}

// HandleForm runs the create/update flow: parse, validate, save, redirect.
// Failures re-render the form with the submitted values.
func HandleForm[T any](opts FormHandlerOpts[T]) {
	if opts.Parser == nil || opts.Save == nil || opts.Renderer == nil {
		http.Error(opts.W, "misconfigured form handler", http.StatusInternalServerError)
		return
	}

	var id string
	switch opts.Mode {
	case FormModeCreate:
	case FormModeEdit:
		if opts.GetID != nil {
			id = opts.GetID(opts.R)
		} else {
			id = opts.R.PathValue("id")
		}
		if id == "" {
			http.NotFound(opts.W, opts.R)
			return
		}
	default:
		http.Error(opts.W, "invalid form mode", http.StatusBadRequest)
		return
	}

	data, fieldErrors := opts.Parser(opts.R)
	if len(fieldErrors) > 0 {
		opts.renderError(nil, fieldErrors, data)
		return
	}

	if err := opts.Save(opts.R.Context(), id, data); err != nil {
		opts.renderError(err, nil, data)
		return
	}

	if opts.SuccessMessage != "" {
		triggerToast(opts.W, opts.SuccessMessage, "success")
	}
	if IsHTMX(opts.R) {
		HTMX(opts.W).Redirect(opts.SuccessURL)
		return
	}
	http.Redirect(opts.W, opts.R, opts.SuccessURL, http.StatusSeeOther)
}

func (opts FormHandlerOpts[T]) renderError(err error, fieldErrors map[string]string, data T) {
	extra := map[string]any{"Form": data, "Mode": string(opts.Mode)}
	for k, v := range opts.ExtraData {
		extra[k] = v
	}
	RenderError(ErrorOpts{
		W:           opts.W,
		R:           opts.R,
		Err:         err,
		FieldErrors: fieldErrors,
		Renderer:    ErrorRenderer(opts.Renderer),
		PageMeta:    opts.PageMeta,
		Data:        extra,
		StatusCode:  DetermineErrorStatus(err),
	})
}
