package httpx

import (
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/wiqayah/admin-console/internal/errors"
)

// Landing serves the public marketing page.
// GET /.
func (h *UIHandlers) Landing(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != LandingPath {
		h.NotFound(w, r)
		return
	}
	data := basePageData(r, PageMeta{Title: "Wiqayah - Trusted security on demand", CurrentPage: PageLanding})
	data["LoginURL"] = LoginPath
	if err := h.T.RenderNamed(w, tmplLanding, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "landing render")
	}
}

// NotFound renders a 404 page for browsers and JSON otherwise.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: "not_found",
			Err:     apperrors.NotFound("Not found."),
		})
		return
	}

	_, signedIn := ProfileFromContext(r.Context())
	data := basePageData(r, PageMeta{Title: "Page Not Found - Wiqayah Admin", PageTitle: "Not found", CurrentPage: PageNotFound})
	data["Code"] = "404"
	data["Message"] = "The page you're looking for doesn't exist."
	data["ShowLogin"] = !signedIn
	data["RedirectURI"] = safeRedirectPath(r.URL.RequestURI())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if h.T == nil {
		_, _ = w.Write([]byte("Page not found"))
		return
	}
	if err := h.T.RenderError(w, r, data); err != nil {
		h.logger().Error("not found render failed", zap.Error(err))
	}
}

// writeActionError answers a failed row action (role change, delete, status
// change) with a toast and an inline alert fragment.
func (h *UIHandlers) writeActionError(w http.ResponseWriter, r *http.Request, err error) {
	msg := apperrors.UserMessage(err)
	h.logger().Warn("admin action failed", zap.String("path", r.URL.Path), zap.Error(err))
	triggerToast(w, msg, "error")

	status := http.StatusUnprocessableEntity
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeUpdateFailed:
		status = http.StatusBadGateway
	}
	if !IsHTMX(r) {
		http.Error(w, msg, status)
		return
	}
	// htmx only swaps 2xx, so the alert fragment goes out with 200.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.T.executeTemplate(w, "action-error", map[string]any{"ErrorMessage": msg}); err != nil {
		h.logger().Error("action error render failed", zap.Error(err))
	}
}
