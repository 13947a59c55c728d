package httpx

import (
	"context"
	"html"
	"maps"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/wiqayah/admin-console/internal/http/ui/viewmodel"
	"github.com/wiqayah/admin-console/internal/service"
)

const (
	errMsgFixBelow = "Please fix the errors below."
	errMsgLoad     = "An unexpected error occurred. Please try again."
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T       *TemplateRenderer
	Console *service.Console
	Ledger  *service.LedgerService // Optional: nil hides the payments and staff roster
	IsDev   bool
	Logger  *zap.Logger
}

func (h *UIHandlers) logger() *zap.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return zap.NewNop()
}

// services binds the admin services to the request's gate. RequireAdmin runs
// first, so a missing gate is a routing bug and is answered with a login redirect.
func (h *UIHandlers) services(w http.ResponseWriter, r *http.Request) (service.AdminServices, bool) {
	g, ok := GateFromContext(r.Context())
	if !ok || h.Console == nil {
		redirectToLogin(w, r)
		return service.AdminServices{}, false
	}
	return h.Console.For(r.Context(), g), true
}

// pageOpts is the page/limit pair of a list request.
type pageOpts struct {
	Page  int
	Limit int
}

// LimitAndOffset fetches one extra row to detect a next page.
func (p pageOpts) LimitAndOffset() (int, int) {
	return p.Limit + 1, (p.Page - 1) * p.Limit
}

// trimExtra drops the look-ahead row and reports whether it existed.
func trimExtra[T any](items []T, p pageOpts) ([]T, bool) {
	if len(items) > p.Limit {
		return items[:p.Limit], true
	}
	return items, false
}

// triggerToast sends the showToast event consumed by the layout script.
func triggerToast(w http.ResponseWriter, message, toastType string) {
	if w == nil || strings.TrimSpace(message) == "" {
		return
	}
	HTMX(w).Trigger("showToast", map[string]any{
		"message": message,
		"type":    strings.TrimSpace(toastType),
	})
}

// FormFrameOpts captures the parameters required to normalize common form data.
type FormFrameOpts struct {
	R           *http.Request
	Data        map[string]any
	DefaultMode FormMode
	MetaForMode func(FormMode) PageMeta
}

// prepareFormFrame fills Errors, Mode and the layout fields of a form page.
func prepareFormFrame(opts FormFrameOpts) (map[string]any, FormMode) {
	data := opts.Data
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Errors"].(map[string]string); !ok {
		data["Errors"] = map[string]string{}
	}

	mode := opts.DefaultMode
	if s, ok := data["Mode"].(string); ok && strings.TrimSpace(s) != "" {
		mode = FormMode(strings.TrimSpace(s))
	}
	if m, ok := data["Mode"].(FormMode); ok && m != "" {
		mode = m
	}
	data["Mode"] = string(mode)

	if opts.MetaForMode != nil && opts.R != nil {
		maps.Copy(data, basePageData(opts.R, opts.MetaForMode(mode)))
	}
	return data, mode
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout fills the shared chrome from the request's gate and CSRF token.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
	}
	if p, ok := ProfileFromContext(r.Context()); ok {
		layout.IsAuthenticated = true
		layout.User = &viewmodel.User{Name: p.DisplayName(), Email: p.Email, Role: string(p.Role)}
	}
	return layout
}

// basePageData constructs the common page data map.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"CSRFToken":       layout.CSRFToken,
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
type PageSpec struct {
	Meta  PageMeta
	Fetch func(ctx context.Context, data map[string]any) error
}

// Page builds base data, runs the fetch and renders. A fetch failure is
// shown inline with a retry link; the page itself still renders.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), data); err != nil {
			h.logger().Warn("page fetch failed", zap.String("page", spec.Meta.CurrentPage), zap.Error(err))
			markPageError(r, data)
		}
	}
	h.renderDashboardPage(w, r, data)
}

func markPageError(r *http.Request, data map[string]any) {
	data["Error"] = true
	data["RetryURL"] = r.URL.RequestURI()
	if _, ok := data["ErrorMessage"]; !ok {
		data["ErrorMessage"] = errMsgLoad
	}
}

// renderDashboardPage renders the admin shell, or for htmx requests the
// content with out-of-band title updates.
func (h *UIHandlers) renderDashboardPage(w http.ResponseWriter, r *http.Request, data map[string]any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	HTMX(w).PushURL(r.URL.RequestURI()).Trigger("nav:activate", map[string]string{"path": r.URL.Path})

	title, _ := data["Title"].(string)
	pageTitle, _ := data["PageTitle"].(string)
	currentPage, _ := data["CurrentPage"].(string)

	if _, err := w.Write([]byte(`<title>` + html.EscapeString(title) + `</title>` +
		`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` +
		html.EscapeString(pageTitle) + `</h1>`)); err != nil {
		h.logger().Error("failed to write partial titles", zap.Error(err))
		return
	}
	if err := h.T.executeTemplate(w, ContentTemplateFor(currentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

// logAndRenderTemplateError logs template errors; dev mode shows the detail.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, where string) {
	h.logger().Error("template rendering failed",
		zap.Error(err),
		zap.String("context", where),
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
	)

	if !h.IsDev {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`<div class="dev-error"><h2>Template Rendering Error</h2>` +
		`<p><strong>Context:</strong> ` + html.EscapeString(where) + `</p>` +
		`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
		`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`))
}

// afterAction finishes a successful row action: toast, then reload the list
// the operator acted from.
func (h *UIHandlers) afterAction(w http.ResponseWriter, r *http.Request, fallback, message string) {
	back := fallback
	if current := safeRedirectFromURL(r.Header.Get("Hx-Current-Url")); current != "" && current != DashboardPath {
		back = current
	} else if ref := safeRedirectFromURL(r.Referer()); ref != "" && ref != DashboardPath {
		back = ref
	}
	triggerToast(w, message, "success")
	if IsHTMX(r) {
		if back == safeRedirectFromURL(r.Header.Get("Hx-Current-Url")) {
			HTMX(w).Refresh()
			return
		}
		HTMX(w).Redirect(back)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
