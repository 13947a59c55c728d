package httpx

import (
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
	apperrors "github.com/wiqayah/admin-console/internal/errors"
	"github.com/wiqayah/admin-console/internal/observability/metrics"
	"github.com/wiqayah/admin-console/internal/observability/statsd"
	"github.com/wiqayah/admin-console/internal/service"
)

const msgSignedOut = "You have been signed out."

// AuthHandlers serves the login page, logout and the gate status endpoint.
type AuthHandlers struct {
	T        *TemplateRenderer
	Sessions SessionConfig // Registry is required for sign-in
	Logger   *zap.Logger
	Metrics  statsd.Sink // Optional
}

func (h *AuthHandlers) logger() *zap.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return zap.NewNop()
}

// loginForm is what the login template echoes back.
type loginForm struct {
	Email       string
	RedirectURI string
}

// LoginPage renders the sign-in form. Operators who already passed the gate
// go straight to their destination.
// GET /admin/login?redirect_uri=<path>.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	if g, ok := GateFromContext(r.Context()); ok && g.GateState() == domainauth.GateAuthenticatedAdmin {
		http.Redirect(w, r, redirectURI, http.StatusSeeOther)
		return
	}

	data := basePageData(r, PageMeta{Title: "Admin Login", PageTitle: "Admin Login", CurrentPage: PageLogin})
	data["Form"] = loginForm{RedirectURI: redirectURI}
	if r.URL.Query().Get("signed_out") == "1" {
		data["Notice"] = msgSignedOut
	}
	h.renderLogin(w, r, http.StatusOK, data)
}

// LoginSubmit signs in with email and password. The sign-in runs on a gate
// under a newly issued session id; on success the browser is moved to that
// id and the session it arrived with is retired.
// POST /admin/login.
func (h *AuthHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if h.Sessions.Registry == nil {
		http.Error(w, "session unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	form := loginForm{
		Email:       strings.TrimSpace(r.PostFormValue("email")),
		RedirectURI: safeRedirectPath(r.PostFormValue("redirect_uri")),
	}

	id, g, err := h.Sessions.Registry.Issue(r.Context())
	if err != nil {
		h.logger().Error("session issue failed", zap.Error(err))
		http.Error(w, "session unavailable", http.StatusServiceUnavailable)
		return
	}

	ctx := service.WithClientAddr(r.Context(), clientAddr(r))
	profile, err := g.Login(ctx, form.Email, r.PostFormValue("password"))
	if err != nil {
		h.Sessions.Registry.Drop(id)
		code := string(apperrors.GetCode(err))
		if code == "" {
			code = string(apperrors.ErrCodeUnknown)
		}
		metrics.EmitLogin(h.Metrics, code)
		h.logger().Info("login rejected", zap.String("code", code), zap.Error(err))

		data := basePageData(r, PageMeta{Title: "Admin Login", PageTitle: "Admin Login", CurrentPage: PageLogin})
		data["Form"] = form
		data["Error"] = true
		data["ErrorMessage"] = apperrors.UserMessage(err)
		h.renderLogin(w, r, loginErrorStatus(err), data)
		return
	}

	if prev, ok := GateFromContext(r.Context()); ok {
		prev.Logout(r.Context())
	}
	if prevID := cookieValue(r, SessionCookieName); prevID != "" {
		h.Sessions.Registry.Drop(prevID)
	}
	setSessionCookie(w, r, sessionCookie{ID: id, Domain: h.Sessions.CookieDomain, MaxAge: h.Sessions.MaxAge})

	metrics.EmitLogin(h.Metrics, metrics.ResultSuccess)
	h.logger().Info("operator signed in", zap.String("user_id", profile.ID))
	if IsHTMX(r) {
		HTMX(w).Redirect(form.RedirectURI)
		return
	}
	http.Redirect(w, r, form.RedirectURI, http.StatusSeeOther)
}

// clientAddr is the address sign-in throttling is keyed by. The last
// X-Forwarded-For hop is the one appended by our own proxy.
func clientAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		if last := strings.TrimSpace(hops[len(hops)-1]); last != "" {
			return last
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// loginErrorStatus maps the login error taxonomy to response codes.
func loginErrorStatus(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case apperrors.ErrCodeAccessDenied:
		return http.StatusForbidden
	case apperrors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusBadGateway
}

func (h *AuthHandlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, data map[string]any) {
	if h.T == nil {
		http.Error(w, "login page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	if status != http.StatusOK {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
	}
	if err := h.T.RenderNamed(w, tmplLogin, data); err != nil {
		h.logger().Error("login render failed", zap.String("path", r.URL.Path), zap.Error(err))
		if status == http.StatusOK {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// Logout clears the browser's session. It always succeeds for the caller.
// POST /admin/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if g, ok := GateFromContext(r.Context()); ok {
		g.Logout(r.Context())
	}

	target := LoginPath + "?signed_out=1"
	if IsHTMX(r) {
		HTMX(w).Redirect(target)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// Status mirrors the gate state as JSON.
// GET /admin/auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	g, ok := GateFromContext(r.Context())
	if !ok {
		WriteJSON(w, http.StatusOK, map[string]any{
			"state":         domainauth.GateUnauthenticated.String(),
			"authenticated": false,
		})
		return
	}

	state := g.GateState()
	resp := map[string]any{
		"state":         state.String(),
		"authenticated": state == domainauth.GateAuthenticatedAdmin,
	}
	if p, ok := g.Profile(); ok && state == domainauth.GateAuthenticatedAdmin {
		resp["user"] = map[string]any{
			"id":         p.ID,
			"email":      p.Email,
			"first_name": p.FirstName,
			"last_name":  p.LastName,
			"role":       p.Role,
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}
