package httpx

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
	"github.com/wiqayah/admin-console/internal/service"
)

const loadingRefreshSeconds = "1"

// SessionConfig configures the Sessions middleware.
type SessionConfig struct {
	Registry     *service.GateRegistry
	CookieDomain string
	MaxAge       time.Duration
	Logger       *zap.Logger
}

// Sessions attaches the browser's gate to the request context, issuing a
// fresh session cookie when the browser has none (or an unusable one).
func Sessions(cfg SessionConfig) func(http.Handler) http.Handler {
	if cfg.Registry == nil {
		panic("GateRegistry is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := cookieValue(r, SessionCookieName)
			if !service.ValidSessionID(id) {
				id = service.NewSessionID()
				setSessionCookie(w, r, sessionCookie{ID: id, Domain: cfg.CookieDomain, MaxAge: cfg.MaxAge})
			}

			g, err := cfg.Registry.Get(r.Context(), id)
			if err != nil {
				logger.Error("session lookup failed", zap.Error(err))
				status := http.StatusServiceUnavailable
				if errors.Is(err, service.ErrInvalidSessionID) {
					status = http.StatusBadRequest
				}
				http.Error(w, http.StatusText(status), status)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetGateInContext(r.Context(), g)))
		})
	}
}

type sessionCookie struct {
	ID     string
	Domain string
	MaxAge time.Duration
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, c sessionCookie) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    c.ID,
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.MaxAge.Seconds()),
	})
}

// GuardConfig configures RequireAdmin.
type GuardConfig struct {
	T      *TemplateRenderer
	Logger *zap.Logger
}

// RequireAdmin renders protected routes according to the gate's outcome:
// admins pass, a resolving gate shows the loading view without navigating,
// everyone else is sent to the login page with the requested location kept.
// Non-browser callers get JSON instead.
func RequireAdmin(cfg GuardConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := domainauth.GateUnauthenticated
			if g, ok := GateFromContext(r.Context()); ok {
				state = g.GateState()
			}

			switch state.Outcome() {
			case domainauth.OutcomeProtected:
				next.ServeHTTP(w, r)
			case domainauth.OutcomeLoading:
				renderLoading(w, r, cfg.T, logger)
			case domainauth.OutcomeRedirectLogin:
				if IsBrowserRequest(r) {
					redirectToLogin(w, r)
					return
				}
				WriteJSON(w, http.StatusUnauthorized, map[string]string{
					"error":   "unauthorized",
					"message": "Admin sign-in required.",
				})
			}
		})
	}
}

// renderLoading answers while the gate is resolving. Browsers poll through
// the Refresh header; the URL never changes.
func renderLoading(w http.ResponseWriter, r *http.Request, t *TemplateRenderer, logger *zap.Logger) {
	w.Header().Set("Cache-Control", "no-store")
	if !IsBrowserRequest(r) || t == nil {
		w.Header().Set("Retry-After", loadingRefreshSeconds)
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"state": domainauth.GateResolving.String()})
		return
	}
	w.Header().Set("Refresh", loadingRefreshSeconds)
	if err := t.RenderNamed(w, tmplLoading, basePageData(r, PageMeta{Title: "Loading", CurrentPage: PageLoading})); err != nil {
		logger.Error("loading view render failed", zap.Error(err))
		http.Error(w, "loading", http.StatusServiceUnavailable)
	}
}
