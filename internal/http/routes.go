package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	adminconsole "github.com/wiqayah/admin-console"
	"github.com/wiqayah/admin-console/internal/observability/statsd"
	"github.com/wiqayah/admin-console/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Registry *service.GateRegistry // required
	Console  *service.Console      // required
	Ledger   *service.LedgerService
	// HealthChecks are checked by /healthz, keyed by component name.
	HealthChecks map[string]HealthCheck
	CookieDomain string
	SessionTTL   time.Duration
	// Compression is nil when gzip is disabled.
	Compression *CompressionConfig
	IsDev       bool
	Logger      *zap.Logger
	Metrics     statsd.Sink
	// TemplateFS and StaticFS override the embedded or on-disk assets.
	TemplateFS fs.FS
	StaticFS   fs.FS
}

// NewRouter wires the console routes and middleware.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Registry == nil || services.Console == nil {
		return nil, errors.New("gate registry and console are required")
	}
	logger := services.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	templateFS, staticFS, err := resolveAssets(services)
	if err != nil {
		return nil, err
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("template renderer: %w", err)
	}

	ui := &UIHandlers{
		T:       tr,
		Console: services.Console,
		Ledger:  services.Ledger,
		IsDev:   services.IsDev,
		Logger:  logger,
	}
	sessions := SessionConfig{
		Registry:     services.Registry,
		CookieDomain: services.CookieDomain,
		MaxAge:       services.SessionTTL,
		Logger:       logger,
	}
	auth := &AuthHandlers{T: tr, Sessions: sessions, Logger: logger, Metrics: services.Metrics}

	web := chain(
		Sessions(sessions),
		CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain}),
	)
	protected := func(h http.HandlerFunc) http.Handler {
		return web(RequireAdmin(GuardConfig{T: tr, Logger: logger})(h))
	}

	mux := http.NewServeMux()
	health := healthHandler(services.HealthChecks)
	mux.Handle("GET "+HealthPath, health)
	mux.Handle("HEAD "+HealthPath, health)
	mux.Handle("GET /static/", staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))

	mux.Handle("GET /{$}", web(http.HandlerFunc(ui.Landing)))
	registerAuthRoutes(mux, auth, web)
	registerAdminRoutes(mux, ui, protected)

	handler := &notFoundHandler{mux: mux, ui: ui, logger: logger}

	var h http.Handler = BrowserDetection()(handler)
	if services.Compression != nil {
		h = Compression(*services.Compression)(h)
	}
	return Recover(logger)(Logging(logger)(h)), nil
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, web func(http.Handler) http.Handler) {
	mux.Handle("GET "+LoginPath, web(http.HandlerFunc(h.LoginPage)))
	mux.Handle("POST "+LoginPath, web(http.HandlerFunc(h.LoginSubmit)))
	mux.Handle("POST "+LogoutPath, web(http.HandlerFunc(h.Logout)))
	mux.Handle("GET "+AuthStatusPath, web(http.HandlerFunc(h.Status)))
}

func registerAdminRoutes(mux *http.ServeMux, h *UIHandlers, protected func(http.HandlerFunc) http.Handler) {
	mux.Handle("GET "+DashboardPath+"/{$}", protected(h.Dashboard))
	mux.Handle("GET "+DashboardPath, protected(h.Dashboard))

	mux.Handle("GET "+UsersPath, protected(h.Users))
	mux.Handle("GET "+UsersPath+"/{id}/conversations", protected(h.UserConversations))
	mux.Handle("POST "+UsersPath+"/{id}/role", protected(h.ChangeUserRole))
	mux.Handle("POST "+UsersPath+"/{id}/status", protected(h.SetUserStatus))
	mux.Handle("POST "+UsersPath+"/{id}/delete", protected(h.DeleteUser))
	mux.Handle("GET "+GuardsPath, protected(h.Guards))

	mux.Handle("GET "+AdminsPath, protected(h.Admins))
	mux.Handle("GET "+AdminsPath+"/staff/new", protected(h.StaffNew))
	mux.Handle("POST "+AdminsPath+"/staff", protected(h.StaffSave))
	mux.Handle("GET "+AdminsPath+"/staff/{id}/edit", protected(h.StaffEdit))
	mux.Handle("POST "+AdminsPath+"/staff/{id}", protected(h.StaffSave))
	mux.Handle("POST "+AdminsPath+"/staff/{id}/delete", protected(h.StaffDelete))

	mux.Handle("GET "+BookingsPath, protected(h.Bookings))
	mux.Handle("POST "+BookingsPath+"/{id}/status", protected(h.ChangeBookingStatus))

	mux.Handle("GET "+PaymentsPath, protected(h.Payments))
	mux.Handle("GET "+PaymentsPath+"/new", protected(h.PaymentNew))
	mux.Handle("POST "+PaymentsPath, protected(h.PaymentSave))
	mux.Handle("GET "+PaymentsPath+"/{id}/edit", protected(h.PaymentEdit))
	mux.Handle("POST "+PaymentsPath+"/{id}", protected(h.PaymentSave))
	mux.Handle("POST "+PaymentsPath+"/{id}/delete", protected(h.PaymentDelete))

	mux.Handle("GET "+ConversationsPath, protected(h.Conversations))
	mux.Handle("GET "+SkillsPath, protected(h.Skills))
	mux.Handle("POST "+SkillsPath, protected(h.CreateSkill))
}

// chain composes middleware so the first argument runs outermost.
func chain(mw ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		for i := len(mw) - 1; i >= 0; i-- {
			h = mw[i](h)
		}
		return h
	}
}

// resolveAssets picks template and static filesystems: explicit overrides,
// then the working tree in dev mode, then the embedded copies.
func resolveAssets(services RouterServices) (fs.FS, fs.FS, error) {
	templateFS, staticFS := services.TemplateFS, services.StaticFS
	if services.IsDev {
		if templateFS == nil {
			templateFS = os.DirFS(TemplatePathFromRoot)
		}
		if staticFS == nil {
			staticFS = os.DirFS("frontend/static")
		}
	}
	var err error
	if templateFS == nil {
		if templateFS, err = fs.Sub(adminconsole.TemplateFS, TemplatePathFromRoot); err != nil {
			return nil, nil, fmt.Errorf("embedded templates: %w", err)
		}
	}
	if staticFS == nil {
		if staticFS, err = fs.Sub(adminconsole.StaticFS, "frontend/static"); err != nil {
			return nil, nil, fmt.Errorf("embedded static assets: %w", err)
		}
	}
	return templateFS, staticFS, nil
}

func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler swaps the mux's plain-text 404 for the console's page.
type notFoundHandler struct {
	mux    *http.ServeMux
	ui     *UIHandlers
	logger *zap.Logger
}

func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := h.mux.Handler(r); pattern == "" && !strings.HasPrefix(r.URL.Path, "/static/") {
		cw := newCaptureWriter()
		h.mux.ServeHTTP(cw, r)
		if cw.status == http.StatusNotFound {
			h.ui.NotFound(w, r)
			return
		}
		cw.flushTo(w, h.logger)
		return
	}
	h.mux.ServeHTTP(w, r)
}

// captureWriter buffers a response so a 404 can be replaced.
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter, logger *zap.Logger) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		logger.Warn("failed to write captured response", zap.Error(err))
	}
}
