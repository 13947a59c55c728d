package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/oauth2"

	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
	"github.com/wiqayah/admin-console/internal/mocks"
	authmocks "github.com/wiqayah/admin-console/internal/mocks/auth"
	"github.com/wiqayah/admin-console/internal/ports"
	"github.com/wiqayah/admin-console/internal/service"
)

const (
	testAdminEmail  = "admin@wiqayah.dev"
	testClientEmail = "client@wiqayah.dev"
	testPassword    = "s3cret"
	testCSRFToken   = "test-csrf-token"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("Templates not available, skipping")
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: os.DirFS(TemplatePathFromTest)})
	require.NoError(t, err)
	return tr
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// backendAPI joins the generated port mocks into one ports.AdminAPI.
type backendAPI struct {
	*mocks.MockProfileResolver
	*mocks.MockBookingAPI
	*mocks.MockUserAPI
	*mocks.MockCatalogAPI
}

// metricsRecorder captures counter tags by metric name.
type metricsRecorder struct {
	mu     sync.Mutex
	counts map[string][]map[string]string
}

func (m *metricsRecorder) Count(name string, _ int64, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string][]map[string]string{}
	}
	m.counts[name] = append(m.counts[name], tags)
}

func (m *metricsRecorder) Timing(string, time.Duration, map[string]string) {}

func (m *metricsRecorder) tags(name string) []map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[name]
}

// consoleHarness wires the full router against in-memory identity doubles and
// gomock backend ports.
type consoleHarness struct {
	t        *testing.T
	api      backendAPI
	registry *service.GateRegistry
	console  *service.Console
	provider *authmocks.MockIdentityProvider
	store    *authmocks.MemoryTokenStorage
	ledger   *service.LedgerService
	metrics  *metricsRecorder
	handler  http.Handler
}

type harnessOption func(*RouterServices)

func withLedger(l *service.LedgerService) harnessOption {
	return func(s *RouterServices) { s.Ledger = l }
}

func newConsoleHarness(t *testing.T, opts ...harnessOption) *consoleHarness {
	t.Helper()
	if _, err := os.Stat(TemplatePathFromTest); os.IsNotExist(err) {
		t.Skip("Templates not available, skipping")
	}

	ctrl := gomock.NewController(t)
	api := backendAPI{
		MockProfileResolver: mocks.NewMockProfileResolver(ctrl),
		MockBookingAPI:      mocks.NewMockBookingAPI(ctrl),
		MockUserAPI:         mocks.NewMockUserAPI(ctrl),
		MockCatalogAPI:      mocks.NewMockCatalogAPI(ctrl),
	}

	provider := authmocks.NewMockIdentityProvider(map[string]string{
		testAdminEmail:  testPassword,
		testClientEmail: testPassword,
	})
	profiles := &authmocks.MockProfileResolver{ByEmail: map[string]domainauth.Profile{
		testAdminEmail:  {ID: "u-admin", Email: testAdminEmail, FirstName: "Huda", LastName: "Saleh", Role: domainauth.RoleAdmin},
		testClientEmail: {ID: "u-client", Email: testClientEmail, Role: domainauth.RoleClient},
	}}
	store := authmocks.NewMemoryTokenStorage()
	feed := service.NewSessionFeed(nil)
	registry := service.NewGateRegistry(service.GateRegistryOptions{
		Identity: service.GateIdentity{Provider: provider, Profiles: profiles},
		Storage:  service.GateStorage{Store: store, TTL: time.Hour},
		Feed:     feed,
	})
	t.Cleanup(registry.Close)

	console := service.NewConsole(func(oauth2.TokenSource) ports.AdminAPI { return api }, feed, nil)

	recorder := &metricsRecorder{}
	services := RouterServices{
		Registry:   registry,
		Console:    console,
		Metrics:    recorder,
		SessionTTL: time.Hour,
		TemplateFS: os.DirFS(TemplatePathFromTest),
		StaticFS:   os.DirFS("../../frontend/static"),
	}
	for _, o := range opts {
		o(&services)
	}
	handler, err := NewRouter(services)
	require.NoError(t, err)

	return &consoleHarness{
		t:        t,
		api:      api,
		registry: registry,
		console:  console,
		provider: provider,
		store:    store,
		ledger:   services.Ledger,
		metrics:  recorder,
		handler:  handler,
	}
}

// adminSession returns a session id whose gate has admitted the admin.
func (h *consoleHarness) adminSession() string {
	h.t.Helper()
	return h.sessionFor(testAdminEmail)
}

func (h *consoleHarness) sessionFor(email string) string {
	h.t.Helper()
	id := service.NewSessionID()
	g, err := h.registry.Get(context.Background(), id)
	require.NoError(h.t, err)
	_, _ = g.Login(context.Background(), email, testPassword)
	return id
}

type requestOpts struct {
	Session string
	Form    url.Values
	HTMX    bool
	Accept  string
	Headers map[string]string
}

// do sends a request through the router. Unsafe methods carry a valid CSRF
// token; browsers are the default client.
func (h *consoleHarness) do(method, target string, o requestOpts) *httptest.ResponseRecorder {
	h.t.Helper()
	var req *http.Request
	if o.Form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(o.Form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("Accept", "text/html")
	if o.Accept != "" {
		req.Header.Set("Accept", o.Accept)
	}
	if o.HTMX {
		req.Header.Set("Hx-Request", "true")
	}
	for k, v := range o.Headers {
		req.Header.Set(k, v)
	}
	if o.Session != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: o.Session})
	}
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})
	if method != http.MethodGet && method != http.MethodHead {
		req.Header.Set(CSRFHeaderName, testCSRFToken)
	}

	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}
