package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
	authmocks "github.com/wiqayah/admin-console/internal/mocks/auth"
	"github.com/wiqayah/admin-console/internal/service"
)

func newTestRegistry(t *testing.T) *service.GateRegistry {
	t.Helper()
	reg := service.NewGateRegistry(service.GateRegistryOptions{
		Identity: service.GateIdentity{
			Provider: authmocks.NewMockIdentityProvider(map[string]string{testAdminEmail: testPassword}),
			Profiles: &authmocks.MockProfileResolver{ByEmail: map[string]domainauth.Profile{
				testAdminEmail: {ID: "u-admin", Email: testAdminEmail, Role: domainauth.RoleAdmin},
			}},
		},
		Storage: service.GateStorage{Store: authmocks.NewMemoryTokenStorage(), TTL: time.Hour},
	})
	t.Cleanup(reg.Close)
	return reg
}

func TestSessions_IssuesCookieAndGate(t *testing.T) {
	reg := newTestRegistry(t)
	var gate *service.Gate
	h := Sessions(SessionConfig{Registry: reg, MaxAge: time.Hour})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gate, _ = GateFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	require.NotNil(t, gate)
	assert.Equal(t, domainauth.GateUnauthenticated, gate.GateState())
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.Equal(t, 1, reg.Len())
}

func TestSessions_ReusesGateForCookie(t *testing.T) {
	reg := newTestRegistry(t)
	id := service.NewSessionID()
	g, err := reg.Get(context.Background(), id)
	require.NoError(t, err)

	var got *service.Gate
	h := Sessions(SessionConfig{Registry: reg})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, _ = GateFromContext(r.Context())
	}))
	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: id})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Same(t, g, got)
	assert.Empty(t, w.Result().Cookies())
}

func TestSessions_ReplacesForgedCookie(t *testing.T) {
	reg := newTestRegistry(t)
	h := Sessions(SessionConfig{Registry: reg})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "../../etc/passwd"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, service.ValidSessionID(cookies[0].Value))
}

func resolvingGate() *service.Gate {
	return service.NewGate(service.GateOptions{
		Identity: service.GateIdentity{
			Provider: authmocks.NewMockIdentityProvider(nil),
			Profiles: &authmocks.MockProfileResolver{},
		},
		Storage: service.GateStorage{Store: authmocks.NewMemoryTokenStorage(), Namespace: service.NewSessionID()},
	})
}

func TestRequireAdmin_LoadingWhileResolving(t *testing.T) {
	reached := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { reached = true })

	t.Run("browser gets the loading view", func(t *testing.T) {
		tr := RequireTemplateRenderer(t)
		r := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		r = r.WithContext(SetGateInContext(r.Context(), resolvingGate()))
		w := httptest.NewRecorder()
		RequireAdmin(GuardConfig{T: tr})(next).ServeHTTP(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, loadingRefreshSeconds, w.Header().Get("Refresh"))
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	})

	t.Run("API client gets 503", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		r.Header.Set("Accept", "application/json")
		r = r.WithContext(SetGateInContext(r.Context(), resolvingGate()))
		w := httptest.NewRecorder()
		RequireAdmin(GuardConfig{})(next).ServeHTTP(w, r)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, loadingRefreshSeconds, w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), domainauth.GateResolving.String())
	})

	assert.False(t, reached)
}

func TestRequireAdmin_MissingGateRedirects(t *testing.T) {
	w := httptest.NewRecorder()
	RequireAdmin(GuardConfig{})(http.NotFoundHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/skills", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, w.Header().Get("Location"), LoginPath)
}

func TestProfileFromContext(t *testing.T) {
	reg := newTestRegistry(t)
	g, err := reg.Get(context.Background(), service.NewSessionID())
	require.NoError(t, err)

	ctx := SetGateInContext(context.Background(), g)
	_, ok := ProfileFromContext(ctx)
	assert.False(t, ok)

	_, err = g.Login(context.Background(), testAdminEmail, testPassword)
	require.NoError(t, err)
	p, ok := ProfileFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u-admin", p.ID)

	_, ok = GateFromContext(context.Background())
	assert.False(t, ok)
}
