package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/wiqayah/admin-console/internal/domain/admin"
	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
	"github.com/wiqayah/admin-console/internal/domain/booking"
)

type tokenFunc func() (*oauth2.Token, error)

func (f tokenFunc) Token() (*oauth2.Token, error) { return f() }

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{BaseURL: srv.URL + "/api/", Client: srv.Client()})
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "  "})
	assert.Error(t, err)
}

func TestClient_MeUsesExplicitToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/me", r.URL.Path)
		assert.Equal(t, "Bearer id-token", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"id":"u1","email":"a@w.dev","firstName":"A","lastName":"B","role":"admin","isVerified":true}`)
	})
	c = c.WithTokenSource(StaticToken("should-not-be-used"))

	p, err := c.Me(context.Background(), "id-token")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, p.Role)
	assert.True(t, p.IsVerified)
}

func TestClient_BearerFromTokenSource(t *testing.T) {
	var gotAuth atomic.Value
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"totalUsers":12,"totalBookings":4,"completedBookings":1}`)
	})

	stats, err := c.WithTokenSource(StaticToken("tok-1")).DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalUsers)
	assert.Equal(t, "Bearer tok-1", gotAuth.Load())
}

func TestClient_NoTokenSendsUnauthenticated(t *testing.T) {
	tests := []struct {
		name string
		ts   oauth2.TokenSource
	}{
		{"no source", nil},
		{"empty token", StaticToken("")},
		{"source error", tokenFunc(func() (*oauth2.Token, error) { return nil, errors.New("boom") })},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, has := r.Header["Authorization"]
				assert.False(t, has)
				_, _ = io.WriteString(w, `[]`)
			})
			if tt.ts != nil {
				c = c.WithTokenSource(tt.ts)
			}
			_, err := c.ListSkills(context.Background())
			require.NoError(t, err)
		})
	}
}

func TestClient_ListUsersQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "25", q.Get("limit"))
		assert.Equal(t, "sara", q.Get("search"))
		assert.Equal(t, "guard", q.Get("role"))
		_, _ = io.WriteString(w, `{"users":[{"id":"g1","role":"guard","guardProfile":{"id":"gp1","hourlyRate":30,"locations":["Jeddah"]}}],"total":1,"page":2,"limit":25,"totalPages":1}`)
	})

	role := domainauth.RoleGuard
	page, err := c.ListUsers(context.Background(), admin.UserListOptions{Page: 2, Limit: 25, Search: "sara", Role: &role})
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	require.NotNil(t, page.Users[0].GuardProfile)
	assert.Equal(t, []string{"Jeddah"}, page.Users[0].GuardProfile.Locations)
}

func TestClient_UpdateBookingStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/admin/bookings/b%2F1/status", r.URL.EscapedPath())
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "confirmed", body["status"])
		assert.Equal(t, "guard assigned", body["notes"])
		_, _ = io.WriteString(w, `{"id":"b/1","status":"confirmed"}`)
	})

	b, err := c.UpdateBookingStatus(context.Background(), "b/1", admin.StatusChange{
		Status: booking.StatusConfirmed,
		Notes:  "guard assigned",
	})
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, b.Status)
}

func TestClient_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"message":"booking already completed"}`)
	})

	err := c.UpdateUserStatus(context.Background(), "u1", false)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusConflict))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "booking already completed", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "PUT /admin/users/u1/status")
}

func TestClient_APIErrorWithoutBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := c.DeleteUser(context.Background(), "u1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestClient_MalformedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"users": "nope"`)
	})

	_, err := c.ListUsers(context.Background(), admin.UserListOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode GET /admin/users")
}
