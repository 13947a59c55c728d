package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wiqayah/admin-console/internal/domain/admin"
	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
	"github.com/wiqayah/admin-console/internal/domain/booking"
	apperrors "github.com/wiqayah/admin-console/internal/errors"
	"github.com/wiqayah/admin-console/internal/mocks"
	"github.com/wiqayah/admin-console/internal/service"
)

func sampleBooking(id string, status booking.Status) booking.Booking {
	start := time.Date(2026, 11, 2, 18, 0, 0, 0, time.UTC)
	return booking.Booking{
		ID:          id,
		Status:      status,
		Location:    "King Fahd Road, Riyadh",
		TotalAmount: 480,
		Period:      booking.Period{Start: start, End: start.Add(4 * time.Hour)},
		Client:      &booking.Party{FirstName: "Amira", LastName: "Haddad"},
		Guard:       &booking.GuardRef{ID: "g1", User: &booking.Party{FirstName: "Faisal", LastName: "Omar"}},
	}
}

func TestRouter_PublicRoutes(t *testing.T) {
	h := newConsoleHarness(t)

	t.Run("landing", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/", requestOpts{})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Trusted security on demand")
		assert.Contains(t, rec.Body.String(), LoginPath)
	})

	t.Run("health", func(t *testing.T) {
		rec := h.do(http.MethodGet, HealthPath, requestOpts{Accept: "application/json"})
		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body["status"])
	})

	t.Run("static assets are cached", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/static/css/console.css", requestOpts{})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	})

	t.Run("unknown page renders 404 for browsers", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/nowhere", requestOpts{})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "Page Not Found")
	})

	t.Run("unknown page is JSON for API clients", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/nowhere", requestOpts{Accept: "application/json"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	})
}

func TestRouter_ProtectedRoutesRequireAdmin(t *testing.T) {
	h := newConsoleHarness(t)

	t.Run("browser is redirected with the requested location", func(t *testing.T) {
		rec := h.do(http.MethodGet, "/admin/bookings?status=pending", requestOpts{})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, LoginPath, loc.Path)
		assert.Equal(t, "/admin/bookings?status=pending", loc.Query().Get("redirect_uri"))
	})

	t.Run("session cookie is issued", func(t *testing.T) {
		rec := h.do(http.MethodGet, DashboardPath, requestOpts{})
		var found bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == SessionCookieName {
				found = true
				assert.True(t, service.ValidSessionID(c.Value))
				assert.True(t, c.HttpOnly)
			}
		}
		assert.True(t, found)
	})

	t.Run("htmx request gets Hx-Redirect", func(t *testing.T) {
		rec := h.do(http.MethodGet, UsersPath, requestOpts{HTMX: true})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Hx-Redirect"), LoginPath+"?redirect_uri="))
	})

	t.Run("API client gets 401", func(t *testing.T) {
		rec := h.do(http.MethodGet, UsersPath, requestOpts{Accept: "application/json"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-admin session is redirected", func(t *testing.T) {
		rec := h.do(http.MethodGet, UsersPath, requestOpts{Session: h.sessionFor(testClientEmail)})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})
}

func TestRouter_LoginFlow(t *testing.T) {
	h := newConsoleHarness(t)

	login := func(session, email, password, redirect string) *http.Response {
		rec := h.do(http.MethodPost, LoginPath, requestOpts{
			Session: session,
			Form:    url.Values{"email": {email}, "password": {password}, "redirect_uri": {redirect}},
		})
		return rec.Result()
	}

	t.Run("admin lands on the requested page", func(t *testing.T) {
		resp := login(service.NewSessionID(), testAdminEmail, testPassword, "/admin/bookings")
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/admin/bookings", resp.Header.Get("Location"))
		session := lastSessionCookie(resp)
		require.NotEmpty(t, session)

		rec := h.do(http.MethodGet, AuthStatusPath, requestOpts{Session: session, Accept: "application/json"})
		var status map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.Equal(t, "authenticated_admin", status["state"])
		assert.Equal(t, true, status["authenticated"])

		// Visiting the login page again skips the form.
		rec = h.do(http.MethodGet, LoginPath+"?redirect_uri=/admin/users", requestOpts{Session: session})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/users", rec.Header().Get("Location"))
	})

	t.Run("sign-in rotates a planted session id", func(t *testing.T) {
		planted := "11111111-2222-4333-8444-555555555555"
		resp := login(planted, testAdminEmail, testPassword, "/admin")
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		rotated := lastSessionCookie(resp)
		require.NotEmpty(t, rotated)
		assert.NotEqual(t, planted, rotated)

		rec := h.do(http.MethodGet, DashboardPath, requestOpts{Session: planted})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), LoginPath))
		_, stored := h.store.Value(planted, "session")
		assert.False(t, stored)
	})

	t.Run("signing in again retires the previous session", func(t *testing.T) {
		previous := h.adminSession()
		resp := login(previous, testAdminEmail, testPassword, "/admin")
		rotated := lastSessionCookie(resp)
		require.NotEmpty(t, rotated)
		assert.NotEqual(t, previous, rotated)

		status := h.do(http.MethodGet, AuthStatusPath, requestOpts{Session: previous, Accept: "application/json"})
		assert.Contains(t, status.Body.String(), `"authenticated":false`)
		status = h.do(http.MethodGet, AuthStatusPath, requestOpts{Session: rotated, Accept: "application/json"})
		assert.Contains(t, status.Body.String(), `"authenticated":true`)
	})

	t.Run("failed sign-in keeps the browser's session id", func(t *testing.T) {
		before := h.registry.Len()
		resp := login(service.NewSessionID(), testAdminEmail, "nope", "/admin")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Empty(t, lastSessionCookie(resp))
		assert.Equal(t, before+1, h.registry.Len()) // only the browser's own gate
	})

	t.Run("off-site redirect falls back to the dashboard", func(t *testing.T) {
		resp := login(service.NewSessionID(), testAdminEmail, testPassword, "https://evil.example/phish")
		assert.Equal(t, DashboardPath, resp.Header.Get("Location"))
	})

	t.Run("non-admin is refused", func(t *testing.T) {
		session := service.NewSessionID()
		rec := h.do(http.MethodPost, LoginPath, requestOpts{
			Session: session,
			Form:    url.Values{"email": {testClientEmail}, "password": {testPassword}},
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), apperrors.MsgAccessDenied)

		status := h.do(http.MethodGet, AuthStatusPath, requestOpts{Session: session, Accept: "application/json"})
		assert.Contains(t, status.Body.String(), `"authenticated":false`)
		assert.Contains(t, h.metrics.tags("login.attempt"), map[string]string{"outcome": "access_denied"})
	})

	t.Run("wrong password keeps the email", func(t *testing.T) {
		rec := h.do(http.MethodPost, LoginPath, requestOpts{
			Session: service.NewSessionID(),
			Form:    url.Values{"email": {testAdminEmail}, "password": {"nope"}},
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.True(t, ContainsAll(rec.Body.String(), []string{apperrors.MsgWrongPassword, testAdminEmail}))
	})

	t.Run("empty fields are a validation error", func(t *testing.T) {
		rec := h.do(http.MethodPost, LoginPath, requestOpts{
			Session: service.NewSessionID(),
			Form:    url.Values{"email": {""}, "password": {""}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("logout ends the session", func(t *testing.T) {
		session := h.adminSession()
		rec := h.do(http.MethodPost, LogoutPath, requestOpts{Session: session, Form: url.Values{}})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, LoginPath+"?signed_out=1", rec.Header().Get("Location"))

		rec = h.do(http.MethodGet, DashboardPath, requestOpts{Session: session})
		assert.Equal(t, http.StatusSeeOther, rec.Code)

		rec = h.do(http.MethodGet, LoginPath+"?signed_out=1", requestOpts{Session: session})
		assert.Contains(t, rec.Body.String(), msgSignedOut)
	})
}

// lastSessionCookie returns the session id the response leaves the browser
// with, or "" when it sets none.
func lastSessionCookie(resp *http.Response) string {
	id := ""
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookieName {
			id = c.Value
		}
	}
	return id
}

func TestRouter_Dashboard(t *testing.T) {
	h := newConsoleHarness(t)
	session := h.adminSession()

	h.api.MockCatalogAPI.EXPECT().DashboardStats(gomock.Any()).Return(admin.DashboardStats{
		TotalUsers: 1250, TotalBookings: 40, CompletedBookings: 30, TotalRevenue: 18250.5,
	}, nil)
	h.api.MockBookingAPI.EXPECT().ListBookings(gomock.Any(), gomock.Any()).Return(admin.BookingsPage{
		Bookings: []booking.Booking{sampleBooking("b1", booking.StatusPending)},
	}, nil)

	rec := h.do(http.MethodGet, DashboardPath, requestOpts{Session: session})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, ContainsAll(body, []string{"1,250", "SAR 18,250.50", "75.0%", "Amira Haddad", "Faisal Omar", "Huda Saleh"}), body)
}

func TestRouter_DashboardBackendFailureShowsRetry(t *testing.T) {
	h := newConsoleHarness(t)
	session := h.adminSession()

	h.api.MockCatalogAPI.EXPECT().DashboardStats(gomock.Any()).Return(admin.DashboardStats{}, errors.New("backend down"))
	h.api.MockBookingAPI.EXPECT().ListBookings(gomock.Any(), gomock.Any()).Return(admin.BookingsPage{}, nil).AnyTimes()

	rec := h.do(http.MethodGet, DashboardPath, requestOpts{Session: session, HTMX: true})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ContainsAll(rec.Body.String(), []string{errMsgUnableLoadStats, "Retry", `id="header-title"`}))
	assert.Equal(t, DashboardPath, rec.Header().Get("Hx-Push-Url"))
}

func TestRouter_UsersList(t *testing.T) {
	h := newConsoleHarness(t)
	session := h.adminSession()

	var got admin.UserListOptions
	h.api.MockUserAPI.EXPECT().ListUsers(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, opts admin.UserListOptions) (admin.UsersPage, error) {
			got = opts
			return admin.UsersPage{
				Users:      []admin.User{{ID: "u1", Email: "guard@wiqayah.dev", FirstName: "Salem", Role: domainauth.RoleGuard, Status: "active"}},
				Total:      21,
				TotalPages: 3,
			}, nil
		})

	rec := h.do(http.MethodGet, UsersPath+"?page=2&q=salem&role=guard", requestOpts{Session: session})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, admin.DefaultPageSize, got.Limit)
	assert.Equal(t, "salem", got.Search)
	require.NotNil(t, got.Role)
	assert.Equal(t, domainauth.RoleGuard, *got.Role)

	body := rec.Body.String()
	assert.True(t, ContainsAll(body, []string{"guard@wiqayah.dev", "Page 2 of 3", "/admin/users/u1/conversations"}))
	assert.Contains(t, body, "page=3")
}

func TestRouter_UsersInvalidRoleFilter(t *testing.T) {
	h := newConsoleHarness(t)
	rec := h.do(http.MethodGet, UsersPath+"?role=superuser", requestOpts{Session: h.adminSession()})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid filter parameters")
}

func TestRouter_UserActions(t *testing.T) {
	h := newConsoleHarness(t)
	session := h.adminSession()

	t.Run("role change reloads the list in place", func(t *testing.T) {
		h.api.MockUserAPI.EXPECT().UpdateUserRole(gomock.Any(), "u1", domainauth.RoleAdmin).Return(nil)
		rec := h.do(http.MethodPost, UsersPath+"/u1/role", requestOpts{
			Session: session,
			HTMX:    true,
			Form:    url.Values{"role": {"admin"}},
			Headers: map[string]string{"Hx-Current-Url": "http://console.local/admin/users?page=2"},
		})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "true", rec.Header().Get("Hx-Refresh"))
		assert.Empty(t, rec.Header().Get("Hx-Redirect"))
		assert.Contains(t, rec.Header().Get("Hx-Trigger"), "Role updated.")
	})

	t.Run("action from the dashboard redirects to the list", func(t *testing.T) {
		h.api.MockUserAPI.EXPECT().UpdateUserRole(gomock.Any(), "u1", domainauth.RoleClient).Return(nil)
		rec := h.do(http.MethodPost, UsersPath+"/u1/role", requestOpts{
			Session: session,
			HTMX:    true,
			Form:    url.Values{"role": {"client"}},
			Headers: map[string]string{"Hx-Current-Url": "http://console.local/admin"},
		})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, UsersPath, rec.Header().Get("Hx-Redirect"))
	})

	t.Run("unknown role is rejected without a backend call", func(t *testing.T) {
		rec := h.do(http.MethodPost, UsersPath+"/u1/role", requestOpts{
			Session: session,
			Form:    url.Values{"role": {"owner"}},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("deactivate", func(t *testing.T) {
		h.api.MockUserAPI.EXPECT().UpdateUserStatus(gomock.Any(), "u2", false).Return(nil)
		rec := h.do(http.MethodPost, UsersPath+"/u2/status", requestOpts{
			Session: session,
			Form:    url.Values{"active": {"false"}},
		})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, UsersPath, rec.Header().Get("Location"))
	})

	t.Run("backend failure on delete shows an inline alert", func(t *testing.T) {
		h.api.MockUserAPI.EXPECT().DeleteUser(gomock.Any(), "u3").Return(errors.New("500 from backend"))
		rec := h.do(http.MethodPost, UsersPath+"/u3/delete", requestOpts{Session: session, HTMX: true, Form: url.Values{}})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), apperrors.MsgUpdateFailed)
		assert.Contains(t, rec.Header().Get("Hx-Trigger"), "showToast")
	})
}

func TestRouter_BookingStatusChange(t *testing.T) {
	h := newConsoleHarness(t)
	session := h.adminSession()

	t.Run("allowed transition is forwarded", func(t *testing.T) {
		updated := sampleBooking("b1", booking.StatusConfirmed)
		h.api.MockBookingAPI.EXPECT().
			UpdateBookingStatus(gomock.Any(), "b1", admin.StatusChange{Status: booking.StatusConfirmed, Notes: "guard assigned"}).
			Return(updated, nil)

		rec := h.do(http.MethodPost, BookingsPath+"/b1/status", requestOpts{
			Session: session,
			Form:    url.Values{"from": {"pending"}, "status": {"confirmed"}, "notes": {" guard assigned "}},
		})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, BookingsPath, rec.Header().Get("Location"))
	})

	t.Run("disallowed transition never reaches the backend", func(t *testing.T) {
		rec := h.do(http.MethodPost, BookingsPath+"/b2/status", requestOpts{
			Session: session,
			HTMX:    true,
			Form:    url.Values{"from": {"completed"}, "status": {"pending"}},
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "cannot be moved to pending")
	})

	t.Run("unknown status", func(t *testing.T) {
		rec := h.do(http.MethodPost, BookingsPath+"/b3/status", requestOpts{
			Session: session,
			Form:    url.Values{"from": {"pending"}, "status": {"archived"}},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestRouter_BookingsList(t *testing.T) {
	h := newConsoleHarness(t)

	var got admin.BookingListOptions
	h.api.MockBookingAPI.EXPECT().ListBookings(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, opts admin.BookingListOptions) (admin.BookingsPage, error) {
			got = opts
			return admin.BookingsPage{
				Bookings:      []booking.Booking{sampleBooking("b1", booking.StatusInProgress), sampleBooking("b2", booking.StatusCancelled)},
				Total:         2,
				TotalPages:    1,
				UpcomingCount: 5,
				PastCount:     9,
			}, nil
		})

	rec := h.do(http.MethodGet, BookingsPath+"?status=in_progress", requestOpts{Session: h.adminSession()})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Status)
	assert.Equal(t, booking.StatusInProgress, *got.Status)

	body := rec.Body.String()
	assert.True(t, ContainsAll(body, []string{"Upcoming: <strong>5</strong>", "Past: <strong>9</strong>", "/admin/bookings/b1/status", "Final"}), body)
	assert.NotContains(t, body, "/admin/bookings/b2/status")
}

func TestRouter_Skills(t *testing.T) {
	h := newConsoleHarness(t)
	session := h.adminSession()

	t.Run("blank name re-renders with a field error", func(t *testing.T) {
		h.api.MockCatalogAPI.EXPECT().ListSkills(gomock.Any()).Return([]admin.Skill{{ID: "s1", Name: "Crowd control"}}, nil)
		rec := h.do(http.MethodPost, SkillsPath, requestOpts{Session: session, Form: url.Values{"name": {"  "}}})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, ContainsAll(rec.Body.String(), []string{"name is required", "Crowd control", errMsgFixBelow}))
	})

	t.Run("create", func(t *testing.T) {
		h.api.MockCatalogAPI.EXPECT().CreateSkill(gomock.Any(), admin.CreateSkillRequest{Name: "VIP escort"}).
			Return(admin.Skill{ID: "s2", Name: "VIP escort"}, nil)
		rec := h.do(http.MethodPost, SkillsPath, requestOpts{Session: session, Form: url.Values{"name": {"VIP escort"}}})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, SkillsPath, rec.Header().Get("Location"))
	})
}

func TestRouter_PaymentsWithoutLedger(t *testing.T) {
	h := newConsoleHarness(t)
	session := h.adminSession()

	rec := h.do(http.MethodGet, PaymentsPath, requestOpts{Session: session})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), msgLedgerUnavailable)

	rec = h.do(http.MethodGet, PaymentsPath+"/new", requestOpts{Session: session})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_PaymentsLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	payments := mocks.NewMockPaymentRepository(ctrl)
	staff := mocks.NewMockStaffRepository(ctrl)
	ledger := service.NewLedgerService(service.LedgerServiceOptions{Payments: payments, Staff: staff})
	h := newConsoleHarness(t, withLedger(ledger))
	session := h.adminSession()

	t.Run("list detects a next page", func(t *testing.T) {
		rows := make([]*admin.Payment, admin.DefaultPageSize+1)
		for i := range rows {
			rows[i] = &admin.Payment{ID: "p", OrderRef: "ORD-" + string(rune('A'+i)), Amount: 100, Status: "paid"}
		}
		payments.EXPECT().List(gomock.Any(), admin.LedgerListOptions{Limit: admin.DefaultPageSize + 1, Offset: 0, Q: "ord"}).Return(rows, nil)

		rec := h.do(http.MethodGet, PaymentsPath+"?q=ord", requestOpts{Session: session})
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "ORD-A")
		assert.NotContains(t, body, "ORD-K")
		assert.Contains(t, body, "Next")
	})

	t.Run("invalid form keeps the input", func(t *testing.T) {
		rec := h.do(http.MethodPost, PaymentsPath, requestOpts{
			Session: session,
			Form:    url.Values{"order_ref": {""}, "amount": {"-5"}, "paid_on": {"2026-10-18"}, "status": {"paid"}},
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, ContainsAll(rec.Body.String(), []string{"Order reference is required.", "Amount cannot be negative.", "2026-10-18"}))
	})

	t.Run("create", func(t *testing.T) {
		payments.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, in admin.PaymentInput) (*admin.Payment, error) {
				assert.Equal(t, "ORD-77", in.OrderRef)
				assert.InDelta(t, 250.75, in.Amount, 0.001)
				return &admin.Payment{ID: "p77", OrderRef: in.OrderRef}, nil
			})
		rec := h.do(http.MethodPost, PaymentsPath, requestOpts{
			Session: session,
			Form:    url.Values{"order_ref": {"ORD-77"}, "amount": {"250.75"}, "paid_on": {"2026-10-18"}, "status": {"Paid"}},
		})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, PaymentsPath, rec.Header().Get("Location"))
	})

	t.Run("edit missing payment is 404", func(t *testing.T) {
		payments.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, apperrors.NotFound("payment not found"))
		rec := h.do(http.MethodGet, PaymentsPath+"/missing/edit", requestOpts{Session: session})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
