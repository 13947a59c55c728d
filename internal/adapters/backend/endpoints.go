package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wiqayah/admin-console/internal/domain/admin"
	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
	"github.com/wiqayah/admin-console/internal/domain/booking"
)

// Me returns the profile for the given token (GET /users/me).
// The role is returned as reported; callers validate it.
func (c *Client) Me(ctx context.Context, token string) (domainauth.Profile, error) {
	var p domainauth.Profile
	if err := c.do(ctx, request{op: "me", method: http.MethodGet, path: "/users/me", token: token}, &p); err != nil {
		return domainauth.Profile{}, err
	}
	return p, nil
}

func (c *Client) DashboardStats(ctx context.Context) (admin.DashboardStats, error) {
	var s admin.DashboardStats
	err := c.do(ctx, request{op: "dashboard_stats", method: http.MethodGet, path: "/admin/dashboard/stats"}, &s)
	return s, err
}

func pageQuery(page, limit int, search string) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if search != "" {
		q.Set("search", search)
	}
	return q
}

func (c *Client) ListUsers(ctx context.Context, opts admin.UserListOptions) (admin.UsersPage, error) {
	q := pageQuery(opts.Page, opts.Limit, opts.Search)
	if opts.Role != nil {
		q.Set("role", string(*opts.Role))
	}
	var out admin.UsersPage
	err := c.do(ctx, request{op: "list_users", method: http.MethodGet, path: "/admin/users", query: q}, &out)
	return out, err
}

func (c *Client) UpdateUserRole(ctx context.Context, id string, role domainauth.Role) error {
	return c.do(ctx, request{
		op:     "update_user_role",
		method: http.MethodPut,
		path:   fmt.Sprintf("/admin/users/%s/role", url.PathEscape(id)),
		body:   map[string]any{"role": role},
	}, nil)
}

func (c *Client) UpdateUserStatus(ctx context.Context, id string, active bool) error {
	return c.do(ctx, request{
		op:     "update_user_status",
		method: http.MethodPut,
		path:   fmt.Sprintf("/admin/users/%s/status", url.PathEscape(id)),
		body:   map[string]any{"active": active},
	}, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, request{
		op:     "delete_user",
		method: http.MethodDelete,
		path:   "/admin/users/" + url.PathEscape(id),
	}, nil)
}

func (c *Client) UserConversations(ctx context.Context, id string) (admin.UserConversations, error) {
	var out admin.UserConversations
	err := c.do(ctx, request{
		op:     "user_conversations",
		method: http.MethodGet,
		path:   fmt.Sprintf("/admin/users/%s/conversations", url.PathEscape(id)),
	}, &out)
	return out, err
}

func (c *Client) ListBookings(ctx context.Context, opts admin.BookingListOptions) (admin.BookingsPage, error) {
	q := pageQuery(opts.Page, opts.Limit, opts.Search)
	if opts.Status != nil {
		q.Set("status", string(*opts.Status))
	}
	var out admin.BookingsPage
	err := c.do(ctx, request{op: "list_bookings", method: http.MethodGet, path: "/admin/bookings", query: q}, &out)
	return out, err
}

func (c *Client) UpdateBookingStatus(ctx context.Context, id string, change admin.StatusChange) (booking.Booking, error) {
	var out booking.Booking
	err := c.do(ctx, request{
		op:     "update_booking_status",
		method: http.MethodPut,
		path:   fmt.Sprintf("/admin/bookings/%s/status", url.PathEscape(id)),
		body:   change,
	}, &out)
	return out, err
}

func (c *Client) ListConversations(ctx context.Context, opts admin.ConversationListOptions) (admin.ConversationsPage, error) {
	var out admin.ConversationsPage
	err := c.do(ctx, request{
		op:     "list_conversations",
		method: http.MethodGet,
		path:   "/admin/conversations",
		query:  pageQuery(opts.Page, opts.Limit, opts.Search),
	}, &out)
	return out, err
}

func (c *Client) ListSkills(ctx context.Context) ([]admin.Skill, error) {
	var out []admin.Skill
	err := c.do(ctx, request{op: "list_skills", method: http.MethodGet, path: "/guards/skills"}, &out)
	return out, err
}

func (c *Client) CreateSkill(ctx context.Context, req admin.CreateSkillRequest) (admin.Skill, error) {
	var out admin.Skill
	err := c.do(ctx, request{op: "create_skill", method: http.MethodPost, path: "/guards/skills", body: req}, &out)
	return out, err
}
