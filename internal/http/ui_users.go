package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/wiqayah/admin-console/internal/domain/admin"
	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
	apperrors "github.com/wiqayah/admin-console/internal/errors"
	"github.com/wiqayah/admin-console/internal/service"
)

// usersFilter is the query of the users table.
type usersFilter struct {
	Search string
	Role   string
}

func parseUsersFilter(q url.Values) (usersFilter, error) {
	f := usersFilter{Search: strings.TrimSpace(q.Get("q")), Role: strings.TrimSpace(q.Get("role"))}
	if f.Role != "" {
		if _, err := domainauth.ParseRole(f.Role); err != nil {
			return f, err
		}
	}
	return f, nil
}

func (f usersFilter) options(pg pageOpts) admin.UserListOptions {
	opts := admin.UserListOptions{Page: pg.Page, Limit: pg.Limit, Search: f.Search}
	if f.Role != "" {
		role := domainauth.Role(f.Role)
		opts.Role = &role
	}
	return opts
}

func usersListPage(p admin.UsersPage) ListPage[admin.User] {
	return ListPage[admin.User]{Items: p.Users, Total: p.Total, TotalPages: p.TotalPages}
}

// Users lists every platform account with search and role filter.
// GET /admin/users?page=&limit=&q=&role=.
func (h *UIHandlers) Users(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.services(w, r)
	if !ok {
		return
	}
	HandleList(ListHandlerOpts[admin.User, usersFilter]{
		Handler:      h,
		W:            w,
		R:            r,
		FilterParser: parseUsersFilter,
		Fetch: func(ctx context.Context, f usersFilter, pg pageOpts) (ListPage[admin.User], error) {
			page, err := svc.Users.List(ctx, f.options(pg))
			return usersListPage(page), err
		},
		EnrichData: func(b *TemplateDataBuilder, _ ListPage[admin.User], _ usersFilter) {
			b.With("Roles", domainauth.Roles())
		},
		BasePath:     UsersPath,
		PageMeta:     PageMeta{Title: "Wiqayah Admin - Users", PageTitle: "Users", CurrentPage: PageUsers},
		ItemsKey:     "Users",
		ErrorMessage: "Unable to load users.",
	})
}

// Guards lists guard accounts with their guard profiles.
// GET /admin/guards.
func (h *UIHandlers) Guards(w http.ResponseWriter, r *http.Request) {
	h.roleList(w, r, roleListSpec{
		Role:     domainauth.RoleGuard,
		BasePath: GuardsPath,
		Meta:     PageMeta{Title: "Wiqayah Admin - Guards", PageTitle: "Guards", CurrentPage: PageGuards},
		ItemsKey: "Guards",
		ErrMsg:   "Unable to load guards.",
	})
}

type roleListSpec struct {
	Role     domainauth.Role
	BasePath string
	Meta     PageMeta
	ItemsKey string
	ErrMsg   string
	Enrich   DataEnricher[admin.User, usersFilter]
}

// roleList renders a users table pinned to one role.
func (h *UIHandlers) roleList(w http.ResponseWriter, r *http.Request, spec roleListSpec) {
	svc, ok := h.services(w, r)
	if !ok {
		return
	}
	HandleList(ListHandlerOpts[admin.User, usersFilter]{
		Handler: h,
		W:       w,
		R:       r,
		FilterParser: func(q url.Values) (usersFilter, error) {
			return usersFilter{Search: strings.TrimSpace(q.Get("q"))}, nil
		},
		Fetch: func(ctx context.Context, f usersFilter, pg pageOpts) (ListPage[admin.User], error) {
			page, err := svc.Users.ListByRole(ctx, spec.Role, f.options(pg))
			return usersListPage(page), err
		},
		EnrichData:   spec.Enrich,
		BasePath:     spec.BasePath,
		PageMeta:     spec.Meta,
		ItemsKey:     spec.ItemsKey,
		ErrorMessage: spec.ErrMsg,
	})
}

// UserConversations shows every conversation of one user.
// GET /admin/users/{id}/conversations.
func (h *UIHandlers) UserConversations(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.NotFound(w, r)
		return
	}
	svc, ok := h.services(w, r)
	if !ok {
		return
	}
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Wiqayah Admin - Conversations", PageTitle: "User conversations", CurrentPage: PageUserConversations},
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["UserID"] = id
			convs, err := svc.Users.Conversations(ctx, id)
			if err != nil {
				data["ErrorMessage"] = "Unable to load this user's conversations."
				return err
			}
			data["Conversations"] = convs
			return nil
		},
	})
}

// ChangeUserRole assigns a new role.
// POST /admin/users/{id}/role (form: role).
func (h *UIHandlers) ChangeUserRole(w http.ResponseWriter, r *http.Request) {
	h.userAction(w, r, func(ctx context.Context, users *service.UserService, id string) (string, error) {
		role := r.PostFormValue("role")
		if err := users.ChangeRole(ctx, id, role); err != nil {
			return "", err
		}
		return "Role updated.", nil
	})
}

// SetUserStatus activates or deactivates an account.
// POST /admin/users/{id}/status (form: active=true|false).
func (h *UIHandlers) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	h.userAction(w, r, func(ctx context.Context, users *service.UserService, id string) (string, error) {
		active, err := strconv.ParseBool(r.PostFormValue("active"))
		if err != nil {
			return "", apperrors.ValidationField("active", "Choose active or inactive.")
		}
		if err := users.SetActive(ctx, id, active); err != nil {
			return "", err
		}
		if active {
			return "User activated.", nil
		}
		return "User deactivated.", nil
	})
}

// DeleteUser removes an account.
// POST /admin/users/{id}/delete.
func (h *UIHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	h.userAction(w, r, func(ctx context.Context, users *service.UserService, id string) (string, error) {
		if err := users.Delete(ctx, id); err != nil {
			return "", err
		}
		return "User deleted.", nil
	})
}

type userActionFunc func(ctx context.Context, users *service.UserService, id string) (string, error)

func (h *UIHandlers) userAction(w http.ResponseWriter, r *http.Request, act userActionFunc) {
	id := r.PathValue("id")
	if id == "" {
		h.NotFound(w, r)
		return
	}
	svc, ok := h.services(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.writeActionError(w, r, apperrors.Validation("Invalid form submission."))
		return
	}
	msg, err := act(r.Context(), svc.Users, id)
	if err != nil {
		h.writeActionError(w, r, err)
		return
	}
	h.afterAction(w, r, UsersPath, msg)
}
