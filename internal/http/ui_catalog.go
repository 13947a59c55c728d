package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/wiqayah/admin-console/internal/domain/admin"
)

type conversationsFilter struct {
	Search string
}

// Conversations lists chat threads between platform users.
// GET /admin/conversations?page=&limit=&q=.
func (h *UIHandlers) Conversations(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.services(w, r)
	if !ok {
		return
	}
	HandleList(ListHandlerOpts[admin.Conversation, conversationsFilter]{
		Handler: h,
		W:       w,
		R:       r,
		FilterParser: func(q url.Values) (conversationsFilter, error) {
			return conversationsFilter{Search: strings.TrimSpace(q.Get("q"))}, nil
		},
		Fetch: func(ctx context.Context, f conversationsFilter, pg pageOpts) (ListPage[admin.Conversation], error) {
			page, err := svc.Catalog.Conversations(ctx, admin.ConversationListOptions{Page: pg.Page, Limit: pg.Limit, Search: f.Search})
			return ListPage[admin.Conversation]{Items: page.Conversations, Total: page.Total, TotalPages: page.TotalPages}, err
		},
		BasePath:     ConversationsPath,
		PageMeta:     PageMeta{Title: "Wiqayah Admin - Conversations", PageTitle: "Conversations", CurrentPage: PageConversations},
		ItemsKey:     "Conversations",
		ErrorMessage: "Unable to load conversations.",
	})
}

var skillsMeta = PageMeta{Title: "Wiqayah Admin - Skills", PageTitle: "Skills", CurrentPage: PageSkills} //nolint:gochecknoglobals // read-only

// Skills lists guard skills with the create form.
// GET /admin/skills.
func (h *UIHandlers) Skills(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.services(w, r)
	if !ok {
		return
	}
	h.Page(w, r, PageSpec{
		Meta: skillsMeta,
		Fetch: func(ctx context.Context, data map[string]any) error {
			data["Errors"] = map[string]string{}
			skills, err := svc.Catalog.Skills(ctx)
			if err != nil {
				data["ErrorMessage"] = "Unable to load skills."
				return err
			}
			data["Skills"] = skills
			return nil
		},
	})
}

// CreateSkill adds a guard skill.
// POST /admin/skills (form: name).
func (h *UIHandlers) CreateSkill(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.services(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	name := r.PostFormValue("name")

	skill, err := svc.Catalog.CreateSkill(r.Context(), name)
	if err != nil {
		skills, listErr := svc.Catalog.Skills(r.Context())
		if listErr != nil {
			h.logger().Warn("reload skills after failed create", zap.Error(listErr))
		}
		RenderError(ErrorOpts{
			W:        w,
			R:        r,
			Err:      err,
			Renderer: h.renderDashboardPage,
			PageMeta: skillsMeta,
			Data:     map[string]any{"Skills": skills, "Form": map[string]string{"Name": name}},
		})
		return
	}
	h.afterAction(w, r, SkillsPath, "Skill \""+skill.Name+"\" created.")
}
