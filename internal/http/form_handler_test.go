package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/wiqayah/admin-console/internal/errors"
)

type skillForm struct{ Name string }

func parseSkillForm(r *http.Request) (skillForm, map[string]string) {
	_ = r.ParseForm()
	f := skillForm{Name: strings.TrimSpace(r.PostFormValue("name"))}
	if f.Name == "" {
		return f, map[string]string{"name": "Name is required."}
	}
	return f, nil
}

func formRequest(method, target string, form url.Values, htmx bool) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		r.Header.Set("Hx-Request", "true")
	}
	return r
}

func TestHandleForm(t *testing.T) {
	type call struct {
		id   string
		form skillForm
	}

	run := func(mode FormMode, r *http.Request, saveErr error) (*httptest.ResponseRecorder, []call, map[string]any) {
		var (
			calls    []call
			rendered map[string]any
		)
		w := httptest.NewRecorder()
		HandleForm(FormHandlerOpts[skillForm]{
			W:      w,
			R:      r,
			Mode:   mode,
			Parser: parseSkillForm,
			Save: func(_ context.Context, id string, f skillForm) error {
				calls = append(calls, call{id: id, form: f})
				return saveErr
			},
			Renderer: func(_ http.ResponseWriter, _ *http.Request, data map[string]any) {
				rendered = data
			},
			SuccessURL:     SkillsPath,
			SuccessMessage: "Saved.",
			PageMeta:       skillsMeta,
			ExtraData:      map[string]any{"SkillID": "s1"},
		})
		return w, calls, rendered
	}

	t.Run("create redirects", func(t *testing.T) {
		w, calls, _ := run(FormModeCreate, formRequest(http.MethodPost, SkillsPath, url.Values{"name": {"K9 handling"}}, false), nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, SkillsPath, w.Header().Get("Location"))
		require.Len(t, calls, 1)
		assert.Empty(t, calls[0].id)
		assert.Equal(t, "K9 handling", calls[0].form.Name)
		assert.Contains(t, w.Header().Get("Hx-Trigger"), "Saved.")
	})

	t.Run("edit over htmx", func(t *testing.T) {
		r := formRequest(http.MethodPost, "/admin/skills/s1", url.Values{"name": {"First aid"}}, true)
		r.SetPathValue("id", "s1")
		w, calls, _ := run(FormModeEdit, r, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, SkillsPath, w.Header().Get("Hx-Redirect"))
		require.Len(t, calls, 1)
		assert.Equal(t, "s1", calls[0].id)
	})

	t.Run("edit without id is 404", func(t *testing.T) {
		w, calls, _ := run(FormModeEdit, formRequest(http.MethodPost, "/admin/skills/", url.Values{"name": {"x"}}, false), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Empty(t, calls)
	})

	t.Run("field errors skip the save", func(t *testing.T) {
		_, calls, rendered := run(FormModeCreate, formRequest(http.MethodPost, SkillsPath, url.Values{"name": {" "}}, false), nil)
		assert.Empty(t, calls)
		require.NotNil(t, rendered)
		assert.Equal(t, map[string]string{"name": "Name is required."}, rendered["Errors"])
		assert.Equal(t, "s1", rendered["SkillID"])
		assert.Equal(t, string(FormModeCreate), rendered["Mode"])
	})

	t.Run("save failure re-renders with status", func(t *testing.T) {
		w, calls, rendered := run(FormModeCreate,
			formRequest(http.MethodPost, SkillsPath, url.Values{"name": {"Patrol"}}, false),
			apperrors.Conflict("skill already exists"))
		require.Len(t, calls, 1)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "skill already exists", rendered["ErrorMessage"])
		assert.Equal(t, skillForm{Name: "Patrol"}, rendered["Form"])
	})

	t.Run("unexpected failure hides detail", func(t *testing.T) {
		_, _, rendered := run(FormModeCreate,
			formRequest(http.MethodPost, SkillsPath, url.Values{"name": {"Patrol"}}, false),
			errors.New("dial tcp: refused"))
		assert.Equal(t, apperrors.MsgInternalFailure, rendered["ErrorMessage"])
	})
}

func TestHandleForm_Misconfigured(t *testing.T) {
	w := httptest.NewRecorder()
	HandleForm(FormHandlerOpts[skillForm]{W: w, R: httptest.NewRequest(http.MethodPost, SkillsPath, nil)})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
