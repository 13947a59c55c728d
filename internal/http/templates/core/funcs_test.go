package core

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiqayah/admin-console/internal/domain/booking"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1250, "1,250"},
		{int64(1234567), "1,234,567"},
		{int32(-48000), "-48,000"},
		{"n/a", "n/a"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in))
	}
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "badge-warning", StatusClass(booking.StatusPending))
	assert.Equal(t, "badge-success", StatusClass(booking.StatusCompleted))
	assert.Equal(t, "badge-danger", StatusClass(booking.StatusCancelled))
	assert.Equal(t, "badge-light", StatusClass(booking.Status("archived")))
}

func TestTimeTag(t *testing.T) {
	assert.Empty(t, timeTag(time.Time{}))
	assert.Empty(t, timeTag((*time.Time)(nil)))

	ts := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	out := string(timeTag(&ts))
	assert.True(t, strings.HasPrefix(out, `<time datetime="2026-03-14T09:30:00Z"`), out)
}

func TestNavItem(t *testing.T) {
	assert.True(t, newNavItem("/admin/users", "Users", "users", "users").Active)
	assert.False(t, newNavItem("/admin/users", "Users", "users", "guards").Active)
}

func TestFuncs_RenderSection(t *testing.T) {
	var tmpl *template.Template
	funcs := Funcs(Deps{
		Template:           &tmpl,
		ContentTemplateFor: func(page string) string { return page + "-content" },
	})
	tmpl = template.Must(template.New("root").Funcs(funcs).Parse(
		`{{define "skills-content"}}<p>{{.}}</p>{{end}}` +
			`{{define "layout"}}<main>{{renderSection "skills" .}}</main> {{percent 75.0}} {{money 18250.5}}{{end}}`))

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "layout", "K9 & patrol"))
	assert.Equal(t, "<main><p>K9 &amp; patrol</p></main> 75.0% SAR 18,250.50", buf.String())
}

func TestFuncs_RenderSectionWithoutTemplate(t *testing.T) {
	render, ok := Funcs(Deps{ContentTemplateFor: func(p string) string { return p }})["renderSection"].(func(string, any) (template.HTML, error))
	require.True(t, ok)
	_, err := render("skills", nil)
	assert.Error(t, err)
}
