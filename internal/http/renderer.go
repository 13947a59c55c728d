package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"net/http"

	"go.uber.org/zap"

	corefuncs "github.com/wiqayah/admin-console/internal/http/templates/core"
)

// Top-level template names.
const (
	tmplLayout  = "layout"
	tmplContent = "content"
	tmplLanding = "landing"
	tmplLogin   = "login"
	tmplLoading = "loading"
	tmplError   = "error-layout"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *zap.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS // required
	Logger     *zap.Logger
}

// NewTemplateRenderer parses every template under TemplateFS.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var t *template.Template
	funcs := corefuncs.Funcs(corefuncs.Deps{Template: &t, ContentTemplateFor: ContentTemplateFor})
	t, err := template.New("root").Funcs(funcs).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
		"partials/*.tmpl",
	)
	if err != nil {
		logger.Error("template parsing failed", zap.Error(err))
		return nil, err
	}
	return &TemplateRenderer{t: t, logger: logger}, nil
}

// RenderFull renders the admin shell with the page content.
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.render(w, tmplLayout, data)
}

// RenderPartial renders only the main content area.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.render(w, tmplContent, data)
}

// RenderError renders the standalone error page.
func (r *TemplateRenderer) RenderError(w http.ResponseWriter, _ *http.Request, data any) error {
	return r.render(w, tmplError, data)
}

// RenderNamed renders a standalone page (landing, login, loading).
func (r *TemplateRenderer) RenderNamed(w http.ResponseWriter, name string, data any) error {
	return r.render(w, name, data)
}

// executeTemplate writes a named template directly to w.
func (r *TemplateRenderer) executeTemplate(w http.ResponseWriter, name string, data any) error {
	return r.t.ExecuteTemplate(w, name, data)
}

// render buffers the output so a failing template never sends a half page.
func (r *TemplateRenderer) render(w http.ResponseWriter, name string, data any) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error("template execution failed", zap.String("template", name), zap.Error(err))
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template", zap.String("template", name), zap.Error(err))
		return err
	}
	return nil
}
