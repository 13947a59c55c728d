package httpx

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/wiqayah/admin-console/internal/http/ui/viewmodel"
)

// PaginationData describes one page of a list. When TotalPages is unknown
// (ledger lists) HasNext must be supplied by the caller.
type PaginationData struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
	ItemCount  int
	HasNext    bool
	BasePath   string
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
	r    *http.Request
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{
		data: basePageData(r, meta),
		r:    r,
	}
}

// WithPagination stores a viewmodel.Pagination under "Pagination".
func (b *TemplateDataBuilder) WithPagination(opts PaginationData) *TemplateDataBuilder {
	b.data["Pagination"] = buildPagination(b.r.URL.Query(), opts)
	return b
}

func buildPagination(q url.Values, opts PaginationData) viewmodel.Pagination {
	page := max(opts.Page, 1)
	p := viewmodel.Pagination{
		Page:       page,
		Limit:      opts.Limit,
		Total:      opts.Total,
		TotalPages: opts.TotalPages,
		HasPrev:    page > 1,
		HasNext:    opts.HasNext,
	}
	if opts.TotalPages > 0 {
		p.HasNext = page < opts.TotalPages
	}
	if opts.ItemCount > 0 {
		p.StartIndex = (page-1)*opts.Limit + 1
		p.EndIndex = p.StartIndex + opts.ItemCount - 1
	}
	if p.HasPrev {
		p.PrevURL = buildPageURL(opts.BasePath, q, page-1, opts.Limit)
	}
	if p.HasNext {
		p.NextURL = buildPageURL(opts.BasePath, q, page+1, opts.Limit)
	}
	return p
}

// buildPageURL returns basePath with page and limit set, keeping the other
// non-empty filters and dropping htmx bookkeeping params.
func buildPageURL(basePath string, q url.Values, page, limit int) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		if strings.HasPrefix(k, "hx-") || strings.HasPrefix(k, "hx_") {
			continue
		}
		for _, s := range v {
			if strings.TrimSpace(s) != "" {
				qq.Add(k, s)
			}
		}
	}
	qq.Set("page", strconv.Itoa(page))
	if limit > 0 {
		qq.Set("limit", strconv.Itoa(limit))
	}
	return basePath + "?" + qq.Encode()
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// WithRetry links the inline error alert back to the current page.
func (b *TemplateDataBuilder) WithRetry() *TemplateDataBuilder {
	b.data["RetryURL"] = b.r.URL.RequestURI()
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}
