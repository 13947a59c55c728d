package httpx

import (
	"context"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

// ListPage is one fetched page. Backend lists report Total/TotalPages;
// ledger lists only know HasNext.
type ListPage[T any] struct {
	Items      []T
	Total      int
	TotalPages int
	HasNext    bool
}

// FilterParser parses query parameters into a filter value.
type FilterParser[F any] func(url.Values) (F, error)

// ListFetcher fetches one page for the parsed filters.
type ListFetcher[T any, F any] func(ctx context.Context, filters F, pg pageOpts) (ListPage[T], error)

// DataEnricher adds page-specific data after a successful fetch.
type DataEnricher[T any, F any] func(builder *TemplateDataBuilder, page ListPage[T], filters F)

// ListHandlerOpts contains all options needed for the generic list handler.
type ListHandlerOpts[T any, F any] struct {
	Handler      *UIHandlers
	W            http.ResponseWriter
	R            *http.Request
	Fetch        ListFetcher[T, F]
	FilterParser FilterParser[F] // Optional
	EnrichData   DataEnricher[T, F]
	BasePath     string
	PageMeta     PageMeta
	ItemsKey     string
	ErrorMessage string
	// ServiceAvailable returning false renders UnavailableMessage instead of fetching.
	ServiceAvailable   func() bool
	UnavailableMessage string
}

// HandleList parses paging and filters, fetches, and renders a list page.
// Fetch failures render the page with an inline alert and a retry link.
func HandleList[T, F any](opts ListHandlerOpts[T, F]) {
	if opts.W == nil || opts.R == nil || opts.Handler == nil || opts.Fetch == nil {
		if opts.W != nil {
			http.Error(opts.W, "Internal configuration error", http.StatusInternalServerError)
		}
		return
	}

	page, limit := ParsePage(opts.R)
	pg := pageOpts{Page: page, Limit: limit}

	var filters F
	if opts.FilterParser != nil {
		var err error
		if filters, err = opts.FilterParser(opts.R.URL.Query()); err != nil {
			opts.renderListError(pg, filters, "Invalid filter parameters: "+err.Error())
			return
		}
	}

	if opts.ServiceAvailable != nil && !opts.ServiceAvailable() {
		opts.renderListError(pg, filters, opts.UnavailableMessage)
		return
	}

	result, err := opts.Fetch(opts.R.Context(), filters, pg)
	if err != nil {
		opts.Handler.logger().Warn("list fetch failed", zap.String("path", opts.BasePath), zap.Error(err))
		opts.renderListError(pg, filters, opts.ErrorMessage)
		return
	}

	builder := NewTemplateData(opts.R, opts.PageMeta).
		WithPagination(PaginationData{
			Page:       page,
			Limit:      limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
			ItemCount:  len(result.Items),
			HasNext:    result.HasNext,
			BasePath:   opts.BasePath,
		}).
		With(opts.ItemsKey, result.Items).
		With("Filters", filters)
	if opts.EnrichData != nil {
		opts.EnrichData(builder, result, filters)
	}
	opts.Handler.renderDashboardPage(opts.W, opts.R, builder.Build())
}

func (opts ListHandlerOpts[T, F]) renderListError(pg pageOpts, filters F, msg string) {
	builder := NewTemplateData(opts.R, opts.PageMeta).
		WithPagination(PaginationData{Page: pg.Page, Limit: pg.Limit, BasePath: opts.BasePath}).
		With(opts.ItemsKey, []T(nil)).
		With("Filters", filters).
		WithError(msg).
		WithRetry()
	opts.Handler.renderDashboardPage(opts.W, opts.R, builder.Build())
}
