package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/wiqayah/admin-console/internal/ports"
)

// APIBinder returns a backend client that authenticates with ts.
type APIBinder func(ts oauth2.TokenSource) ports.AdminAPI

// Console builds the admin services for one request, bound to the calling
// browser's gate so backend calls carry that operator's token.
type Console struct {
	bind   APIBinder
	feed   *SessionFeed
	logger *zap.Logger
}

// NewConsole constructs a Console.
func NewConsole(bind APIBinder, feed *SessionFeed, logger *zap.Logger) *Console {
	if bind == nil {
		panic("APIBinder is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{bind: bind, feed: feed, logger: logger}
}

// AdminServices are the backend-facing services of one request.
type AdminServices struct {
	Users    *UserService
	Bookings *BookingWorkflow
	Catalog  *CatalogService
}

// For binds services to g for the lifetime of ctx.
func (c *Console) For(ctx context.Context, g *Gate) AdminServices {
	api := c.bind(g.TokenSource(ctx))
	return AdminServices{
		Users:    NewUserService(UserServiceOptions{API: api, Feed: c.feed, Logger: c.logger}),
		Bookings: NewBookingWorkflow(BookingWorkflowOptions{API: api, Logger: c.logger}),
		Catalog:  NewCatalogService(CatalogServiceOptions{API: api, Bookings: api, Logger: c.logger}),
	}
}
