package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wiqayah/admin-console/internal/domain/admin"
	"github.com/wiqayah/admin-console/internal/domain/booking"
	apperrors "github.com/wiqayah/admin-console/internal/errors"
	"github.com/wiqayah/admin-console/internal/ports"
)

const recentBookingsLimit = 5

// CatalogServiceOptions groups dependencies for CatalogService.
type CatalogServiceOptions struct {
	API      ports.CatalogAPI
	Bookings ports.BookingAPI // Optional: enables recent bookings on the dashboard
	Logger   *zap.Logger
}

// CatalogService serves the dashboard, conversations and skills.
type CatalogService struct {
	api      ports.CatalogAPI
	bookings ports.BookingAPI
	logger   *zap.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(opts CatalogServiceOptions) *CatalogService {
	if opts.API == nil {
		panic("CatalogAPI is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{api: opts.API, bookings: opts.Bookings, logger: logger}
}

// Dashboard is the landing view of the admin area.
type Dashboard struct {
	Stats  admin.DashboardStats
	Recent []booking.Booking
}

// Dashboard fetches stats and recent bookings concurrently. A failed
// recent-bookings fetch is logged and leaves Recent empty.
func (s *CatalogService) Dashboard(ctx context.Context) (Dashboard, error) {
	var out Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.api.DashboardStats(gctx)
		if err != nil {
			return fmt.Errorf("dashboard stats: %w", err)
		}
		out.Stats = stats
		return nil
	})
	if s.bookings != nil {
		g.Go(func() error {
			page, err := s.bookings.ListBookings(gctx, admin.BookingListOptions{Page: 1, Limit: recentBookingsLimit})
			if err != nil {
				s.logger.Warn("recent bookings unavailable", zap.Error(err))
				return nil
			}
			out.Recent = page.Bookings
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return out, nil
}

// Conversations returns a page of conversations.
func (s *CatalogService) Conversations(ctx context.Context, opts admin.ConversationListOptions) (admin.ConversationsPage, error) {
	opts.Page, opts.Limit = admin.NormalizePage(opts.Page, opts.Limit)
	opts.Search = strings.TrimSpace(opts.Search)
	page, err := s.api.ListConversations(ctx, opts)
	if err != nil {
		return admin.ConversationsPage{}, fmt.Errorf("list conversations: %w", err)
	}
	return page, nil
}

// Skills lists guard skills.
func (s *CatalogService) Skills(ctx context.Context) ([]admin.Skill, error) {
	skills, err := s.api.ListSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return skills, nil
}

// CreateSkill validates and creates a skill.
func (s *CatalogService) CreateSkill(ctx context.Context, name string) (admin.Skill, error) {
	req := admin.CreateSkillRequest{Name: name}
	if err := req.Validate(); err != nil {
		return admin.Skill{}, apperrors.ValidationField("name", err.Error())
	}
	skill, err := s.api.CreateSkill(ctx, req)
	if err != nil {
		return admin.Skill{}, apperrors.UpdateFailed(err)
	}
	return skill, nil
}
