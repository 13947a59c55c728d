package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wiqayah/admin-console/internal/domain/admin"
	"github.com/wiqayah/admin-console/internal/domain/booking"
	apperrors "github.com/wiqayah/admin-console/internal/errors"
	"github.com/wiqayah/admin-console/internal/ports"
)

// BookingWorkflowOptions groups dependencies for BookingWorkflow.
type BookingWorkflowOptions struct {
	API    ports.BookingAPI
	Logger *zap.Logger
	Now    func() time.Time // Optional: defaults to time.Now
}

// BookingWorkflow lists bookings and applies the status transition policy
// before forwarding changes to the backend. Nothing is cached.
type BookingWorkflow struct {
	api    ports.BookingAPI
	logger *zap.Logger
	now    func() time.Time
}

// NewBookingWorkflow constructs a BookingWorkflow.
func NewBookingWorkflow(opts BookingWorkflowOptions) *BookingWorkflow {
	if opts.API == nil {
		panic("BookingAPI is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &BookingWorkflow{api: opts.API, logger: logger, now: now}
}

// List fetches a page of bookings and fills in the upcoming/past counters
// for the bookings on the page when the backend omits them.
func (w *BookingWorkflow) List(ctx context.Context, opts admin.BookingListOptions) (admin.BookingsPage, error) {
	opts.Page, opts.Limit = admin.NormalizePage(opts.Page, opts.Limit)
	opts.Search = strings.TrimSpace(opts.Search)

	page, err := w.api.ListBookings(ctx, opts)
	if err != nil {
		return admin.BookingsPage{}, fmt.Errorf("list bookings: %w", err)
	}
	if page.UpcomingCount == 0 && page.PastCount == 0 {
		now := w.now()
		for _, b := range page.Bookings {
			switch {
			case b.Period.Valid() && b.Period.Start.After(now) && !b.Status.Terminal():
				page.UpcomingCount++
			case b.Period.Valid() && b.Period.End.Before(now):
				page.PastCount++
			}
		}
	}
	return page, nil
}

// RequestStatusChange moves b to next. Disallowed transitions fail with a
// Validation error before any network call; backend rejections surface as
// UpdateFailed.
func (w *BookingWorkflow) RequestStatusChange(
	ctx context.Context,
	b booking.Booking,
	next booking.Status,
	notes string,
) (booking.Booking, error) {
	if err := booking.CheckTransition(b.Status, next); err != nil {
		return booking.Booking{}, apperrors.Wrap(err, apperrors.ErrCodeValidation,
			fmt.Sprintf("A %s booking cannot be moved to %s.", strings.ToLower(b.Status.Label()), strings.ToLower(next.Label())))
	}

	updated, err := w.api.UpdateBookingStatus(ctx, b.ID, admin.StatusChange{
		Status: next,
		Notes:  strings.TrimSpace(notes),
	})
	if err != nil {
		w.logger.Warn("booking status update rejected",
			zap.String("booking_id", b.ID),
			zap.String("from", string(b.Status)),
			zap.String("to", string(next)),
			zap.Error(err))
		return booking.Booking{}, apperrors.UpdateFailed(err)
	}
	if updated.ID == "" {
		updated = b
		updated.Status = next
	}
	return updated, nil
}

// IsInvalidTransition reports whether err came from the transition policy.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, booking.ErrInvalidTransition)
}
