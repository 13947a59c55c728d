package admin

import (
	"strings"

	"github.com/wiqayah/admin-console/internal/domain/booking"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// NormalizePage clamps page and limit to sane values.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// BookingListOptions filters GET /admin/bookings.
type BookingListOptions struct {
	Page   int
	Limit  int
	Status *booking.Status
	Search string
}

// BookingsPage is a page of bookings plus upcoming/past counters.
type BookingsPage struct {
	Bookings      []booking.Booking `json:"bookings"`
	Total         int               `json:"total"`
	Page          int               `json:"page"`
	Limit         int               `json:"limit"`
	TotalPages    int               `json:"totalPages"`
	UpcomingCount int               `json:"upcomingCount"`
	PastCount     int               `json:"pastCount"`
}

// Find returns the booking with id from the page.
func (p BookingsPage) Find(id string) (booking.Booking, bool) {
	for _, b := range p.Bookings {
		if b.ID == id {
			return b, true
		}
	}
	return booking.Booking{}, false
}

// ConversationListOptions filters GET /admin/conversations.
type ConversationListOptions struct {
	Page   int
	Limit  int
	Search string
}

// StatusChange is the body of PUT /admin/bookings/{id}/status.
type StatusChange struct {
	Status booking.Status `json:"status"`
	Notes  string         `json:"notes,omitempty"`
}

// trimmed returns s without surrounding whitespace, or "" for whitespace-only input.
func trimmed(s string) string { return strings.TrimSpace(s) }
