package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/wiqayah/admin-console/internal/domain/admin"
	"github.com/wiqayah/admin-console/internal/domain/booking"
	apperrors "github.com/wiqayah/admin-console/internal/errors"
)

// bookingsFilter is the query of the bookings table.
type bookingsFilter struct {
	Search string
	Status string
}

func parseBookingsFilter(q url.Values) (bookingsFilter, error) {
	f := bookingsFilter{Search: strings.TrimSpace(q.Get("q")), Status: strings.TrimSpace(q.Get("status"))}
	if f.Status != "" {
		if _, err := booking.ParseStatus(f.Status); err != nil {
			return f, err
		}
	}
	return f, nil
}

func (f bookingsFilter) options(pg pageOpts) admin.BookingListOptions {
	opts := admin.BookingListOptions{Page: pg.Page, Limit: pg.Limit, Search: f.Search}
	if f.Status != "" {
		s := booking.Status(f.Status)
		opts.Status = &s
	}
	return opts
}

// Bookings lists bookings with status filter, search and upcoming/past counts.
// Each row offers only the transitions its status allows.
// GET /admin/bookings?page=&limit=&q=&status=.
func (h *UIHandlers) Bookings(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.services(w, r)
	if !ok {
		return
	}
	var counts struct{ Upcoming, Past int }
	HandleList(ListHandlerOpts[booking.Booking, bookingsFilter]{
		Handler:      h,
		W:            w,
		R:            r,
		FilterParser: parseBookingsFilter,
		Fetch: func(ctx context.Context, f bookingsFilter, pg pageOpts) (ListPage[booking.Booking], error) {
			page, err := svc.Bookings.List(ctx, f.options(pg))
			counts.Upcoming, counts.Past = page.UpcomingCount, page.PastCount
			return ListPage[booking.Booking]{Items: page.Bookings, Total: page.Total, TotalPages: page.TotalPages}, err
		},
		EnrichData: func(b *TemplateDataBuilder, _ ListPage[booking.Booking], _ bookingsFilter) {
			b.With("Statuses", booking.Statuses()).
				With("UpcomingCount", counts.Upcoming).
				With("PastCount", counts.Past)
		},
		BasePath:     BookingsPath,
		PageMeta:     PageMeta{Title: "Wiqayah Admin - Bookings", PageTitle: "Bookings", CurrentPage: PageBookings},
		ItemsKey:     "Bookings",
		ErrorMessage: "Unable to load bookings.",
	})
}

// ChangeBookingStatus moves a booking along its lifecycle. Disallowed
// transitions are refused here without contacting the backend.
// POST /admin/bookings/{id}/status (form: from, status, notes).
func (h *UIHandlers) ChangeBookingStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.NotFound(w, r)
		return
	}
	svc, ok := h.services(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.writeActionError(w, r, apperrors.Validation("Invalid form submission."))
		return
	}

	from, err := booking.ParseStatus(r.PostFormValue("from"))
	if err != nil {
		h.writeActionError(w, r, apperrors.ValidationField("from", "Unknown current status."))
		return
	}
	next, err := booking.ParseStatus(r.PostFormValue("status"))
	if err != nil {
		h.writeActionError(w, r, apperrors.ValidationField("status", "Choose a new status."))
		return
	}

	updated, err := svc.Bookings.RequestStatusChange(r.Context(),
		booking.Booking{ID: id, Status: from}, next, r.PostFormValue("notes"))
	if err != nil {
		h.writeActionError(w, r, err)
		return
	}
	h.afterAction(w, r, BookingsPath, "Booking marked "+strings.ToLower(updated.Status.Label())+".")
}
