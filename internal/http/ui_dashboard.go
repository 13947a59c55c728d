package httpx

import (
	"context"
	"net/http"

	"github.com/wiqayah/admin-console/internal/domain/admin"
	"github.com/wiqayah/admin-console/internal/http/templates/core"
	"github.com/wiqayah/admin-console/internal/http/uiutil"
)

const errMsgUnableLoadStats = "Unable to load dashboard statistics."

// StatCard is one dashboard widget.
type StatCard struct {
	Label string
	Value string
	Hint  string
}

// statCards lays out the dashboard widgets in display order.
func statCards(s admin.DashboardStats) []StatCard {
	return []StatCard{
		{Label: "Total users", Value: core.FormatNumber(s.TotalUsers), Hint: "+" + core.FormatNumber(s.NewUsersThisMonth) + " this month"},
		{Label: "Guards", Value: core.FormatNumber(s.TotalGuards), Hint: core.FormatNumber(s.ActiveGuards) + " active"},
		{Label: "Clients", Value: core.FormatNumber(s.TotalClients)},
		{Label: "Bookings", Value: core.FormatNumber(s.TotalBookings), Hint: core.FormatNumber(s.ActiveBookings) + " active"},
		{Label: "Pending bookings", Value: core.FormatNumber(s.PendingBookings)},
		{Label: "Completed today", Value: core.FormatNumber(s.CompletedToday)},
		{Label: "Total revenue", Value: uiutil.FormatMoney(s.TotalRevenue), Hint: uiutil.FormatMoney(s.MonthlyRevenue) + " this month"},
		{Label: "Guards awaiting approval", Value: core.FormatNumber(s.PendingApprovalGuards)},
	}
}

// Dashboard serves the admin home with stats widgets and recent bookings.
// GET /admin.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.services(w, r)
	if !ok {
		return
	}
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Wiqayah Admin - Dashboard", PageTitle: "Dashboard", CurrentPage: PageDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			dash, err := svc.Catalog.Dashboard(ctx)
			if err != nil {
				data["ErrorMessage"] = errMsgUnableLoadStats
				return err
			}
			data["Stats"] = dash.Stats
			data["Cards"] = statCards(dash.Stats)
			data["CompletionRate"] = dash.Stats.CompletionRate()
			data["RecentBookings"] = dash.Recent
			return nil
		},
	})
}
