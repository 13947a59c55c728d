package admin

// DashboardStats is GET /admin/dashboard/stats.
type DashboardStats struct {
	TotalUsers            int     `json:"totalUsers"`
	TotalGuards           int     `json:"totalGuards"`
	TotalClients          int     `json:"totalClients"`
	TotalBookings         int     `json:"totalBookings"`
	CompletedBookings     int     `json:"completedBookings"`
	PendingBookings       int     `json:"pendingBookings"`
	CancelledBookings     int     `json:"cancelledBookings"`
	TotalRevenue          float64 `json:"totalRevenue"`
	MonthlyRevenue        float64 `json:"monthlyRevenue"`
	NewUsersThisMonth     int     `json:"newUsersThisMonth"`
	ActiveGuards          int     `json:"activeGuards"`
	ActiveBookings        int     `json:"activeBookings"`
	CompletedToday        int     `json:"completedToday"`
	PendingApprovalGuards int     `json:"pendingApprovalGuards"`
}

// CompletionRate is completed bookings as a percentage of all bookings.
func (s DashboardStats) CompletionRate() float64 {
	if s.TotalBookings == 0 {
		return 0
	}
	return float64(s.CompletedBookings) * 100 / float64(s.TotalBookings)
}
