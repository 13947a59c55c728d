package ports

import (
	"context"

	"github.com/wiqayah/admin-console/internal/domain/admin"
	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
	"github.com/wiqayah/admin-console/internal/domain/booking"
)

// BookingAPI is the backend surface used by the booking status workflow.
type BookingAPI interface {
	ListBookings(ctx context.Context, opts admin.BookingListOptions) (admin.BookingsPage, error)
	UpdateBookingStatus(ctx context.Context, id string, change admin.StatusChange) (booking.Booking, error)
}

// UserAPI covers platform account administration.
type UserAPI interface {
	ListUsers(ctx context.Context, opts admin.UserListOptions) (admin.UsersPage, error)
	UpdateUserRole(ctx context.Context, id string, role domainauth.Role) error
	UpdateUserStatus(ctx context.Context, id string, active bool) error
	DeleteUser(ctx context.Context, id string) error
	UserConversations(ctx context.Context, id string) (admin.UserConversations, error)
}

// CatalogAPI covers dashboard stats, conversations and skills.
type CatalogAPI interface {
	DashboardStats(ctx context.Context) (admin.DashboardStats, error)
	ListConversations(ctx context.Context, opts admin.ConversationListOptions) (admin.ConversationsPage, error)
	ListSkills(ctx context.Context) ([]admin.Skill, error)
	CreateSkill(ctx context.Context, req admin.CreateSkillRequest) (admin.Skill, error)
}

// AdminAPI is the full backend client.
type AdminAPI interface {
	ProfileResolver
	BookingAPI
	UserAPI
	CatalogAPI
}

// PaymentRepository persists the payment ledger.
type PaymentRepository interface {
	Create(ctx context.Context, in admin.PaymentInput) (*admin.Payment, error)
	GetByID(ctx context.Context, id string) (*admin.Payment, error)
	List(ctx context.Context, opts admin.LedgerListOptions) ([]*admin.Payment, error)
	Update(ctx context.Context, id string, in admin.PaymentInput) (*admin.Payment, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// StaffRepository persists the admin roster.
type StaffRepository interface {
	Create(ctx context.Context, in admin.StaffAdminInput) (*admin.StaffAdmin, error)
	GetByID(ctx context.Context, id string) (*admin.StaffAdmin, error)
	List(ctx context.Context, opts admin.LedgerListOptions) ([]*admin.StaffAdmin, error)
	Update(ctx context.Context, id string, in admin.StaffAdminInput) (*admin.StaffAdmin, error)
	Delete(ctx context.Context, id string) (bool, error)
}
