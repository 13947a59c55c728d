// Package devseed fills the ledger with development data. Seeding is
// idempotent: records that already exist are left alone.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wiqayah/admin-console/internal/data"
	"github.com/wiqayah/admin-console/internal/domain/admin"
	"github.com/wiqayah/admin-console/internal/service"
)

// Ledger is what seeding needs from the ledger service.
type Ledger interface {
	Payments(ctx context.Context, opts admin.LedgerListOptions) ([]*admin.Payment, error)
	SavePayment(ctx context.Context, id string, in admin.PaymentInput) (*admin.Payment, error)
	Staff(ctx context.Context, opts admin.LedgerListOptions) ([]*admin.StaffAdmin, error)
	SaveStaff(ctx context.Context, id string, in admin.StaffAdminInput) (*admin.StaffAdmin, error)
}

var _ Ledger = (*service.LedgerService)(nil)

// NewLedger builds a ledger service over db for seeding.
func NewLedger(db *sql.DB, logger *zap.Logger) *service.LedgerService {
	clock := &data.RealTimeProvider{}
	return service.NewLedgerService(service.LedgerServiceOptions{
		Payments: data.NewPaymentRepo(db, clock),
		Staff:    data.NewStaffRepo(db, clock),
		Logger:   logger,
	})
}

// Run seeds payments and the staff roster.
func Run(ctx context.Context, ledger Ledger, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	failures := seedPayments(ctx, ledger, logger) + seedStaff(ctx, ledger, logger)
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

func defaultPayments() []admin.PaymentInput {
	return []admin.PaymentInput{
		{OrderRef: "ORD-1001", Amount: 1200, PaidOn: "2026-01-05", Status: "paid"},
		{OrderRef: "ORD-1002", Amount: 450.5, PaidOn: "2026-01-12", Status: "pending"},
		{OrderRef: "ORD-1003", Amount: 3200, PaidOn: "2026-02-02", Status: "paid"},
		{OrderRef: "ORD-1004", Amount: 800, PaidOn: "2026-02-20", Status: "refunded"},
	}
}

func defaultStaff() []admin.StaffAdminInput {
	return []admin.StaffAdminInput{
		{Name: "Huda Saleh", Email: "huda.saleh@wiqayah.dev", Title: "Operations Lead"},
		{Name: "Omar Aziz", Email: "omar.aziz@wiqayah.dev", Title: "Support Admin"},
	}
}

func seedPayments(ctx context.Context, ledger Ledger, logger *zap.Logger) int {
	failures := 0
	for _, in := range defaultPayments() {
		existing, err := ledger.Payments(ctx, admin.LedgerListOptions{Limit: 50, Q: in.OrderRef})
		if err != nil {
			logger.Error("failed to look up payment", zap.String("order_ref", in.OrderRef), zap.Error(err))
			failures++
			continue
		}
		if containsPayment(existing, in.OrderRef) {
			logger.Info("payment already exists", zap.String("order_ref", in.OrderRef))
			continue
		}
		if _, err := ledger.SavePayment(ctx, "", in); err != nil {
			logger.Error("failed to create payment", zap.String("order_ref", in.OrderRef), zap.Error(err))
			failures++
			continue
		}
		logger.Info("created payment", zap.String("order_ref", in.OrderRef))
	}
	return failures
}

func containsPayment(list []*admin.Payment, orderRef string) bool {
	for _, p := range list {
		if strings.EqualFold(p.OrderRef, orderRef) {
			return true
		}
	}
	return false
}

func seedStaff(ctx context.Context, ledger Ledger, logger *zap.Logger) int {
	failures := 0
	for _, in := range defaultStaff() {
		existing, err := ledger.Staff(ctx, admin.LedgerListOptions{Limit: 50, Q: in.Email})
		if err != nil {
			logger.Error("failed to look up staff admin", zap.String("email", in.Email), zap.Error(err))
			failures++
			continue
		}
		if containsStaff(existing, in.Email) {
			logger.Info("staff admin already exists", zap.String("email", in.Email))
			continue
		}
		if _, err := ledger.SaveStaff(ctx, "", in); err != nil {
			logger.Error("failed to create staff admin", zap.String("email", in.Email), zap.Error(err))
			failures++
			continue
		}
		logger.Info("created staff admin", zap.String("email", in.Email))
	}
	return failures
}

func containsStaff(list []*admin.StaffAdmin, email string) bool {
	for _, s := range list {
		if strings.EqualFold(s.Email, email) {
			return true
		}
	}
	return false
}
