package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/wiqayah/admin-console/internal/domain/admin"
	apperrors "github.com/wiqayah/admin-console/internal/errors"
	"github.com/wiqayah/admin-console/internal/ports"
)

// LedgerServiceOptions groups dependencies for LedgerService.
type LedgerServiceOptions struct {
	Payments ports.PaymentRepository
	Staff    ports.StaffRepository
	Logger   *zap.Logger
}

// LedgerService manages the records the console keeps itself: the payment
// ledger and the admin staff roster.
type LedgerService struct {
	payments ports.PaymentRepository
	staff    ports.StaffRepository
	logger   *zap.Logger
}

// NewLedgerService constructs a LedgerService.
func NewLedgerService(opts LedgerServiceOptions) *LedgerService {
	if opts.Payments == nil || opts.Staff == nil {
		panic("payment and staff repositories are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{payments: opts.Payments, staff: opts.Staff, logger: logger}
}

// Payments lists payments.
func (s *LedgerService) Payments(ctx context.Context, opts admin.LedgerListOptions) ([]*admin.Payment, error) {
	return s.payments.List(ctx, opts)
}

// Payment returns one payment.
func (s *LedgerService) Payment(ctx context.Context, id string) (*admin.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// SavePayment creates a payment, or updates it when id is set.
func (s *LedgerService) SavePayment(ctx context.Context, id string, in admin.PaymentInput) (*admin.Payment, error) {
	if _, err := in.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	var (
		p   *admin.Payment
		err error
	)
	if id == "" {
		p, err = s.payments.Create(ctx, in)
	} else {
		p, err = s.payments.Update(ctx, id, in)
	}
	if err != nil {
		return nil, fmt.Errorf("save payment: %w", err)
	}
	s.logger.Info("payment saved", zap.String("id", p.ID), zap.String("order_ref", p.OrderRef))
	return p, nil
}

// DeletePayment removes a payment; a missing row is NotFound.
func (s *LedgerService) DeletePayment(ctx context.Context, id string) error {
	ok, err := s.payments.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if !ok {
		return apperrors.NotFound("Payment not found")
	}
	return nil
}

// Staff lists roster entries.
func (s *LedgerService) Staff(ctx context.Context, opts admin.LedgerListOptions) ([]*admin.StaffAdmin, error) {
	return s.staff.List(ctx, opts)
}

// StaffAdmin returns one roster entry.
func (s *LedgerService) StaffAdmin(ctx context.Context, id string) (*admin.StaffAdmin, error) {
	a, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get staff admin: %w", err)
	}
	return a, nil
}

// SaveStaff creates a roster entry, or updates it when id is set.
func (s *LedgerService) SaveStaff(ctx context.Context, id string, in admin.StaffAdminInput) (*admin.StaffAdmin, error) {
	if err := in.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	var (
		a   *admin.StaffAdmin
		err error
	)
	if id == "" {
		a, err = s.staff.Create(ctx, in)
	} else {
		a, err = s.staff.Update(ctx, id, in)
	}
	if err != nil {
		return nil, fmt.Errorf("save staff admin: %w", err)
	}
	return a, nil
}

// DeleteStaff removes a roster entry; a missing row is NotFound.
func (s *LedgerService) DeleteStaff(ctx context.Context, id string) error {
	ok, err := s.staff.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete staff admin: %w", err)
	}
	if !ok {
		return apperrors.NotFound("Staff admin not found")
	}
	return nil
}
