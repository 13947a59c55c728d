package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/wiqayah/admin-console/internal/data/database"
	"github.com/wiqayah/admin-console/internal/data/pgxutil"
	"github.com/wiqayah/admin-console/internal/domain/admin"
	apperrors "github.com/wiqayah/admin-console/internal/errors"
)

const (
	sortDirDesc = "DESC"

	defaultLedgerLimit = 20
	maxLedgerLimit     = 100
)

const paymentColumnList = "id, order_ref, amount, paid_on, status, created_at, updated_at"

// PaymentRepo persists the payment ledger.
type PaymentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewPaymentRepo constructs a PaymentRepo. A nil TimeProvider uses the wall clock.
func NewPaymentRepo(db *sql.DB, tp TimeProvider) *PaymentRepo {
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	return &PaymentRepo{DB: db, timeProvider: tp}
}

// Create inserts a payment after validating the input.
func (r *PaymentRepo) Create(ctx context.Context, in admin.PaymentInput) (*admin.Payment, error) {
	paidOn, err := in.Validate()
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return r.getByQuery(ctx, `
		INSERT INTO payments (order_ref, amount, paid_on, status)
		VALUES ($1, $2, $3, $4)
		RETURNING `+paymentColumnList,
		in.OrderRef, in.Amount, paidOn, in.Status)
}

// GetByID returns a payment or a NotFound AppError.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*admin.Payment, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrIDRequired
	}
	return r.getByQuery(ctx, `SELECT `+paymentColumnList+` FROM payments WHERE id = $1`, id)
}

// List returns payments newest first, filtered by Q against order_ref and status.
func (r *PaymentRepo) List(ctx context.Context, opts admin.LedgerListOptions) ([]*admin.Payment, error) {
	query, args := database.BuildListQuery(ledgerQueryOptions("payments",
		[]string{"id", "order_ref", "amount", "paid_on", "status", "created_at", "updated_at"},
		[]string{"order_ref", "status"},
		opts,
	))
	res, err := pgxutil.CollectAll[admin.Payment](ctx, r.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", apperrors.MapDBError(err))
	}
	return res, nil
}

// Update replaces every editable field of a payment.
func (r *PaymentRepo) Update(ctx context.Context, id string, in admin.PaymentInput) (*admin.Payment, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrIDRequired
	}
	paidOn, err := in.Validate()
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return r.getByQuery(ctx, `
		UPDATE payments
		SET order_ref = $1, amount = $2, paid_on = $3, status = $4, updated_at = $5
		WHERE id = $6
		RETURNING `+paymentColumnList,
		in.OrderRef, in.Amount, paidOn, in.Status, r.timeProvider.Now().UTC(), id)
}

// Delete removes a payment and reports whether a row existed.
func (r *PaymentRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.DB, "payments", id)
}

func (r *PaymentRepo) getByQuery(ctx context.Context, q string, args ...any) (*admin.Payment, error) {
	out, err := pgxutil.CollectOne[admin.Payment](ctx, r.DB, q, args...)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

func deleteByID(ctx context.Context, db *sql.DB, table, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, ErrIDRequired
	}
	affected, err := pgxutil.Exec(ctx, db, "DELETE FROM "+pgx.Identifier{table}.Sanitize()+" WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete from %s: %w", table, apperrors.MapDBError(err))
	}
	return affected > 0, nil
}

// ledgerQueryOptions builds the shared newest-first paged listing for a ledger table.
func ledgerQueryOptions(table string, columns, searchable []string, opts admin.LedgerListOptions) *database.ListQueryOptions {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLedgerLimit
	}
	if limit > maxLedgerLimit {
		limit = maxLedgerLimit
	}
	offset := max(opts.Offset, 0)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(columns...),
		database.WithOrderBy("created_at", sortDirDesc),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}
	if q := strings.TrimSpace(opts.Q); q != "" {
		queryOpts = append(queryOpts, database.WithCondition(database.SearchCond(q, searchable...)))
	}
	return database.NewListQueryOptions(table, queryOpts...)
}
