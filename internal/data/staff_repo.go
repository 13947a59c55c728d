package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/wiqayah/admin-console/internal/data/database"
	"github.com/wiqayah/admin-console/internal/data/pgxutil"
	"github.com/wiqayah/admin-console/internal/domain/admin"
	apperrors "github.com/wiqayah/admin-console/internal/errors"
)

const staffColumnList = "id, name, email, title, created_at, updated_at"

// StaffRepo persists the console's admin roster.
type StaffRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewStaffRepo constructs a StaffRepo. A nil TimeProvider uses the wall clock.
func NewStaffRepo(db *sql.DB, tp TimeProvider) *StaffRepo {
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	return &StaffRepo{DB: db, timeProvider: tp}
}

// Create inserts a roster entry. Duplicate emails surface as a Conflict on "email".
func (r *StaffRepo) Create(ctx context.Context, in admin.StaffAdminInput) (*admin.StaffAdmin, error) {
	if err := in.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return r.getByQuery(ctx, `
		INSERT INTO staff_admins (name, email, title)
		VALUES ($1, $2, $3)
		RETURNING `+staffColumnList,
		in.Name, in.Email, in.Title)
}

// GetByID returns a roster entry or a NotFound AppError.
func (r *StaffRepo) GetByID(ctx context.Context, id string) (*admin.StaffAdmin, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrIDRequired
	}
	return r.getByQuery(ctx, `SELECT `+staffColumnList+` FROM staff_admins WHERE id = $1`, id)
}

// List returns roster entries newest first, filtered by Q against name, email and title.
func (r *StaffRepo) List(ctx context.Context, opts admin.LedgerListOptions) ([]*admin.StaffAdmin, error) {
	query, args := database.BuildListQuery(ledgerQueryOptions("staff_admins",
		[]string{"id", "name", "email", "title", "created_at", "updated_at"},
		[]string{"name", "email", "title"},
		opts,
	))

	res, err := pgxutil.CollectAll[admin.StaffAdmin](ctx, r.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff admins: %w", apperrors.MapDBError(err))
	}
	return res, nil
}

// Update replaces every editable field of a roster entry.
func (r *StaffRepo) Update(ctx context.Context, id string, in admin.StaffAdminInput) (*admin.StaffAdmin, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrIDRequired
	}
	if err := in.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	return r.getByQuery(ctx, `
		UPDATE staff_admins
		SET name = $1, email = $2, title = $3, updated_at = $4
		WHERE id = $5
		RETURNING `+staffColumnList,
		in.Name, in.Email, in.Title, r.timeProvider.Now().UTC(), id)
}

// Delete removes a roster entry and reports whether a row existed.
func (r *StaffRepo) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.DB, "staff_admins", id)
}

func (r *StaffRepo) getByQuery(ctx context.Context, q string, args ...any) (*admin.StaffAdmin, error) {
	out, err := pgxutil.CollectOne[admin.StaffAdmin](ctx, r.DB, q, args...)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}
