package data

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiqayah/admin-console/internal/domain/admin"
	apperrors "github.com/wiqayah/admin-console/internal/errors"
	"github.com/wiqayah/admin-console/internal/testutil"
)

func TestPaymentRepo_Create_Get_List_Update_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	clock := NewFixedTimeProvider(time.Date(2030, 5, 1, 9, 0, 0, 0, time.UTC))
	repo := NewPaymentRepo(db, clock)

	p, err := repo.Create(ctx, admin.PaymentInput{
		OrderRef: " INV-1001 ",
		Amount:   480,
		PaidOn:   "2026-02-14",
		Status:   "Paid",
	})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)
	assert.Equal(t, "INV-1001", p.OrderRef)
	assert.Equal(t, "paid", p.Status)
	assert.Equal(t, "2026-02-14", p.PaidOn.Format("2006-01-02"))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 480.0, got.Amount, 0.001)

	_, err = repo.Create(ctx, admin.PaymentInput{OrderRef: "INV-2002", Amount: 90, PaidOn: "2026-02-15", Status: "pending"})
	require.NoError(t, err)

	all, err := repo.List(ctx, admin.LedgerListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := repo.List(ctx, admin.LedgerListOptions{Q: "pend"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "INV-2002", filtered[0].OrderRef)

	updated, err := repo.Update(ctx, p.ID, admin.PaymentInput{OrderRef: "INV-1001", Amount: 500, PaidOn: "2026-02-20", Status: "refunded"})
	require.NoError(t, err)
	assert.Equal(t, "refunded", updated.Status)
	assert.True(t, updated.UpdatedAt.Equal(clock.Now()))

	deleted, err := repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.GetByID(ctx, p.ID)
	assert.True(t, apperrors.IsNotFound(err))

	deleted, err = repo.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestPaymentRepo_DuplicateOrderRef(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	repo := NewPaymentRepo(db, nil)

	in := admin.PaymentInput{OrderRef: "INV-9", Amount: 1, PaidOn: "2026-01-01", Status: "paid"}
	_, err := repo.Create(ctx, in)
	require.NoError(t, err)

	_, err = repo.Create(ctx, in)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, "order_ref", apperrors.GetField(err))
}

func TestPaymentRepo_ValidationBeforeQuery(t *testing.T) {
	// A nil DB proves no connection is attempted.
	repo := NewPaymentRepo(nil, nil)

	_, err := repo.Create(context.Background(), admin.PaymentInput{OrderRef: "x", Amount: 1, PaidOn: "14/02/2026", Status: "paid"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = repo.Update(context.Background(), "", admin.PaymentInput{})
	assert.ErrorIs(t, err, ErrIDRequired)

	_, err = repo.Delete(context.Background(), " ")
	assert.ErrorIs(t, err, ErrIDRequired)
}
