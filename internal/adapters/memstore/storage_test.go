package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiqayah/admin-console/internal/ports"
)

func TestStorage_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := New().WithClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "ns", "firebaseToken", "tok", time.Minute))
	v, err := s.Get(ctx, "ns", "firebaseToken")
	require.NoError(t, err)
	assert.Equal(t, "tok", v)

	now = now.Add(2 * time.Minute)
	_, err = s.Get(ctx, "ns", "firebaseToken")
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)
}

func TestStorage_Remove(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "ns", "a", "1", time.Minute))
	require.NoError(t, s.Set(ctx, "ns", "b", "2", time.Minute))
	require.NoError(t, s.Remove(ctx, "ns", "a"))

	_, err := s.Get(ctx, "ns", "a")
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)
	v, err := s.Get(ctx, "ns", "b")
	require.NoError(t, err)
	assert.Equal(t, "2", v)

	assert.NoError(t, s.Remove(ctx, "missing", "a"))
	assert.Error(t, s.Set(ctx, "", "a", "1", time.Minute))
}
