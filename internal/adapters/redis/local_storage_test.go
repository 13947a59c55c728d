package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiqayah/admin-console/internal/ports"
	"github.com/wiqayah/admin-console/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func TestLocalStorage_SetGetRemove(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewLocalStorageWithPrefix(client, "test:storage:")
	ctx := context.Background()
	ns := "browser-" + t.Name()

	require.NoError(t, store.Set(ctx, ns, "firebaseToken", "tok-1", time.Minute))

	got, err := store.Get(ctx, ns, "firebaseToken")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got)

	ttl, err := client.TTL(ctx, "test:storage:"+ns).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)

	require.NoError(t, store.Remove(ctx, ns, "firebaseToken"))
	_, err = store.Get(ctx, ns, "firebaseToken")
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)
}

func TestLocalStorage_NamespacesAreIsolated(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewLocalStorage(client)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "ns-a", "k", "a", time.Minute))
	defer func() { _ = store.Remove(ctx, "ns-a", "k") }()

	_, err := store.Get(ctx, "ns-b", "k")
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)
}

func TestLocalStorage_Validation(t *testing.T) {
	store := NewLocalStorage(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}))
	ctx := context.Background()

	_, err := store.Get(ctx, "", "k")
	assert.ErrorIs(t, err, ports.ErrKeyNotFound)
	assert.Error(t, store.Set(ctx, "ns", "k", "v", 0))
	assert.NoError(t, store.Remove(ctx, "ns"))
}
