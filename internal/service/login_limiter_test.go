package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginLimiter(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l := NewLoginLimiter(6, 3) // one token every 10s
	l.now = func() time.Time { return now }

	const client = "203.0.113.9"
	for range 3 {
		assert.True(t, l.Allow("Admin@Wiqayah.dev", client))
		l.Failure("admin@wiqayah.dev ", client)
	}
	assert.False(t, l.Allow("admin@wiqayah.dev", client))
	assert.True(t, l.Allow("other@wiqayah.dev", client))
	assert.True(t, l.Allow("admin@wiqayah.dev", "198.51.100.4"))

	now = now.Add(15 * time.Second)
	assert.True(t, l.Allow("admin@wiqayah.dev", client))

	l.Failure("admin@wiqayah.dev", client)
	assert.False(t, l.Allow("admin@wiqayah.dev", client))
	l.Reset("ADMIN@wiqayah.dev", client)
	assert.True(t, l.Allow("admin@wiqayah.dev", client))
}

func TestLoginLimiter_Defaults(t *testing.T) {
	l := NewLoginLimiter(0, 0)
	assert.Equal(t, 1, l.burst)
	assert.True(t, l.Allow("a@b.c", ""))
	l.Failure("a@b.c", "")
	assert.False(t, l.Allow("a@b.c", ""))
}

func TestLoginLimiter_PrunesIdleEntries(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l := NewLoginLimiter(5, 5)
	l.now = func() time.Time { return now }

	for i := range limiterPruneAbove {
		l.Failure(fmt.Sprintf("user%d@wiqayah.dev", i), "10.0.0.1")
	}
	assert.Len(t, l.entries, limiterPruneAbove)

	now = now.Add(2 * limiterIdleTTL)
	l.Failure("late@wiqayah.dev", "10.0.0.1")
	assert.Len(t, l.entries, 1)
}

func TestClientAddr(t *testing.T) {
	assert.Empty(t, ClientAddr(context.Background()))
	ctx := WithClientAddr(context.Background(), "203.0.113.9")
	assert.Equal(t, "203.0.113.9", ClientAddr(ctx))
}
