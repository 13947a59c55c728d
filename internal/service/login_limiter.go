package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL    = time.Hour
	limiterPruneAbove = 1024
)

// LoginLimiter throttles failed sign-in attempts per email address and
// client address, so failures from one client cannot lock the account out
// for everyone else. Only failures consume tokens; a successful sign-in
// forgets the pair.
type LoginLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]*limiterEntry
}

type limiterEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// NewLoginLimiter allows burst failures, refilled at perMinute per minute.
func NewLoginLimiter(perMinute float64, burst int) *LoginLimiter {
	if perMinute <= 0 {
		perMinute = 5
	}
	if burst < 1 {
		burst = 1
	}
	return &LoginLimiter{
		limit:   rate.Limit(perMinute / 60),
		burst:   burst,
		now:     time.Now,
		entries: make(map[string]*limiterEntry),
	}
}

// Allow reports whether another attempt for email from client may proceed.
func (l *LoginLimiter) Allow(email, client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	return l.entryLocked(limiterKey(email, client), now).lim.TokensAt(now) >= 1
}

// Failure records a failed attempt for email from client.
func (l *LoginLimiter) Failure(email, client string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	l.entryLocked(limiterKey(email, client), now).lim.AllowN(now, 1)
}

// Reset forgets email for client.
func (l *LoginLimiter) Reset(email, client string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, limiterKey(email, client))
}

func (l *LoginLimiter) entryLocked(key string, now time.Time) *limiterEntry {
	e, ok := l.entries[key]
	if !ok {
		if len(l.entries) >= limiterPruneAbove {
			l.pruneLocked(now)
		}
		e = &limiterEntry{lim: rate.NewLimiter(l.limit, l.burst)}
		l.entries[key] = e
	}
	e.seen = now
	return e
}

func (l *LoginLimiter) pruneLocked(now time.Time) {
	for k, e := range l.entries {
		if now.Sub(e.seen) > limiterIdleTTL {
			delete(l.entries, k)
		}
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func limiterKey(email, client string) string {
	return normalizeEmail(email) + "|" + client
}

type clientAddrKey struct{}

// WithClientAddr tags ctx with the address a sign-in attempt came from.
func WithClientAddr(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, clientAddrKey{}, addr)
}

// ClientAddr returns the address set by WithClientAddr, or "".
func ClientAddr(ctx context.Context) string {
	addr, _ := ctx.Value(clientAddrKey{}).(string)
	return addr
}
