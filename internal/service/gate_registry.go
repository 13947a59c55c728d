package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const restoreTimeout = 15 * time.Second

// ErrInvalidSessionID is returned for session ids that are not UUIDs.
var ErrInvalidSessionID = errors.New("invalid session id")

// GateRegistryOptions groups dependencies for GateRegistry.
type GateRegistryOptions struct {
	Identity GateIdentity
	Storage  GateStorage // Namespace is ignored; each gate uses its session id
	Feed     *SessionFeed
	Logger   *zap.Logger
}

// GateRegistry keeps one Gate per browser session. Gates are restored from
// storage on first access, so sessions survive process restarts.
type GateRegistry struct {
	identity GateIdentity
	storage  GateStorage
	feed     *SessionFeed
	logger   *zap.Logger
	now      func() time.Time

	group singleflight.Group

	mu    sync.Mutex
	gates map[string]*registeredGate
}

type registeredGate struct {
	gate   *Gate
	cancel context.CancelFunc
	seen   time.Time
}

// NewGateRegistry constructs an empty registry.
func NewGateRegistry(opts GateRegistryOptions) *GateRegistry {
	if opts.Identity.Provider == nil || opts.Identity.Profiles == nil {
		panic("identity provider and profile resolver are required")
	}
	if opts.Storage.Store == nil {
		panic("TokenStorage is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GateRegistry{
		identity: opts.Identity,
		storage:  opts.Storage,
		feed:     opts.Feed,
		logger:   logger,
		now:      time.Now,
		gates:    make(map[string]*registeredGate),
	}
}

// NewSessionID returns a fresh browser session id.
func NewSessionID() string { return uuid.NewString() }

// ValidSessionID reports whether id can name a session.
func ValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns the gate for sessionID, restoring it on first use. Concurrent
// first requests for one id share a single restore.
func (r *GateRegistry) Get(ctx context.Context, sessionID string) (*Gate, error) {
	if !ValidSessionID(sessionID) {
		return nil, ErrInvalidSessionID
	}
	if g := r.lookup(sessionID); g != nil {
		return g, nil
	}

	v, err, _ := r.group.Do(sessionID, func() (any, error) {
		if g := r.lookup(sessionID); g != nil {
			return g, nil
		}
		return r.create(ctx, sessionID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Gate), nil
}

func (r *GateRegistry) lookup(id string) *Gate {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rg, ok := r.gates[id]; ok {
		rg.seen = r.now()
		return rg.gate
	}
	return nil
}

func (r *GateRegistry) create(ctx context.Context, id string) (*Gate, error) {
	storage := r.storage
	storage.Namespace = id
	g := NewGate(GateOptions{Identity: r.identity, Storage: storage, Logger: r.logger})

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), restoreTimeout)
	defer cancel()
	if err := g.Restore(rctx); err != nil {
		r.logger.Warn("session restore failed", zap.String("session", shortID(id)), zap.Error(err))
	}

	watchCtx, stop := context.WithCancel(context.Background())
	if r.feed != nil {
		changes := r.feed.Subscribe(watchCtx)
		go func() {
			if err := g.Watch(watchCtx, changes); err != nil && !errors.Is(err, context.Canceled) {
				r.logger.Warn("gate watch stopped", zap.Error(err))
			}
		}()
	}

	r.mu.Lock()
	r.gates[id] = &registeredGate{gate: g, cancel: stop, seen: r.now()}
	r.mu.Unlock()
	return g, nil
}

// Issue creates a gate under a fresh session id. Sign-in goes through an
// issued gate so a session id chosen before authentication never carries
// the resulting credential.
func (r *GateRegistry) Issue(ctx context.Context) (string, *Gate, error) {
	id := NewSessionID()
	g, err := r.create(ctx, id)
	if err != nil {
		return "", nil, err
	}
	return id, g, nil
}

// Drop forgets a session's gate without touching its stored token.
func (r *GateRegistry) Drop(sessionID string) {
	r.mu.Lock()
	rg, ok := r.gates[sessionID]
	delete(r.gates, sessionID)
	r.mu.Unlock()
	if ok {
		rg.cancel()
	}
}

// Sweep drops gates idle for longer than idle and returns how many were dropped.
func (r *GateRegistry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)
	var stale []*registeredGate

	r.mu.Lock()
	for id, rg := range r.gates {
		if rg.seen.Before(cutoff) {
			stale = append(stale, rg)
			delete(r.gates, id)
		}
	}
	r.mu.Unlock()

	for _, rg := range stale {
		rg.cancel()
	}
	return len(stale)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *GateRegistry) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(idle); n > 0 {
				r.logger.Debug("dropped idle gates", zap.Int("count", n))
			}
		}
	}
}

// Len returns the number of live gates.
func (r *GateRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.gates)
}

// Close stops every gate watcher.
func (r *GateRegistry) Close() {
	r.mu.Lock()
	gates := r.gates
	r.gates = make(map[string]*registeredGate)
	r.mu.Unlock()
	for _, rg := range gates {
		rg.cancel()
	}
}
