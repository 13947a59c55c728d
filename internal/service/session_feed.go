package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// SessionChange asks open gates signed in as UserID (the backend user id) to
// re-resolve their profile, or to sign out when Revoked is set.
type SessionChange struct {
	UserID  string
	Revoked bool
}

// SessionFeed fans session-change notifications out to subscribed gates.
// Publish never blocks: changes queue per subscriber and merge per user, so
// a slow gate sees the latest change for each user and never loses a
// revocation.
type SessionFeed struct {
	logger *zap.Logger

	mu   sync.Mutex
	next uint64
	subs map[uint64]*feedSubscriber
}

type feedSubscriber struct {
	mu      sync.Mutex
	order   []string
	pending map[string]bool // user id -> revoked
	wake    chan struct{}
}

// NewSessionFeed constructs an empty feed.
func NewSessionFeed(logger *zap.Logger) *SessionFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionFeed{logger: logger, subs: make(map[uint64]*feedSubscriber)}
}

// Subscribe returns a channel that receives every change published after the
// call. The channel is closed once ctx is done.
func (f *SessionFeed) Subscribe(ctx context.Context) <-chan SessionChange {
	sub := &feedSubscriber{pending: make(map[string]bool), wake: make(chan struct{}, 1)}
	out := make(chan SessionChange)

	f.mu.Lock()
	id := f.next
	f.next++
	f.subs[id] = sub
	f.mu.Unlock()

	go func() {
		defer close(out)
		defer func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.wake:
			}
			for {
				change, ok := sub.pop()
				if !ok {
					break
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Publish queues change for every subscriber. A change for a user that is
// still queued replaces it; Revoked stays set once queued.
func (f *SessionFeed) Publish(change SessionChange) {
	if change.UserID == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		if merged := sub.push(change); merged {
			f.logger.Debug("session change merged", zap.String("user_id", change.UserID))
		}
	}
}

// Subscribers returns the current subscriber count.
func (f *SessionFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (s *feedSubscriber) push(change SessionChange) (merged bool) {
	s.mu.Lock()
	revoked, queued := s.pending[change.UserID]
	if !queued {
		s.order = append(s.order, change.UserID)
	}
	s.pending[change.UserID] = revoked || change.Revoked
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	return queued
}

func (s *feedSubscriber) pop() (SessionChange, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) == 0 {
		return SessionChange{}, false
	}
	user := s.order[0]
	s.order = s.order[1:]
	revoked := s.pending[user]
	delete(s.pending, user)
	return SessionChange{UserID: user, Revoked: revoked}, true
}
