// Package memstore provides an in-process TokenStorage used when Redis is not configured.
package memstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wiqayah/admin-console/internal/ports"
)

var _ ports.TokenStorage = (*Storage)(nil)

type namespace struct {
	values    map[string]string
	expiresAt time.Time
}

// Storage is a mutex-guarded map of namespaces with sliding expiry.
type Storage struct {
	mu  sync.Mutex
	ns  map[string]*namespace
	now func() time.Time
}

// New creates an empty Storage.
func New() *Storage {
	return &Storage{ns: make(map[string]*namespace), now: time.Now}
}

// WithClock overrides the time source (tests).
func (s *Storage) WithClock(now func() time.Time) *Storage {
	s.now = now
	return s
}

func (s *Storage) live(name string) *namespace {
	n, ok := s.ns[name]
	if !ok {
		return nil
	}
	if !s.now().Before(n.expiresAt) {
		delete(s.ns, name)
		return nil
	}
	return n
}

func (s *Storage) Get(_ context.Context, name, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.live(name)
	if n == nil {
		return "", ports.ErrKeyNotFound
	}
	v, ok := n.values[key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (s *Storage) Set(_ context.Context, name, key, value string, ttl time.Duration) error {
	if name == "" || key == "" {
		return errors.New("storage namespace and key are required")
	}
	if ttl <= 0 {
		return errors.New("storage ttl must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.live(name)
	if n == nil {
		n = &namespace{values: make(map[string]string)}
		s.ns[name] = n
	}
	n.values[key] = value
	n.expiresAt = s.now().Add(ttl)
	return nil
}

func (s *Storage) Remove(_ context.Context, name string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.live(name)
	if n == nil {
		return nil
	}
	for _, k := range keys {
		delete(n.values, k)
	}
	if len(n.values) == 0 {
		delete(s.ns, name)
	}
	return nil
}
