package ports

// Package ports defines interfaces (hexagonal ports) for the console.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
)

// ErrKeyNotFound is returned by TokenStorage when a key is absent.
var ErrKeyNotFound = errors.New("storage key not found")

// IdentityProvider signs operators in and maintains their provider session.
// Errors from SignIn are classified *errors.AppError values
// (InvalidCredentials, RateLimited, Unknown).
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (domainauth.Credential, error)

	// SignOut ends the provider session. Callers treat failures as non-fatal.
	SignOut(ctx context.Context, cred domainauth.Credential) error

	// Resume validates a persisted credential, refreshing it when expired.
	Resume(ctx context.Context, cred domainauth.Credential) (domainauth.Credential, error)
}

// ProfileResolver fetches the signed-in user's profile (GET /users/me).
type ProfileResolver interface {
	Me(ctx context.Context, token string) (domainauth.Profile, error)
}

// TokenStorage is a per-browser key/value namespace, the server-side
// counterpart of window.localStorage.
type TokenStorage interface {
	Get(ctx context.Context, namespace, key string) (string, error)
	Set(ctx context.Context, namespace, key, value string, ttl time.Duration) error
	Remove(ctx context.Context, namespace string, keys ...string) error
}
