package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen,
// including concurrent tests where call ordering is not deterministic.

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
	apperrors "github.com/wiqayah/admin-console/internal/errors"
	"github.com/wiqayah/admin-console/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider = (*MockIdentityProvider)(nil)
	_ ports.ProfileResolver  = (*MockProfileResolver)(nil)
	_ ports.TokenStorage     = (*MemoryTokenStorage)(nil)
)

// MockIdentityProvider accepts the passwords in Accounts and issues
// deterministic tokens ("token-<email>-<n>").
type MockIdentityProvider struct {
	SignInFunc  func(ctx context.Context, email, password string) (domainauth.Credential, error)
	SignOutFunc func(ctx context.Context, cred domainauth.Credential) error
	ResumeFunc  func(ctx context.Context, cred domainauth.Credential) (domainauth.Credential, error)

	Accounts map[string]string
	TokenTTL time.Duration

	SignInCalls  atomic.Int32
	SignOutCalls atomic.Int32
	ResumeCalls  atomic.Int32
	issued       atomic.Int32
}

// NewMockIdentityProvider creates a provider that knows the given email/password pairs.
func NewMockIdentityProvider(accounts map[string]string) *MockIdentityProvider {
	return &MockIdentityProvider{Accounts: accounts, TokenTTL: time.Hour}
}

func (m *MockIdentityProvider) SignIn(ctx context.Context, email, password string) (domainauth.Credential, error) {
	m.SignInCalls.Add(1)
	if m.SignInFunc != nil {
		return m.SignInFunc(ctx, email, password)
	}
	want, ok := m.Accounts[email]
	if !ok {
		return domainauth.Credential{}, apperrors.InvalidCredentials(apperrors.MsgNoAccount, nil)
	}
	if want != password {
		return domainauth.Credential{}, apperrors.InvalidCredentials(apperrors.MsgWrongPassword, nil)
	}
	return m.issue(email), nil
}

func (m *MockIdentityProvider) SignOut(ctx context.Context, cred domainauth.Credential) error {
	m.SignOutCalls.Add(1)
	if m.SignOutFunc != nil {
		return m.SignOutFunc(ctx, cred)
	}
	return nil
}

func (m *MockIdentityProvider) Resume(ctx context.Context, cred domainauth.Credential) (domainauth.Credential, error) {
	m.ResumeCalls.Add(1)
	if m.ResumeFunc != nil {
		return m.ResumeFunc(ctx, cred)
	}
	if cred.Expired(time.Now(), 0) {
		return m.issue(cred.Email), nil
	}
	return cred, nil
}

func (m *MockIdentityProvider) issue(email string) domainauth.Credential {
	n := m.issued.Add(1)
	return domainauth.Credential{
		UserID:       "uid-" + email,
		Email:        email,
		IDToken:      fmt.Sprintf("token-%s-%d", email, n),
		RefreshToken: fmt.Sprintf("refresh-%s-%d", email, n),
		ExpiresAt:    time.Now().Add(m.TokenTTL),
	}
}

// MockProfileResolver returns ByEmail profiles for tokens issued by
// MockIdentityProvider ("token-<email>-<n>").
type MockProfileResolver struct {
	MeFunc  func(ctx context.Context, token string) (domainauth.Profile, error)
	ByEmail map[string]domainauth.Profile
	Calls   atomic.Int32
}

func (m *MockProfileResolver) Me(ctx context.Context, token string) (domainauth.Profile, error) {
	m.Calls.Add(1)
	if m.MeFunc != nil {
		return m.MeFunc(ctx, token)
	}
	for email, p := range m.ByEmail {
		if strings.HasPrefix(token, "token-"+email+"-") {
			return p, nil
		}
	}
	return domainauth.Profile{}, fmt.Errorf("no profile for token %q", token)
}

// MemoryTokenStorage is an in-memory TokenStorage that ignores TTLs.
type MemoryTokenStorage struct {
	mu   sync.Mutex
	data map[string]map[string]string

	// SetErr, when non-nil, is returned by every Set.
	SetErr error
}

// NewMemoryTokenStorage creates an empty storage.
func NewMemoryTokenStorage() *MemoryTokenStorage {
	return &MemoryTokenStorage{data: make(map[string]map[string]string)}
}

func (m *MemoryTokenStorage) Get(_ context.Context, namespace, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[namespace][key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (m *MemoryTokenStorage) Set(_ context.Context, namespace, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.data[namespace] == nil {
		m.data[namespace] = make(map[string]string)
	}
	m.data[namespace][key] = value
	return nil
}

func (m *MemoryTokenStorage) Remove(_ context.Context, namespace string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data[namespace], k)
	}
	return nil
}

// Value returns the stored value and whether it exists.
func (m *MemoryTokenStorage) Value(namespace, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[namespace][key]
	return v, ok
}
