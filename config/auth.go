package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeFirebase signs operators in against Firebase Authentication.
	AuthModeFirebase AuthMode = "firebase"
	// AuthModeMock uses locally configured accounts (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	switch v {
	case "firebase", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: firebase, mock)", v)
	}
}

// FirebaseConfig contains Firebase Authentication settings.
type FirebaseConfig struct {
	// APIKey is the web API key used for the identity toolkit and token refresh endpoints.
	APIKey    string `env:"API_KEY"`
	ProjectID string `env:"PROJECT_ID"`
	// CredentialsFile points at a service account JSON used for server-side token revocation.
	// Leave empty to skip revocation on sign-out.
	CredentialsFile string `env:"CREDENTIALS_FILE"`
	// RevokeOnSignOut revokes refresh tokens when an operator signs out.
	RevokeOnSignOut bool `env:"REVOKE_ON_SIGN_OUT" envDefault:"false"`
}

// DevAuthConfig controls mock/dev authentication.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	// Secret signs the HS256 dev tokens.
	Secret string `env:"SECRET" envDefault:"wiqayah-dev-secret"`
	// Accounts is a ";" separated list of "email|password|role" triples.
	Accounts []string `env:"ACCOUNTS" envDefault:"admin@wiqayah.dev|admin123|admin;client@wiqayah.dev|client123|client" envSeparator:";"`
	// TokenTTL is the lifetime of issued dev tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
}

// DevAccount is a parsed DevAuthConfig account entry.
type DevAccount struct {
	Email    string
	Password string
	Role     string
}

// ParsedAccounts splits the configured account entries.
func (d DevAuthConfig) ParsedAccounts() ([]DevAccount, error) {
	out := make([]DevAccount, 0, len(d.Accounts))
	for _, raw := range d.Accounts {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.Split(raw, "|")
		if len(parts) != 3 {
			return nil, fmt.Errorf("dev account %q: expected email|password|role", raw)
		}
		out = append(out, DevAccount{
			Email:    strings.ToLower(strings.TrimSpace(parts[0])),
			Password: parts[1],
			Role:     strings.TrimSpace(parts[2]),
		})
	}
	return out, nil
}

// LoginLimitConfig throttles sign-in attempts per email address.
type LoginLimitConfig struct {
	PerMinute float64 `env:"PER_MINUTE" envDefault:"5"`
	Burst     int     `env:"BURST"      envDefault:"5"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Mode determines which identity provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"firebase"`

	// Firebase configuration (used when Mode=firebase).
	Firebase FirebaseConfig `envPrefix:"FIREBASE_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	LoginLimit LoginLimitConfig `envPrefix:"LOGIN_RATE_"`

	// SessionIdleTTL bounds how long a browser's gate and stored token survive without activity.
	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"12h"`
	// SessionSweepInterval is how often idle gates are dropped from memory.
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m"`

	// SessionEncryptionKey seals stored refresh tokens (64 hex chars or a passphrase).
	// Leave empty to store them base64-encoded only.
	SessionEncryptionKey string `env:"SESSION_ENCRYPTION_KEY"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.LoginLimit.PerMinute <= 0 {
		a.LoginLimit.PerMinute = 5
	}
	if a.LoginLimit.Burst < 1 {
		a.LoginLimit.Burst = 1
	}
	if a.SessionIdleTTL < time.Minute {
		a.SessionIdleTTL = time.Minute
	}
	if a.SessionSweepInterval < 10*time.Second {
		a.SessionSweepInterval = 10 * time.Second
	}
	if a.DevAuth.TokenTTL <= 0 {
		a.DevAuth.TokenTTL = time.Hour
	}
}

// Validate checks that the selected mode has what it needs.
func (a *AuthConfig) Validate() error {
	switch a.Mode {
	case AuthModeFirebase:
		var errs []error
		if strings.TrimSpace(a.Firebase.APIKey) == "" {
			errs = append(errs, errors.New("FIREBASE_API_KEY is required when AUTH_MODE=firebase"))
		}
		if strings.TrimSpace(a.Firebase.ProjectID) == "" {
			errs = append(errs, errors.New("FIREBASE_PROJECT_ID is required when AUTH_MODE=firebase"))
		}
		if a.Firebase.RevokeOnSignOut && a.Firebase.CredentialsFile == "" {
			errs = append(errs, errors.New("FIREBASE_CREDENTIALS_FILE is required when FIREBASE_REVOKE_ON_SIGN_OUT=true"))
		}
		return errors.Join(errs...)
	case AuthModeMock:
		_, err := a.DevAuth.ParsedAccounts()
		return err
	default:
		return fmt.Errorf("unsupported auth mode %q", a.Mode)
	}
}
