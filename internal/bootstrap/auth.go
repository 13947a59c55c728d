package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/wiqayah/admin-console/config"
	"github.com/wiqayah/admin-console/internal/adapters/devauth"
	"github.com/wiqayah/admin-console/internal/adapters/firebase"
	"github.com/wiqayah/admin-console/internal/ports"
	"github.com/wiqayah/admin-console/internal/service"
)

// AuthConfig contains what the identity wiring needs.
type AuthConfig struct {
	Auth config.AuthConfig
	// Profiles resolves /users/me in firebase mode; dev mode answers it locally.
	Profiles ports.ProfileResolver
	Logger   *zap.Logger
}

// BuildIdentity selects the identity provider for the configured auth mode
// and attaches the login limiter.
func BuildIdentity(ctx context.Context, cfg AuthConfig) (service.GateIdentity, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limiter := service.NewLoginLimiter(cfg.Auth.LoginLimit.PerMinute, cfg.Auth.LoginLimit.Burst)

	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		prov, err := buildDevAuthProvider(cfg.Auth.DevAuth)
		if err != nil {
			return service.GateIdentity{}, err
		}
		logger.Warn("dev authentication enabled; do not use in production")
		return service.GateIdentity{Provider: prov, Profiles: prov, Limiter: limiter}, nil

	case config.AuthModeFirebase:
		if cfg.Profiles == nil {
			return service.GateIdentity{}, errors.New("firebase mode requires a profile resolver")
		}
		prov, err := buildFirebaseProvider(ctx, cfg.Auth.Firebase, logger)
		if err != nil {
			return service.GateIdentity{}, err
		}
		return service.GateIdentity{Provider: prov, Profiles: cfg.Profiles, Limiter: limiter}, nil

	default:
		return service.GateIdentity{}, fmt.Errorf("unsupported auth mode %q", cfg.Auth.Mode)
	}
}

func buildDevAuthProvider(cfg config.DevAuthConfig) (*devauth.Provider, error) {
	parsed, err := cfg.ParsedAccounts()
	if err != nil {
		return nil, err
	}
	accounts := make([]devauth.Account, 0, len(parsed))
	for _, a := range parsed {
		accounts = append(accounts, devauth.Account{Email: a.Email, Password: a.Password, Role: a.Role})
	}
	prov, err := devauth.NewProvider(devauth.Config{
		Secret:   cfg.Secret,
		Accounts: accounts,
		TokenTTL: cfg.TokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("create dev auth provider: %w", err)
	}
	return prov, nil
}

func buildFirebaseProvider(ctx context.Context, cfg config.FirebaseConfig, logger *zap.Logger) (*firebase.Provider, error) {
	var revoker firebase.TokenRevoker
	if cfg.RevokeOnSignOut {
		r, err := firebase.NewAdminRevoker(ctx, cfg.ProjectID, cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("create firebase revoker: %w", err)
		}
		revoker = r
	}
	prov, err := firebase.NewProvider(ctx, firebase.Config{
		APIKey:    cfg.APIKey,
		ProjectID: cfg.ProjectID,
		Revoker:   revoker,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create firebase provider: %w", err)
	}
	return prov, nil
}
