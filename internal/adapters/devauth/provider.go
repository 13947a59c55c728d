package devauth

// Package devauth provides a config-driven identity provider for local development.
// It signs HS256 tokens for a fixed set of accounts and can also answer
// GET /users/me for them, so the console runs without Firebase or a backend.

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
	apperrors "github.com/wiqayah/admin-console/internal/errors"
	"github.com/wiqayah/admin-console/internal/ports"
)

var (
	_ ports.IdentityProvider = (*Provider)(nil)
	_ ports.ProfileResolver  = (*Provider)(nil)
)

const (
	tokenUseID      = "id"
	tokenUseRefresh = "refresh"
	refreshTTL      = 30 * 24 * time.Hour
)

// Account is a dev login. Role is kept as a raw string so invalid roles can
// be exercised locally.
type Account struct {
	Email     string
	Password  string
	Role      string
	FirstName string
	LastName  string
}

// Config controls the dev auth provider behavior.
type Config struct {
	Secret   string
	Accounts []Account
	TokenTTL time.Duration // default 1h when zero
	Now      func() time.Time
}

// Provider implements ports.IdentityProvider and ports.ProfileResolver for local development.
type Provider struct {
	secret   []byte
	accounts map[string]Account
	ttl      time.Duration
	now      func() time.Time
}

type claims struct {
	Email string `json:"email"`
	Use   string `json:"use"`
	jwt.RegisteredClaims
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if len(cfg.Secret) < 8 {
		return nil, errors.New("dev auth: secret must be at least 8 characters")
	}
	if len(cfg.Accounts) == 0 {
		return nil, errors.New("dev auth: at least one account is required")
	}
	accounts := make(map[string]Account, len(cfg.Accounts))
	for _, a := range cfg.Accounts {
		email := strings.ToLower(strings.TrimSpace(a.Email))
		if email == "" {
			return nil, errors.New("dev auth: account email is required")
		}
		a.Email = email
		accounts[email] = a
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Provider{secret: []byte(cfg.Secret), accounts: accounts, ttl: ttl, now: now}, nil
}

// UserID derives a stable id for an email address.
func UserID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("devauth:"+strings.ToLower(email))).String()
}

func (p *Provider) SignIn(_ context.Context, email, password string) (domainauth.Credential, error) {
	acct, ok := p.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return domainauth.Credential{}, apperrors.InvalidCredentials(apperrors.MsgNoAccount, errors.New("dev auth: unknown account"))
	}
	if subtle.ConstantTimeCompare([]byte(acct.Password), []byte(password)) != 1 {
		return domainauth.Credential{}, apperrors.InvalidCredentials(apperrors.MsgWrongPassword, errors.New("dev auth: password mismatch"))
	}
	return p.issue(acct)
}

// SignOut is a no-op; dev tokens simply expire.
func (p *Provider) SignOut(context.Context, domainauth.Credential) error { return nil }

func (p *Provider) Resume(_ context.Context, cred domainauth.Credential) (domainauth.Credential, error) {
	if c, err := p.parse(cred.IDToken, tokenUseID); err == nil {
		if _, ok := p.accounts[c.Email]; ok {
			return cred, nil
		}
	}
	c, err := p.parse(cred.RefreshToken, tokenUseRefresh)
	if err != nil {
		return domainauth.Credential{}, fmt.Errorf("dev auth: resume: %w", err)
	}
	acct, ok := p.accounts[c.Email]
	if !ok {
		return domainauth.Credential{}, errors.New("dev auth: account no longer configured")
	}
	return p.issue(acct)
}

// Me resolves the profile for a dev ID token.
func (p *Provider) Me(_ context.Context, token string) (domainauth.Profile, error) {
	c, err := p.parse(token, tokenUseID)
	if err != nil {
		return domainauth.Profile{}, fmt.Errorf("dev auth: %w", err)
	}
	acct, ok := p.accounts[c.Email]
	if !ok {
		return domainauth.Profile{}, errors.New("dev auth: account no longer configured")
	}
	return domainauth.Profile{
		ID:         c.Subject,
		Email:      acct.Email,
		FirstName:  acct.FirstName,
		LastName:   acct.LastName,
		Role:       domainauth.Role(acct.Role),
		IsVerified: true,
	}, nil
}

func (p *Provider) issue(acct Account) (domainauth.Credential, error) {
	now := p.now()
	exp := now.Add(p.ttl)
	uid := UserID(acct.Email)

	idToken, err := p.sign(uid, acct.Email, tokenUseID, now, exp)
	if err != nil {
		return domainauth.Credential{}, err
	}
	refresh, err := p.sign(uid, acct.Email, tokenUseRefresh, now, now.Add(refreshTTL))
	if err != nil {
		return domainauth.Credential{}, err
	}
	return domainauth.Credential{
		UserID:       uid,
		Email:        acct.Email,
		IDToken:      idToken,
		RefreshToken: refresh,
		ExpiresAt:    exp,
	}, nil
}

func (p *Provider) sign(uid, email, use string, iat, exp time.Time) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: email,
		Use:   use,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "wiqayah-devauth",
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(iat),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	s, err := tok.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("dev auth: sign token: %w", err)
	}
	return s, nil
}

func (p *Provider) parse(raw, use string) (*claims, error) {
	if raw == "" {
		return nil, errors.New("empty token")
	}
	c := &claims{}
	_, err := jwt.ParseWithClaims(raw, c, func(*jwt.Token) (any, error) { return p.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer("wiqayah-devauth"),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, err
	}
	if c.Use != use {
		return nil, fmt.Errorf("token use %q, want %q", c.Use, use)
	}
	return c, nil
}
