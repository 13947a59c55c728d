// Package firebase implements the identity provider port against Firebase Authentication.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
	apperrors "github.com/wiqayah/admin-console/internal/errors"
	"github.com/wiqayah/admin-console/internal/ports"
)

const (
	defaultTokenURL = "https://securetoken.googleapis.com/v1/token"
	defaultJWKSURL  = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
	issuerPrefix    = "https://securetoken.google.com/"

	// expirySkew refreshes tokens slightly before they lapse.
	expirySkew = time.Minute
)

var _ ports.IdentityProvider = (*Provider)(nil)

// TokenRevoker revokes a user's refresh tokens server side.
// *auth.Client from the Firebase Admin SDK satisfies it.
type TokenRevoker interface {
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// Config holds configuration for the Firebase provider.
type Config struct {
	APIKey    string
	ProjectID string

	// Revoker is optional; when nil SignOut only drops local state.
	Revoker TokenRevoker

	// Overrides for tests and emulators.
	IdentityEndpoint string
	TokenURL         string
	KeySet           gooidc.KeySet
	HTTPClient       *http.Client
	Now              func() time.Time

	Logger *zap.Logger
}

// Provider signs operators in with email/password and keeps their ID token fresh.
type Provider struct {
	signIn     *identitytoolkit.RelyingpartyService
	refresh    *oauth2.Config
	verifier   *gooidc.IDTokenVerifier
	revoker    TokenRevoker
	httpClient *http.Client
	now        func() time.Time
	logger     *zap.Logger
}

// NewProvider creates a Firebase provider. No network calls are made.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("firebase api key is required")
	}
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("firebase project id is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// A custom HTTP client bypasses the API key transport, so only tests set one.
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.IdentityEndpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.IdentityEndpoint))
	}
	svc, err := identitytoolkit.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("identity toolkit client: %w", err)
	}

	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = defaultTokenURL
	}
	tokenURL += "?key=" + url.QueryEscape(cfg.APIKey)

	keySet := cfg.KeySet
	if keySet == nil {
		keyCtx := gooidc.ClientContext(context.Background(), httpClient)
		keySet = gooidc.NewRemoteKeySet(keyCtx, defaultJWKSURL)
	}
	verifier := gooidc.NewVerifier(issuerPrefix+cfg.ProjectID, keySet, &gooidc.Config{
		ClientID: cfg.ProjectID,
		Now:      now,
	})

	return &Provider{
		signIn: svc.Relyingparty,
		refresh: &oauth2.Config{
			Endpoint: oauth2.Endpoint{TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInParams},
		},
		verifier:   verifier,
		revoker:    cfg.Revoker,
		httpClient: httpClient,
		now:        now,
		logger:     logger,
	}, nil
}

// SignIn verifies an email/password pair.
func (p *Provider) SignIn(ctx context.Context, email, password string) (domainauth.Credential, error) {
	resp, err := p.signIn.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return domainauth.Credential{}, classifySignInError(err)
	}
	if resp.IdToken == "" {
		return domainauth.Credential{}, apperrors.Unknown("", errors.New("sign-in response missing id token"))
	}

	return domainauth.Credential{
		UserID:       resp.LocalId,
		Email:        resp.Email,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    p.now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}, nil
}

// SignOut revokes refresh tokens when a revoker is configured.
func (p *Provider) SignOut(ctx context.Context, cred domainauth.Credential) error {
	if p.revoker == nil || cred.UserID == "" {
		return nil
	}
	if err := p.revoker.RevokeRefreshTokens(ctx, cred.UserID); err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}
	return nil
}

// Resume verifies a persisted credential's ID token, exchanging the refresh
// token for a new one when it has expired or fails verification.
func (p *Provider) Resume(ctx context.Context, cred domainauth.Credential) (domainauth.Credential, error) {
	if cred.IDToken != "" && !cred.Expired(p.now(), expirySkew) {
		_, err := p.verifier.Verify(ctx, cred.IDToken)
		if err == nil {
			return cred, nil
		}
		if cred.RefreshToken == "" {
			return domainauth.Credential{}, fmt.Errorf("verify id token: %w", err)
		}
		p.logger.Debug("id token failed verification, refreshing", zap.Error(err))
	}
	if cred.RefreshToken == "" {
		return domainauth.Credential{}, errors.New("credential expired and has no refresh token")
	}
	return p.refreshCredential(ctx, cred)
}

func (p *Provider) refreshCredential(ctx context.Context, cred domainauth.Credential) (domainauth.Credential, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	tok, err := p.refresh.TokenSource(ctx, &oauth2.Token{RefreshToken: cred.RefreshToken}).Token()
	if err != nil {
		return domainauth.Credential{}, fmt.Errorf("refresh id token: %w", err)
	}
	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return domainauth.Credential{}, errors.New("refresh response missing id_token")
	}
	if _, err := p.verifier.Verify(ctx, idToken); err != nil {
		return domainauth.Credential{}, fmt.Errorf("verify refreshed id token: %w", err)
	}

	next := cred
	next.IDToken = idToken
	if tok.RefreshToken != "" {
		next.RefreshToken = tok.RefreshToken
	}
	next.ExpiresAt = tok.Expiry
	if next.ExpiresAt.IsZero() {
		next.ExpiresAt = p.now().Add(time.Hour)
	}
	p.logger.Debug("refreshed firebase id token", zap.String("uid", cred.UserID))
	return next, nil
}
