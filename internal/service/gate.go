package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
	apperrors "github.com/wiqayah/admin-console/internal/errors"
	"github.com/wiqayah/admin-console/internal/ports"
)

const (
	// credentialKey holds the serialized credential next to the cached token.
	credentialKey = "session"

	tokenRefreshSkew = time.Minute
	subscriberBuffer = 4

	msgEmptyCredentials = "Please enter both email and password"
	msgInvalidRole      = "Invalid user role. Please contact support."
	msgSuperseded       = "Another sign-in finished first. Please try again."
)

// ErrSessionSuperseded marks a session change whose result was discarded
// because a later login, logout or re-resolution replaced it.
var ErrSessionSuperseded = errors.New("session change superseded")

// GateIdentity groups the identity collaborators of a Gate.
type GateIdentity struct {
	Provider ports.IdentityProvider
	Profiles ports.ProfileResolver
	Limiter  *LoginLimiter // Optional: nil disables login throttling
}

// GateStorage locates the browser's storage namespace.
type GateStorage struct {
	Store     ports.TokenStorage
	Namespace string
	TTL       time.Duration
}

// GateOptions groups dependencies for Gate.
type GateOptions struct {
	Identity GateIdentity
	Storage  GateStorage
	Logger   *zap.Logger
}

// Gate is the authorization gate of one browser session. It owns the
// AuthorizationState; every mutation runs under mu and bumps gen, and results
// computed against an older gen are discarded.
type Gate struct {
	provider ports.IdentityProvider
	profiles ports.ProfileResolver
	limiter  *LoginLimiter
	store    ports.TokenStorage
	ns       string
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu    sync.Mutex
	state domainauth.AuthorizationState
	gen   uint64
	subs  map[chan domainauth.GateState]struct{}
}

// NewGate constructs a gate in the Resolving state.
func NewGate(opts GateOptions) *Gate {
	if opts.Identity.Provider == nil {
		panic("IdentityProvider is required")
	}
	if opts.Identity.Profiles == nil {
		panic("ProfileResolver is required")
	}
	if opts.Storage.Store == nil {
		panic("TokenStorage is required")
	}
	if opts.Storage.Namespace == "" {
		panic("storage namespace is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{
		provider: opts.Identity.Provider,
		profiles: opts.Identity.Profiles,
		limiter:  opts.Identity.Limiter,
		store:    opts.Storage.Store,
		ns:       opts.Storage.Namespace,
		ttl:      opts.Storage.TTL,
		logger:   logger.With(zap.String("session", shortID(opts.Storage.Namespace))),
		now:      time.Now,
		state:    domainauth.InitialState(),
		subs:     make(map[chan domainauth.GateState]struct{}),
	}
}

// Namespace returns the storage namespace (the browser session id).
func (g *Gate) Namespace() string { return g.ns }

// State returns a copy of the current authorization state.
func (g *Gate) State() domainauth.AuthorizationState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return cloneState(g.state)
}

// GateState returns the observable gate state.
func (g *Gate) GateState() domainauth.GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Gate()
}

// Profile returns the admitted profile, if any.
func (g *Gate) Profile() (domainauth.Profile, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state.Profile == nil {
		return domainauth.Profile{}, false
	}
	return *g.state.Profile, true
}

// Restore re-establishes a persisted session. It must complete before the
// gate is shared with request handlers.
func (g *Gate) Restore(ctx context.Context) error {
	raw, err := g.store.Get(ctx, g.ns, credentialKey)
	switch {
	case errors.Is(err, ports.ErrKeyNotFound):
		return g.HandleSessionChange(ctx, nil)
	case err != nil:
		_ = g.HandleSessionChange(ctx, nil)
		return fmt.Errorf("read stored session: %w", err)
	}

	var cred domainauth.Credential
	if err := json.Unmarshal([]byte(raw), &cred); err != nil || cred.IDToken == "" {
		g.logger.Warn("discarding unreadable stored session", zap.Error(err))
		return g.HandleSessionChange(ctx, nil)
	}

	resumed, err := g.provider.Resume(ctx, cred)
	if err != nil {
		g.logger.Info("stored session could not be resumed", zap.Error(err))
		return g.HandleSessionChange(ctx, nil)
	}
	if err := g.HandleSessionChange(ctx, &resumed); err != nil {
		g.logger.Info("restored session rejected", zap.Error(err))
	}
	return nil
}

// HandleSessionChange is the single entry point for session transitions.
// A nil credential means no session. Otherwise the profile is resolved:
// admins are admitted and their token persisted; anyone else is signed out.
func (g *Gate) HandleSessionChange(ctx context.Context, cred *domainauth.Credential) error {
	if cred == nil {
		g.mu.Lock()
		g.gen++
		g.clearLocked(ctx)
		g.setLocked(domainauth.AuthorizationState{})
		g.mu.Unlock()
		return nil
	}
	_, err := g.admit(ctx, *cred)
	return err
}

// admit resolves the profile for cred and applies the outcome unless a newer
// mutation happened meanwhile.
func (g *Gate) admit(ctx context.Context, cred domainauth.Credential) (domainauth.Profile, error) {
	g.mu.Lock()
	g.gen++
	gen := g.gen
	g.setLocked(domainauth.AuthorizationState{Credential: &cred, Resolving: true})
	g.mu.Unlock()

	profile, err := g.resolveProfile(ctx, cred.IDToken)

	g.mu.Lock()
	if g.gen != gen {
		g.mu.Unlock()
		return domainauth.Profile{}, apperrors.Unknown(msgSuperseded, ErrSessionSuperseded)
	}

	if err == nil && profile.IsAdmin() {
		g.persistLocked(ctx, cred)
		g.setLocked(domainauth.AuthorizationState{Credential: &cred, Profile: &profile})
		g.mu.Unlock()
		g.logger.Info("admin admitted", zap.String("user_id", profile.ID))
		return profile, nil
	}

	g.clearLocked(ctx)
	if err == nil {
		g.setLocked(domainauth.AuthorizationState{Credential: &cred, Profile: &profile})
		err = apperrors.AccessDenied("")
		g.logger.Info("non-admin signed out", zap.String("user_id", profile.ID), zap.String("role", string(profile.Role)))
	} else {
		g.logger.Info("profile resolution failed; signing out", zap.Error(err))
	}
	g.setLocked(domainauth.AuthorizationState{})
	g.mu.Unlock()

	g.signOut(ctx, cred)
	return domainauth.Profile{}, err
}

func (g *Gate) resolveProfile(ctx context.Context, token string) (domainauth.Profile, error) {
	p, err := g.profiles.Me(ctx, token)
	if err != nil {
		return domainauth.Profile{}, apperrors.AccessDeniedCause("", fmt.Errorf("resolve profile: %w", err))
	}
	role, err := domainauth.ParseRole(string(p.Role))
	if err != nil {
		return domainauth.Profile{}, apperrors.AccessDenied(msgInvalidRole)
	}
	p.Role = role
	return p, nil
}

// Login signs in with email and password and admits the operator if the
// resolved profile is an admin.
func (g *Gate) Login(ctx context.Context, email, password string) (domainauth.Profile, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domainauth.Profile{}, apperrors.Validation(msgEmptyCredentials)
	}
	client := ClientAddr(ctx)
	if g.limiter != nil && !g.limiter.Allow(email, client) {
		return domainauth.Profile{}, apperrors.RateLimited(nil)
	}

	cred, err := g.provider.SignIn(ctx, email, password)
	if err != nil {
		if g.limiter != nil && apperrors.IsInvalidCredentials(err) {
			g.limiter.Failure(email, client)
		}
		return domainauth.Profile{}, classifyLoginError(err)
	}
	if g.limiter != nil {
		g.limiter.Reset(email, client)
	}
	return g.admit(ctx, cred)
}

// classifyLoginError keeps typed sign-in errors and turns anything else into Unknown.
func classifyLoginError(err error) error {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeInvalidCredentials, apperrors.ErrCodeRateLimited,
		apperrors.ErrCodeValidation, apperrors.ErrCodeUnknown:
		return err
	default:
		return apperrors.Unknown("", err)
	}
}

// Logout clears the session. Provider failures are logged, never returned.
func (g *Gate) Logout(ctx context.Context) {
	g.mu.Lock()
	g.gen++
	cred := g.state.Credential
	g.clearLocked(ctx)
	g.setLocked(domainauth.AuthorizationState{})
	g.mu.Unlock()

	if cred != nil {
		g.signOut(ctx, *cred)
	}
}

// AuthToken returns the current bearer token, refreshing it when it is about
// to expire. It returns "" when there is no session or refresh fails.
func (g *Gate) AuthToken(ctx context.Context) string {
	g.mu.Lock()
	if g.state.Credential == nil {
		g.mu.Unlock()
		return ""
	}
	cred := *g.state.Credential
	gen := g.gen
	g.mu.Unlock()

	if !g.expired(cred) {
		return cred.IDToken
	}

	fresh, err := g.provider.Resume(ctx, cred)
	if err != nil {
		g.logger.Warn("token refresh failed", zap.Error(err))
		return ""
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gen != gen || g.state.Credential == nil {
		return ""
	}
	g.state.Credential = &fresh
	if g.state.Profile != nil {
		g.persistLocked(ctx, fresh)
	}
	return fresh.IDToken
}

// TokenSource adapts AuthToken for HTTP clients. Token never fails; an empty
// AccessToken means the request goes out unauthenticated.
func (g *Gate) TokenSource(ctx context.Context) oauth2.TokenSource {
	return gateTokenSource{ctx: ctx, gate: g}
}

type gateTokenSource struct {
	ctx  context.Context
	gate *Gate
}

func (s gateTokenSource) Token() (*oauth2.Token, error) {
	return &oauth2.Token{AccessToken: s.gate.AuthToken(s.ctx), TokenType: "Bearer"}, nil
}

func (g *Gate) expired(c domainauth.Credential) bool {
	if c.ExpiresAt.IsZero() {
		c.ExpiresAt = tokenExpiry(c.IDToken)
	}
	return c.Expired(g.now(), tokenRefreshSkew)
}

// tokenExpiry reads the exp claim without verifying the signature; the
// identity provider verifies tokens, this only schedules refreshes.
func tokenExpiry(token string) time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.ExpiresAt.Time
}

// Subscribe streams gate states, starting with the current one. The channel
// is closed when ctx is done. Slow readers see the latest states only.
func (g *Gate) Subscribe(ctx context.Context) <-chan domainauth.GateState {
	ch := make(chan domainauth.GateState, subscriberBuffer)

	g.mu.Lock()
	ch <- g.state.Gate()
	g.subs[ch] = struct{}{}
	g.mu.Unlock()

	go func() {
		<-ctx.Done()
		g.mu.Lock()
		delete(g.subs, ch)
		close(ch)
		g.mu.Unlock()
	}()
	return ch
}

// Watch applies session-change notifications for the signed-in user until
// ctx is done or changes is closed.
func (g *Gate) Watch(ctx context.Context, changes <-chan SessionChange) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			g.applyChange(ctx, change)
		}
	}
}

func (g *Gate) applyChange(ctx context.Context, change SessionChange) {
	g.mu.Lock()
	if g.state.Profile == nil || g.state.Credential == nil || g.state.Profile.ID != change.UserID {
		g.mu.Unlock()
		return
	}
	cred := *g.state.Credential
	g.mu.Unlock()

	if change.Revoked {
		g.logger.Info("session revoked by account change", zap.String("user_id", change.UserID))
		g.Logout(ctx)
		return
	}
	if err := g.HandleSessionChange(ctx, &cred); err != nil && !errors.Is(err, ErrSessionSuperseded) {
		g.logger.Info("re-resolution ended session", zap.Error(err))
	}
}

// setLocked replaces the state and notifies subscribers. Caller holds mu.
func (g *Gate) setLocked(s domainauth.AuthorizationState) {
	g.state = s
	gs := s.Gate()
	for ch := range g.subs {
		select {
		case ch <- gs:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- gs:
			default:
			}
		}
	}
}

func (g *Gate) persistLocked(ctx context.Context, cred domainauth.Credential) {
	raw, err := json.Marshal(cred)
	if err != nil {
		g.logger.Error("encode credential", zap.Error(err))
		return
	}
	if err := g.store.Set(ctx, g.ns, domainauth.TokenKey, cred.IDToken, g.ttl); err != nil {
		g.logger.Warn("persist token failed", zap.Error(err))
		return
	}
	if err := g.store.Set(ctx, g.ns, credentialKey, string(raw), g.ttl); err != nil {
		g.logger.Warn("persist session failed", zap.Error(err))
	}
}

func (g *Gate) clearLocked(ctx context.Context) {
	if err := g.store.Remove(ctx, g.ns, domainauth.TokenKey, credentialKey); err != nil {
		g.logger.Warn("clear stored token failed", zap.Error(err))
	}
}

func (g *Gate) signOut(ctx context.Context, cred domainauth.Credential) {
	if err := g.provider.SignOut(ctx, cred); err != nil {
		g.logger.Warn("provider sign-out failed", zap.Error(err))
	}
}

func cloneState(s domainauth.AuthorizationState) domainauth.AuthorizationState {
	out := domainauth.AuthorizationState{Resolving: s.Resolving}
	if s.Credential != nil {
		c := *s.Credential
		out.Credential = &c
	}
	if s.Profile != nil {
		p := *s.Profile
		out.Profile = &p
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
