package auth

// Package auth contains domain-level types for operator authentication and
// the admin authorization gate. It is pure and free of framework/adapter concerns.

import (
	"fmt"
	"strings"
	"time"
)

// TokenKey is the storage key under which the bearer token is cached.
const TokenKey = "firebaseToken"

// Role is the platform role carried by a user profile.
// The set is closed; anything else is rejected by ParseRole.
type Role string

const (
	RoleClient Role = "client"
	RoleGuard  Role = "guard"
	RoleAdmin  Role = "admin"
)

// Roles lists every valid role in display order.
func Roles() []Role { return []Role{RoleClient, RoleGuard, RoleAdmin} }

// ParseRole validates a role string exactly as the backend reports it.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleClient, RoleGuard, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("invalid user role %q", s)
	}
}

// Label returns the human readable role name.
func (r Role) Label() string {
	switch r {
	case RoleClient:
		return "Client"
	case RoleGuard:
		return "Guard"
	case RoleAdmin:
		return "Admin"
	}
	return string(r)
}

// Profile is the backend's view of the signed-in user (GET /users/me).
type Profile struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Role       Role   `json:"role"`
	IsVerified bool   `json:"isVerified"`
}

// IsAdmin reports whether the profile passes the admin gate.
func (p Profile) IsAdmin() bool { return p.Role == RoleAdmin }

// DisplayName joins first and last name, falling back to the email.
func (p Profile) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Email
	}
	return name
}

// Credential is an established identity-provider session.
// IDToken is the bearer token presented to the backend.
type Credential struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	IDToken      string    `json:"id_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the token is past (or within skew of) its expiry.
func (c Credential) Expired(now time.Time, skew time.Duration) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(skew).Before(c.ExpiresAt)
}

// GateState is the externally observable state of the authorization gate.
type GateState int

const (
	GateResolving GateState = iota
	GateUnauthenticated
	GateAuthenticatedNonAdmin
	GateAuthenticatedAdmin
)

func (s GateState) String() string {
	switch s {
	case GateResolving:
		return "resolving"
	case GateUnauthenticated:
		return "unauthenticated"
	case GateAuthenticatedNonAdmin:
		return "authenticated_non_admin"
	case GateAuthenticatedAdmin:
		return "authenticated_admin"
	}
	return fmt.Sprintf("GateState(%d)", int(s))
}

// Outcome is what a protected route renders for a gate state.
type Outcome int

const (
	OutcomeLoading Outcome = iota
	OutcomeRedirectLogin
	OutcomeProtected
)

// Outcome maps a gate state to its rendering decision.
func (s GateState) Outcome() Outcome {
	switch s {
	case GateResolving:
		return OutcomeLoading
	case GateUnauthenticated, GateAuthenticatedNonAdmin:
		return OutcomeRedirectLogin
	case GateAuthenticatedAdmin:
		return OutcomeProtected
	}
	return OutcomeRedirectLogin
}

// AuthorizationState is the gate's full state. Credential and Profile are nil
// when absent; the zero value is not valid, use InitialState.
type AuthorizationState struct {
	Credential *Credential
	Profile    *Profile
	Resolving  bool
}

// InitialState is the state before the first session-change notification.
func InitialState() AuthorizationState {
	return AuthorizationState{Resolving: true}
}

// Gate derives the observable gate state.
func (a AuthorizationState) Gate() GateState {
	switch {
	case a.Resolving:
		return GateResolving
	case a.Credential == nil:
		return GateUnauthenticated
	case a.Profile == nil:
		return GateUnauthenticated
	case a.Profile.IsAdmin():
		return GateAuthenticatedAdmin
	default:
		return GateAuthenticatedNonAdmin
	}
}
