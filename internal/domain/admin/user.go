// Package admin holds the platform resources the console reads and edits
// through the backend API, and the records it keeps in its own ledger.
package admin

import (
	"strings"
	"time"

	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
)

// GuardProfile is the guard-specific part of a user record.
type GuardProfile struct {
	ID              string   `json:"id"`
	IsVerified      bool     `json:"isVerified"`
	ExperienceYears int      `json:"experienceYears"`
	HourlyRate      float64  `json:"hourlyRate"`
	Locations       []string `json:"locations"`
}

// User is a platform account as returned by GET /admin/users.
type User struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Role         domainauth.Role `json:"role"`
	Status       string          `json:"status"`
	IsVerified   bool            `json:"isVerified"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	LastLoginAt  *time.Time      `json:"lastLoginAt,omitempty"`
	GuardProfile *GuardProfile   `json:"guardProfile,omitempty"`
}

// Name returns the display name, falling back to email.
func (u User) Name() string {
	n := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if n == "" {
		return u.Email
	}
	return n
}

// Active reports whether the account is enabled.
func (u User) Active() bool { return !strings.EqualFold(u.Status, "inactive") }

// UserListOptions filters GET /admin/users.
type UserListOptions struct {
	Page   int
	Limit  int
	Search string
	Role   *domainauth.Role
}

// UsersPage is a page of users.
type UsersPage struct {
	Users      []User `json:"users"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}
