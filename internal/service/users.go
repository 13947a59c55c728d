package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wiqayah/admin-console/internal/domain/admin"
	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
	apperrors "github.com/wiqayah/admin-console/internal/errors"
	"github.com/wiqayah/admin-console/internal/ports"
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	API    ports.UserAPI
	Feed   *SessionFeed // Optional: notifies open sessions of account changes
	Logger *zap.Logger
}

// UserService administers platform accounts through the backend.
type UserService struct {
	api    ports.UserAPI
	feed   *SessionFeed
	logger *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	if opts.API == nil {
		panic("UserAPI is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{api: opts.API, feed: opts.Feed, logger: logger}
}

// List returns a page of users.
func (s *UserService) List(ctx context.Context, opts admin.UserListOptions) (admin.UsersPage, error) {
	opts.Page, opts.Limit = admin.NormalizePage(opts.Page, opts.Limit)
	opts.Search = strings.TrimSpace(opts.Search)
	page, err := s.api.ListUsers(ctx, opts)
	if err != nil {
		return admin.UsersPage{}, fmt.Errorf("list users: %w", err)
	}
	return page, nil
}

// ListByRole returns a page of users holding role.
func (s *UserService) ListByRole(ctx context.Context, role domainauth.Role, opts admin.UserListOptions) (admin.UsersPage, error) {
	opts.Role = &role
	return s.List(ctx, opts)
}

// ChangeRole assigns a new role and asks that user's open sessions to
// re-resolve their profile.
func (s *UserService) ChangeRole(ctx context.Context, id string, role string) error {
	r, err := domainauth.ParseRole(role)
	if err != nil {
		return apperrors.ValidationField("role", "Choose client, guard or admin.")
	}
	if strings.TrimSpace(id) == "" {
		return apperrors.ValidationField("id", "User id is required.")
	}
	if err := s.api.UpdateUserRole(ctx, id, r); err != nil {
		return apperrors.UpdateFailed(err)
	}
	s.logger.Info("user role changed", zap.String("user_id", id), zap.String("role", string(r)))
	s.publish(SessionChange{UserID: id})
	return nil
}

// SetActive enables or disables an account. Disabling ends its sessions.
func (s *UserService) SetActive(ctx context.Context, id string, active bool) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.ValidationField("id", "User id is required.")
	}
	if err := s.api.UpdateUserStatus(ctx, id, active); err != nil {
		return apperrors.UpdateFailed(err)
	}
	s.logger.Info("user status changed", zap.String("user_id", id), zap.Bool("active", active))
	s.publish(SessionChange{UserID: id, Revoked: !active})
	return nil
}

// Delete removes an account and ends its sessions.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.ValidationField("id", "User id is required.")
	}
	if err := s.api.DeleteUser(ctx, id); err != nil {
		return apperrors.UpdateFailed(err)
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	s.publish(SessionChange{UserID: id, Revoked: true})
	return nil
}

// Conversations returns every conversation the user takes part in.
func (s *UserService) Conversations(ctx context.Context, id string) (admin.UserConversations, error) {
	out, err := s.api.UserConversations(ctx, id)
	if err != nil {
		return admin.UserConversations{}, fmt.Errorf("user conversations: %w", err)
	}
	return out, nil
}

func (s *UserService) publish(change SessionChange) {
	if s.feed != nil {
		s.feed.Publish(change)
	}
}
