package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wiqayah/admin-console/internal/domain/admin"
	domainauth "github.com/wiqayah/admin-console/internal/domain/auth"
	apperrors "github.com/wiqayah/admin-console/internal/errors"
	"github.com/wiqayah/admin-console/internal/mocks"
)

func nextChange(t *testing.T, ch <-chan SessionChange) SessionChange {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(time.Second):
		t.Fatal("no session change published")
		return SessionChange{}
	}
}

func TestUserService_ListByRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockUserAPI(ctrl)
	svc := NewUserService(UserServiceOptions{API: api})

	guard := domainauth.RoleGuard
	api.EXPECT().
		ListUsers(gomock.Any(), admin.UserListOptions{Page: 1, Limit: admin.MaxPageSize, Role: &guard}).
		Return(admin.UsersPage{Users: []admin.User{{ID: "g1", Role: guard}}, Total: 1}, nil)

	page, err := svc.ListByRole(context.Background(), domainauth.RoleGuard, admin.UserListOptions{Limit: 500})
	require.NoError(t, err)
	assert.Len(t, page.Users, 1)
}

func TestUserService_ChangeRole(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctrl := gomock.NewController(t)
	api := mocks.NewMockUserAPI(ctrl)
	feed := NewSessionFeed(nil)
	changes := feed.Subscribe(ctx)
	svc := NewUserService(UserServiceOptions{API: api, Feed: feed})

	err := svc.ChangeRole(ctx, "u1", "owner")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "role", apperrors.GetField(err))

	api.EXPECT().UpdateUserRole(gomock.Any(), "u1", domainauth.RoleGuard).Return(nil)
	require.NoError(t, svc.ChangeRole(ctx, "u1", "guard"))
	assert.Equal(t, SessionChange{UserID: "u1"}, nextChange(t, changes))
}

func TestUserService_SetActiveAndDelete(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctrl := gomock.NewController(t)
	api := mocks.NewMockUserAPI(ctrl)
	feed := NewSessionFeed(nil)
	changes := feed.Subscribe(ctx)
	svc := NewUserService(UserServiceOptions{API: api, Feed: feed})

	gomock.InOrder(
		api.EXPECT().UpdateUserStatus(gomock.Any(), "u1", false).Return(nil),
		api.EXPECT().UpdateUserStatus(gomock.Any(), "u1", true).Return(nil),
		api.EXPECT().DeleteUser(gomock.Any(), "u2").Return(nil),
	)

	require.NoError(t, svc.SetActive(ctx, "u1", false))
	assert.Equal(t, SessionChange{UserID: "u1", Revoked: true}, nextChange(t, changes))
	require.NoError(t, svc.SetActive(ctx, "u1", true))
	assert.Equal(t, SessionChange{UserID: "u1"}, nextChange(t, changes))
	require.NoError(t, svc.Delete(ctx, "u2"))
	assert.Equal(t, SessionChange{UserID: "u2", Revoked: true}, nextChange(t, changes))
}

func TestUserService_FailedWriteDoesNotPublish(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctrl := gomock.NewController(t)
	api := mocks.NewMockUserAPI(ctrl)
	feed := NewSessionFeed(nil)
	changes := feed.Subscribe(ctx)
	svc := NewUserService(UserServiceOptions{API: api, Feed: feed})

	api.EXPECT().DeleteUser(gomock.Any(), "u1").Return(errors.New("500"))
	err := svc.Delete(ctx, "u1")
	assert.True(t, apperrors.IsUpdateFailed(err))
	assert.Empty(t, changes)

	assert.True(t, apperrors.IsValidation(svc.Delete(ctx, " ")))
}
