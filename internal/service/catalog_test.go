package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wiqayah/admin-console/internal/domain/admin"
	"github.com/wiqayah/admin-console/internal/domain/booking"
	apperrors "github.com/wiqayah/admin-console/internal/errors"
	"github.com/wiqayah/admin-console/internal/mocks"
)

func TestCatalogService_Dashboard(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockCatalogAPI(ctrl)
	bookings := mocks.NewMockBookingAPI(ctrl)
	svc := NewCatalogService(CatalogServiceOptions{API: api, Bookings: bookings})

	api.EXPECT().DashboardStats(gomock.Any()).Return(admin.DashboardStats{TotalUsers: 40}, nil)
	bookings.EXPECT().ListBookings(gomock.Any(), admin.BookingListOptions{Page: 1, Limit: recentBookingsLimit}).
		Return(admin.BookingsPage{Bookings: []booking.Booking{{ID: "b1"}}}, nil)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 40, d.Stats.TotalUsers)
	assert.Len(t, d.Recent, 1)
}

func TestCatalogService_DashboardRecentFailureIsTolerated(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockCatalogAPI(ctrl)
	bookings := mocks.NewMockBookingAPI(ctrl)
	svc := NewCatalogService(CatalogServiceOptions{API: api, Bookings: bookings})

	api.EXPECT().DashboardStats(gomock.Any()).Return(admin.DashboardStats{TotalBookings: 3}, nil)
	bookings.EXPECT().ListBookings(gomock.Any(), gomock.Any()).Return(admin.BookingsPage{}, errors.New("timeout"))

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, d.Stats.TotalBookings)
	assert.Empty(t, d.Recent)
}

func TestCatalogService_DashboardStatsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockCatalogAPI(ctrl)
	svc := NewCatalogService(CatalogServiceOptions{API: api})

	api.EXPECT().DashboardStats(gomock.Any()).Return(admin.DashboardStats{}, errors.New("502"))
	_, err := svc.Dashboard(context.Background())
	assert.ErrorContains(t, err, "dashboard stats")
}

func TestCatalogService_CreateSkill(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockCatalogAPI(ctrl)
	svc := NewCatalogService(CatalogServiceOptions{API: api})
	ctx := context.Background()

	_, err := svc.CreateSkill(ctx, "   ")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "name", apperrors.GetField(err))

	api.EXPECT().CreateSkill(gomock.Any(), admin.CreateSkillRequest{Name: "Crowd control"}).
		Return(admin.Skill{ID: "s1", Name: "Crowd control"}, nil)
	skill, err := svc.CreateSkill(ctx, " Crowd control ")
	require.NoError(t, err)
	assert.Equal(t, "s1", skill.ID)

	api.EXPECT().CreateSkill(gomock.Any(), gomock.Any()).Return(admin.Skill{}, errors.New("duplicate"))
	_, err = svc.CreateSkill(ctx, "Crowd control")
	assert.True(t, apperrors.IsUpdateFailed(err))
}

func TestCatalogService_Conversations(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockCatalogAPI(ctrl)
	svc := NewCatalogService(CatalogServiceOptions{API: api})

	api.EXPECT().
		ListConversations(gomock.Any(), admin.ConversationListOptions{Page: 2, Limit: admin.DefaultPageSize, Search: "noura"}).
		Return(admin.ConversationsPage{Total: 11}, nil)

	page, err := svc.Conversations(context.Background(), admin.ConversationListOptions{Page: 2, Search: "noura "})
	require.NoError(t, err)
	assert.Equal(t, 11, page.Total)
}
