// Package mocks provides gomock implementations of the console's ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockBookingAPI(ctrl)
//	api.EXPECT().UpdateBookingStatus(gomock.Any(), "b1", gomock.Any()).Return(updated, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=identity_provider_mock.go github.com/wiqayah/admin-console/internal/ports IdentityProvider
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=profile_resolver_mock.go github.com/wiqayah/admin-console/internal/ports ProfileResolver
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_storage_mock.go github.com/wiqayah/admin-console/internal/ports TokenStorage

// Backend API surfaces used by the admin services.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=booking_api_mock.go github.com/wiqayah/admin-console/internal/ports BookingAPI
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_api_mock.go github.com/wiqayah/admin-console/internal/ports UserAPI
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=catalog_api_mock.go github.com/wiqayah/admin-console/internal/ports CatalogAPI

// Ledger repositories.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=payment_repository_mock.go github.com/wiqayah/admin-console/internal/ports PaymentRepository
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=staff_repository_mock.go github.com/wiqayah/admin-console/internal/ports StaffRepository
