package ports_test

import (
	"testing"

	"github.com/wiqayah/admin-console/internal/mocks"
	authmocks "github.com/wiqayah/admin-console/internal/mocks/auth"
	"github.com/wiqayah/admin-console/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.IdentityProvider = (*authmocks.MockIdentityProvider)(nil)
	var _ ports.ProfileResolver = (*authmocks.MockProfileResolver)(nil)
	var _ ports.TokenStorage = (*authmocks.MemoryTokenStorage)(nil)

	var _ ports.IdentityProvider = (*mocks.MockIdentityProvider)(nil)
	var _ ports.ProfileResolver = (*mocks.MockProfileResolver)(nil)
	var _ ports.TokenStorage = (*mocks.MockTokenStorage)(nil)
	var _ ports.BookingAPI = (*mocks.MockBookingAPI)(nil)
	var _ ports.UserAPI = (*mocks.MockUserAPI)(nil)
	var _ ports.CatalogAPI = (*mocks.MockCatalogAPI)(nil)
	var _ ports.PaymentRepository = (*mocks.MockPaymentRepository)(nil)
	var _ ports.StaffRepository = (*mocks.MockStaffRepository)(nil)
}
