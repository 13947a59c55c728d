package admin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePage(t *testing.T) {
	p, l := NormalizePage(0, 0)
	assert.Equal(t, 1, p)
	assert.Equal(t, DefaultPageSize, l)

	_, l = NormalizePage(3, 1000)
	assert.Equal(t, MaxPageSize, l)
}

func TestCreateSkillRequest_Validate(t *testing.T) {
	r := CreateSkillRequest{Name: "  Crowd control "}
	require.NoError(t, r.Validate())
	assert.Equal(t, "Crowd control", r.Name)

	blank := CreateSkillRequest{Name: "   "}
	assert.Error(t, blank.Validate())
}

func TestPaymentInput_Validate(t *testing.T) {
	in := PaymentInput{OrderRef: " ORD-7 ", Amount: 120.5, PaidOn: "2026-02-14", Status: " Paid "}
	d, err := in.Validate()
	require.NoError(t, err)
	assert.Equal(t, "ORD-7", in.OrderRef)
	assert.Equal(t, "paid", in.Status)
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), d)

	bad := []PaymentInput{
		{Amount: 1, PaidOn: "2026-02-14", Status: "paid"},
		{OrderRef: "x", Amount: -1, PaidOn: "2026-02-14", Status: "paid"},
		{OrderRef: "x", Amount: 1, PaidOn: "14/02/2026", Status: "paid"},
		{OrderRef: "x", Amount: 1, PaidOn: "2026-02-14"},
	}
	for _, b := range bad {
		_, err := b.Validate()
		assert.Error(t, err, "%+v", b)
	}
}

func TestStaffAdminInput_Validate(t *testing.T) {
	in := StaffAdminInput{Name: " Lina ", Email: " Lina@Wiqayah.dev ", Title: "Super Admin"}
	require.NoError(t, in.Validate())
	assert.Equal(t, "lina@wiqayah.dev", in.Email)

	assert.Error(t, (&StaffAdminInput{Name: "x", Email: "not-an-email"}).Validate())
	assert.Error(t, (&StaffAdminInput{Email: "a@b.dev"}).Validate())
}

func TestConversation_LastMessage(t *testing.T) {
	now := time.Now()
	c := Conversation{Messages: []Message{
		{Body: "first", SentAt: now.Add(-time.Hour)},
		{Body: "latest", SentAt: now},
		{Body: "middle", SentAt: now.Add(-time.Minute)},
	}}
	assert.Equal(t, "latest", c.LastMessage())
	assert.Empty(t, Conversation{}.LastMessage())
}

func TestDashboardStats_CompletionRate(t *testing.T) {
	assert.InDelta(t, 25.0, DashboardStats{TotalBookings: 8, CompletedBookings: 2}.CompletionRate(), 0.001)
	assert.Zero(t, DashboardStats{}.CompletionRate())
}

func TestUser_ActiveAndName(t *testing.T) {
	u := User{Email: "g@w.dev", Status: "INACTIVE"}
	assert.False(t, u.Active())
	assert.Equal(t, "g@w.dev", u.Name())
	assert.True(t, User{Status: "active"}.Active())
}
