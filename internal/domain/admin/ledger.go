package admin

import (
	"errors"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxLedgerTextLen = 255
	dateLayout       = "2006-01-02"
)

// Payment is a locally kept payment record tied to a booking/order reference.
type Payment struct {
	ID        string    `json:"id"         db:"id"`
	OrderRef  string    `json:"order_ref"  db:"order_ref"`
	Amount    float64   `json:"amount"     db:"amount"`
	PaidOn    time.Time `json:"paid_on"    db:"paid_on"`
	Status    string    `json:"status"     db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PaymentInput is the create/update form for a payment.
type PaymentInput struct {
	OrderRef string  `json:"order_ref"`
	Amount   float64 `json:"amount"`
	PaidOn   string  `json:"paid_on"`
	Status   string  `json:"status"`
}

// Validate normalizes and checks a payment input, returning the parsed date.
func (r *PaymentInput) Validate() (time.Time, error) {
	r.OrderRef = trimmed(r.OrderRef)
	r.Status = strings.ToLower(trimmed(r.Status))
	if r.OrderRef == "" {
		return time.Time{}, errors.New("order reference is required")
	}
	if utf8.RuneCountInString(r.OrderRef) > maxLedgerTextLen {
		return time.Time{}, errors.New("order reference cannot exceed 255 characters")
	}
	if r.Amount < 0 {
		return time.Time{}, errors.New("amount cannot be negative")
	}
	if r.Status == "" {
		return time.Time{}, errors.New("status is required")
	}
	d, err := time.Parse(dateLayout, trimmed(r.PaidOn))
	if err != nil {
		return time.Time{}, errors.New("date must be YYYY-MM-DD")
	}
	return d, nil
}

// StaffAdmin is a console-side roster entry for an administrator.
type StaffAdmin struct {
	ID        string    `json:"id"         db:"id"`
	Name      string    `json:"name"       db:"name"`
	Email     string    `json:"email"      db:"email"`
	Title     string    `json:"title"      db:"title"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StaffAdminInput is the create/update form for a roster entry.
type StaffAdminInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Title string `json:"title"`
}

// Validate normalizes and checks a roster entry.
func (r *StaffAdminInput) Validate() error {
	r.Name = trimmed(r.Name)
	r.Email = strings.ToLower(trimmed(r.Email))
	r.Title = trimmed(r.Title)
	if r.Name == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(r.Name) > maxLedgerTextLen || utf8.RuneCountInString(r.Title) > maxLedgerTextLen {
		return errors.New("fields cannot exceed 255 characters")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil || strings.ContainsAny(r.Email, "<> ") {
		return errors.New("a valid email is required")
	}
	return nil
}

// LedgerListOptions controls paging and search for ledger tables.
// Q matches text columns via ILIKE substring.
type LedgerListOptions struct {
	Limit  int
	Offset int
	Q      string
}
