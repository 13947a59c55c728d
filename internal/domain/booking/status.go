// Package booking holds the booking model and its status transition policy.
package booking

import (
	"errors"
	"fmt"
)

// Status is a booking lifecycle state.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// ErrInvalidTransition is returned when a status change is not permitted.
var ErrInvalidTransition = errors.New("invalid booking status transition")

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled}
}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %q", s)
	}
}

// AllowedNext returns the statuses reachable from s. Terminal and unknown
// statuses return nil.
func AllowedNext(s Status) []Status {
	switch s {
	case StatusPending:
		return []Status{StatusConfirmed, StatusCancelled}
	case StatusConfirmed:
		return []Status{StatusInProgress, StatusCancelled}
	case StatusInProgress:
		return []Status{StatusCompleted}
	case StatusCompleted, StatusCancelled:
		return nil
	}
	return nil
}

// CanTransition reports whether from -> to is permitted.
func CanTransition(from, to Status) bool {
	for _, next := range AllowedNext(from) {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition returns ErrInvalidTransition (wrapped with context) when
// from -> to is not permitted.
func CheckTransition(from, to Status) error {
	if CanTransition(from, to) {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Terminal reports whether no further transitions exist.
func (s Status) Terminal() bool { return len(AllowedNext(s)) == 0 }

// Label returns the display label.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusConfirmed:
		return "Confirmed"
	case StatusInProgress:
		return "In progress"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	}
	return string(s)
}
