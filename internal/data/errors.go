package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// ErrIDRequired is returned when a lookup or write is missing its key.
	ErrIDRequired = errors.New("id is required")
)
