package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists indicates a uniqueness violation (e.g. a ticker
	// already present on a user's watchlist).
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrInvalidTicker indicates that a symbol failed validation.
	ErrInvalidTicker = errors.New("invalid ticker")

	// ErrInvalidInput indicates that the provided input is invalid.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError represents a validation error with field information.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
