// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// It is usually wrapped by a *ValidationError naming the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or empty.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidStatus is returned when a task status is not one of the known values.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidRole is returned when a user role is not one of the known values.
	ErrInvalidRole = errors.New("invalid role")
)

// ValidationError describes a single field that violates an entity constraint.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error renders the field and its constraint, e.g. "title must not be empty".
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for field. A nil err defaults to ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
