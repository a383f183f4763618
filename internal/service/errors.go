package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/phrazzld/novatasks-api/internal/store"
)

// Service-level sentinel errors. Callers check them with errors.Is; the API
// layer maps each one to a status code.
var (
	// ErrTaskNotFound indicates that the task does not exist.
	ErrTaskNotFound = fmt.Errorf("task not found: %w", store.ErrTaskNotFound)

	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = fmt.Errorf("user not found: %w", store.ErrUserNotFound)

	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	// Unknown email and wrong password both produce it.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAdminSignupDisabled indicates a registration asked for the admin role
	// while admin self-registration is turned off.
	ErrAdminSignupDisabled = domain.NewValidationError(
		"role", "admin registration is disabled", domain.ErrInvalidRole)
)

// StoreFailure reports that the backing store rejected or failed an operation.
// Its message is the underlying store message.
type StoreFailure struct {
	// Operation is the service operation that failed (e.g. "create_task")
	Operation string
	// Err is the store error
	Err error
}

// Error implements the error interface for StoreFailure.
func (e *StoreFailure) Error() string {
	if e.Err == nil {
		return e.Operation + " failed"
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreFailure) Unwrap() error {
	return e.Err
}

// ServiceError wraps configuration errors raised while building a service.
type ServiceError struct {
	// Service is the service being built (e.g. "task_service")
	Service string
	// Message is a human-readable description of the error
	Message string
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

// translateStoreError converts a store error into the service's taxonomy.
// Known sentinels are returned directly so callers can match them without
// unwrapping; anything else becomes a *StoreFailure.
func translateStoreError(operation string, err error) error {
	if err == nil {
		return nil
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, store.ErrTaskNotFound):
		return ErrTaskNotFound
	case errors.Is(err, store.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, store.ErrEmailExists):
		return store.ErrEmailExists
	case errors.As(err, &validationErr):
		return validationErr
	}

	return &StoreFailure{Operation: operation, Err: err}
}
