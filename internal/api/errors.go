package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/novatasks-api/internal/api/middleware"
	"github.com/phrazzld/novatasks-api/internal/api/shared"
	"github.com/phrazzld/novatasks-api/internal/authz"
	"github.com/phrazzld/novatasks-api/internal/domain"
	"github.com/phrazzld/novatasks-api/internal/redact"
	"github.com/phrazzld/novatasks-api/internal/service"
	"github.com/phrazzld/novatasks-api/internal/service/auth"
	"github.com/phrazzld/novatasks-api/internal/store"
)

// Client-facing messages for the fixed error kinds.
const (
	MsgTaskNotFound       = "Task not found"
	MsgUserNotFound       = "User not found"
	MsgNotAuthorized      = "Not authorized"
	MsgEmailExists        = "Email already exists"
	MsgInvalidCredentials = "Invalid credentials"
	MsgServerError        = "Server Error"
)

// MapErrorToStatusCode maps service errors to HTTP status codes.
func MapErrorToStatusCode(err error) int {
	var validationErr *domain.ValidationError
	var storeFailure *service.StoreFailure

	switch {
	case err == nil:
		return http.StatusInternalServerError

	// Not found errors
	case errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound

	// Authentication and authorization errors
	case errors.Is(err, authz.ErrNotAuthorized),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized

	// Bad request errors
	case errors.Is(err, store.ErrEmailExists),
		errors.As(err, &validationErr),
		errors.As(err, &storeFailure):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the message sent to the client for err.
//
// Validation errors carry the violated constraint. Store failures forward the
// store's message with credentials, paths and addresses redacted.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgServerError
	}

	var validationErr *domain.ValidationError
	var storeFailure *service.StoreFailure

	switch {
	case errors.Is(err, store.ErrTaskNotFound):
		return MsgTaskNotFound
	case errors.Is(err, store.ErrUserNotFound):
		return MsgUserNotFound
	case errors.Is(err, authz.ErrNotAuthorized):
		return MsgNotAuthorized
	case errors.Is(err, service.ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return middleware.MsgNotAuthorizedRoute
	case errors.Is(err, store.ErrEmailExists):
		return MsgEmailExists
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &storeFailure):
		return redact.String(storeFailure.Error())
	default:
		return MsgServerError
	}
}

// HandleAPIError writes the failure envelope for err and logs it once.
// A non-empty fallbackMsg replaces the message of unmapped (5xx) errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMsg != "" {
		message = fallbackMsg
	}

	var opts []shared.ResponseOption
	if errors.Is(err, authz.ErrNotAuthorized) || errors.Is(err, service.ErrInvalidCredentials) {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
