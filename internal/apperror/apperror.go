// Package apperror defines the application's error taxonomy.
//
// Services return these errors; the HTTP layer maps them to status codes.
// Keeping the taxonomy in one package means the service layer never imports
// net/http and the handler layer never inspects SQL errors.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors. Callers check for these with errors.Is, which walks the
// wrap chain via AppError.Unwrap.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// AppError carries a sentinel plus a human-readable message and, for
// validation failures, the offending field.
type AppError struct {
	Err     error  // one of the sentinels above
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that a resource doesn't exist — or that the caller doesn't
// own it. Both cases produce the identical error on purpose: answering
// "forbidden" for someone else's row would confirm the row exists.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// ValidationFailed reports a bad input value on a named field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation, e.g. registering an email twice.
func Conflict(resource, key string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s already exists: %s", resource, key),
	}
}

// Forbidden reports that an authenticated caller lacks the required rights
// (e.g. a non-staff user calling an admin endpoint). Maps to 403.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized reports missing or bad credentials. Maps to 401.
// The message is intentionally generic — "invalid credentials" never reveals
// whether the email or the password was wrong.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
