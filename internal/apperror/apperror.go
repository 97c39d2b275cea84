// Package apperror defines the typed errors returned by the catalog store,
// the admin service and the playback sessions.
//
// Every AppError wraps one of the sentinel values below, so callers branch
// with errors.Is and handlers read the human-readable Message with errors.As.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrPrecondition = errors.New("precondition failed")
)

type AppError struct {
	Err     error  // sentinel
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports that a record with the same identifying value already
// exists. field names what collided ("id", "slug").
func Conflict(resource, field, value string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s with %s %s already exists", resource, field, value),
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// PreconditionFailed reports an operation that was understood but refused
// because of the current state, such as deleting the last category or
// skipping a pre-roll before its countdown ends. State is left unchanged.
func PreconditionFailed(message string) *AppError {
	return &AppError{
		Err:     ErrPrecondition,
		Message: message,
	}
}
