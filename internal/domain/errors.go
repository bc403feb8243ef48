package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error matches exactly one of them with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrBusiness     = errors.New("business rule violation")
	// ErrUnauthorized is a missing or bad credential, never a permission
	// problem.
	ErrUnauthorized = errors.New("unauthorized")
)

type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Is(target error) bool { return e.Kind == target }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) error {
	return newError(ErrValidation, format, args...)
}

// NotFound builds the error for a missing entity, e.g. NotFound("vendedor", id).
func NotFound(entity, id string) error {
	return newError(ErrNotFound, "%s não encontrado: %s", entity, id)
}

func InvalidState(format string, args ...interface{}) error {
	return newError(ErrInvalidState, format, args...)
}

func Conflict(format string, args ...interface{}) error {
	return newError(ErrConflict, format, args...)
}

func Forbidden(format string, args ...interface{}) error {
	return newError(ErrForbidden, format, args...)
}

func Business(format string, args ...interface{}) error {
	return newError(ErrBusiness, format, args...)
}

func Unauthorized(format string, args ...interface{}) error {
	return newError(ErrUnauthorized, format, args...)
}
