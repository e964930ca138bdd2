package utils

import (
	"errors"
	"fmt"
)

// Business error codes. Every failure surfaced by the core maps to exactly
// one of these, so the API boundary can always produce a specific reason.
const (
	CodeValidation   = "validationError"
	CodeNotFound     = "notFoundError"
	CodeConflict     = "conflictError"
	CodeInvalidState = "invalidStateError"
	CodeNotOwner     = "notOwnerError"
	CodeTransient    = "transientStoreError"
)

// AppError is a typed business error with a stable code.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(msg string) error {
	return &AppError{Code: CodeValidation, Message: msg}
}

func NewNotFoundError(msg string) error {
	return &AppError{Code: CodeNotFound, Message: msg}
}

func NewConflictError(msg string) error {
	return &AppError{Code: CodeConflict, Message: msg}
}

func NewInvalidStateError(msg string) error {
	return &AppError{Code: CodeInvalidState, Message: msg}
}

func NewNotOwnerError(msg string) error {
	return &AppError{Code: CodeNotOwner, Message: msg}
}

// NewTransientStoreError wraps an I/O failure talking to the persistence
// layer. Unlike the other codes it is safe to retry with backoff, but only
// for idempotent operations.
func NewTransientStoreError(msg string, err error) error {
	return &AppError{Code: CodeTransient, Message: msg, Err: err}
}

// CodeOf returns the business code of err, or "" when err carries none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// IsTransient reports whether err is eligible for internal retry.
func IsTransient(err error) bool {
	return CodeOf(err) == CodeTransient
}
