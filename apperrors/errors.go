// Package apperrors defines the typed error kinds surfaced by the
// deletion workflow. Every domain-rule violation maps to one of the
// codes below; callers branch on the code, not on message text.
package apperrors

import (
	"errors"
	"fmt"
)

// Code identifies the kind of failure
type Code string

const (
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeNotFound     Code = "NOT_FOUND"
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeConflict     Code = "CONFLICT"
	CodeDatabase     Code = "DATABASE_ERROR"
	CodeUnknown      Code = "UNKNOWN_ERROR"
)

// Error is a typed application error with an optional offending field
// and an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Field   string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// Unauthorized creates an UNAUTHORIZED error
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// NotFound creates a NOT_FOUND error
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// Validation creates a VALIDATION_ERROR error
func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// ValidationField creates a VALIDATION_ERROR error tied to a field
func ValidationField(field, message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Field: field}
}

// Conflict creates a CONFLICT error
func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// Database wraps a storage/transaction failure as DATABASE_ERROR
func Database(message string, err error) *Error {
	return &Error{Code: CodeDatabase, Message: message, Err: err}
}

// CodeOf extracts the application error code from err, or UNKNOWN_ERROR
// if err is not a typed application error.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// IsCode reports whether err carries the given code
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
