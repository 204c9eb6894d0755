// Package errors provides standardized domain errors with codes for the linkstash API.
//
// Usage:
//
//	// In services - return typed errors
//	if resource == nil {
//	    return errors.NotFound("resource not found")
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrNotFound) {
//	    response.NotFound(w, err.Error(), logger)
//	    return
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeValidation         Code = "VALIDATION"
	CodeUnavailable        Code = "UNAVAILABLE"
	CodeInternal           Code = "INTERNAL"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists:
		return http.StatusConflict
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Fields maps a field name to the validation messages for that field.
// It is the Details payload carried by validation errors.
type Fields map[string][]string

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// FieldErrors returns the validation field map, or nil if this error
// carries no field-level details.
func (e *Error) FieldErrors() Fields {
	if f, ok := e.Details.(Fields); ok {
		return f
	}
	return nil
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists      = &Error{Code: CodeAlreadyExists, Message: "already exists"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation error"}
	ErrUnavailable        = &Error{Code: CodeUnavailable, Message: "store unavailable"}
	ErrInternal           = &Error{Code: CodeInternal, Message: "internal error"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid credentials"}
)

// Constructor functions for creating errors with custom messages.

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// AlreadyExists creates an already exists error.
func AlreadyExists(msg string) *Error {
	return &Error{Code: CodeAlreadyExists, Message: msg}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// ValidationWithFields creates a validation error carrying a field→messages map.
func ValidationWithFields(msg string, fields Fields) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: fields}
}

// Unavailable creates a store/index unavailable error.
func Unavailable(msg string) *Error {
	return &Error{Code: CodeUnavailable, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// InvalidCredentials creates an invalid credentials error.
func InvalidCredentials(msg string) *Error {
	return &Error{Code: CodeInvalidCredentials, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
