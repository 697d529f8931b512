// Package errors provides structured error types for footprint.
//
// Every failure in the build pipeline carries a machine-readable [Code] so the
// CLI and the HTTP API can react to it without string matching:
//
//   - NOT_FOUND: a named level or a family/type pair does not exist
//   - INVALID_DIMENSION: a width, depth, thickness or rise is not positive
//   - INVALID_ARGUMENT: a malformed wall loop or an out-of-range index
//   - INVALID_FORMAT, INVALID_CONFIG: bad user input outside the geometry core
//   - TRANSACTION_FAILED: a host transaction could not be committed
//
// # Usage
//
//	err := errors.NotFound("level", "Level 3")
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // abort the build
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeTransaction, cause, "commit %q", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Geometry errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeInvalidDimension Code = "INVALID_DIMENSION"
	ErrCodeInvalidArgument  Code = "INVALID_ARGUMENT"

	// Input validation errors
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Host errors
	ErrCodeTransaction Code = "TRANSACTION_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// NotFound reports a missing named entity, e.g. NotFound("level", "Level 3").
func NotFound(kind, name string) *Error {
	return New(ErrCodeNotFound, "%s %q not found", kind, name)
}

// InvalidDimension reports a non-positive length.
func InvalidDimension(name string, value float64) *Error {
	return New(ErrCodeInvalidDimension, "%s must be positive, got %g", name, value)
}

// InvalidArgument reports a malformed argument.
func InvalidArgument(format string, args ...any) *Error {
	return New(ErrCodeInvalidArgument, format, args...)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
