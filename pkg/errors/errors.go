// Package errors provides structured error types for varlayout.
//
// The layout engine distinguishes two kinds of failure:
//   - fatal errors that abort a whole refresh (MALFORMED_INPUT, UNSUPPORTED)
//   - per-record rejections, which are never errors and are accumulated in
//     track.Rejections instead
//
// Fatal errors carry a machine-readable [Code] so that the CLI, the HTTP API
// and the terminal inspector can surface one consistent error state.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (options, paths, URLs)
//   - MALFORMED_INPUT: Variant payload that cannot be laid out
//   - UNSUPPORTED: A layout path that is deliberately not implemented
//   - NOT_FOUND_*: Resource not found
//   - NETWORK_*: Payload source failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedInput, "record %s has no breakends", id)
//	if errors.Is(err, errors.ErrCodeMalformedInput) {
//	    // Surface a single error state
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "load dataset %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidMode   Code = "INVALID_MODE"

	// Layout errors
	ErrCodeMalformedInput Code = "MALFORMED_INPUT"
	ErrCodeUnsupported    Code = "UNSUPPORTED"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

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

// Malformed is shorthand for New(ErrCodeMalformedInput, ...).
func Malformed(format string, args ...any) *Error {
	return New(ErrCodeMalformedInput, format, args...)
}

// Unsupported is shorthand for New(ErrCodeUnsupported, ...).
func Unsupported(format string, args ...any) *Error {
	return New(ErrCodeUnsupported, format, args...)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsFatal reports whether err aborts a layout refresh. Any error reaching the
// orchestrator is fatal; the helper exists for callers that want to tell
// layout failures apart from transport failures.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeMalformedInput, ErrCodeUnsupported:
		return true
	}
	return false
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
