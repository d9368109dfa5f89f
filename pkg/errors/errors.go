// Package errors provides structured error types for poetry-auto-add.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Setup failures (Poetry missing, declined manifest creation) and scan
// failures are the only fatal categories; per-library failures during a
// run are handled locally and never carry a code.
//
// # Usage
//
//	err := errors.New(errors.ErrCodePoetryNotFound, "poetry not found on PATH")
//	if errors.Is(err, errors.ErrCodePoetryNotFound) {
//	    // Handle setup failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeScanUnavailable, origErr, "pipreqs failed")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Setup failures (fatal, exit non-zero before any work is attempted)
	ErrCodePoetryNotFound   Code = "POETRY_NOT_FOUND"
	ErrCodeManifestDeclined Code = "MANIFEST_DECLINED"
	ErrCodeInitFailed       Code = "INIT_FAILED"

	// Scan failures (fatal for the run, nothing to resolve)
	ErrCodeScanUnavailable Code = "SCAN_UNAVAILABLE"
	ErrCodeManifestMissing Code = "MANIFEST_MISSING"

	// Input validation errors
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeParse          Code = "PARSE_ERROR"

	// External process and network errors
	ErrCodeProcess Code = "PROCESS_ERROR"
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

// IsFatal reports whether err belongs to a category that aborts the whole
// run (setup or scan failures). Per-library failures are never fatal.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodePoetryNotFound, ErrCodeManifestDeclined, ErrCodeInitFailed,
		ErrCodeScanUnavailable, ErrCodeManifestMissing:
		return true
	}
	return false
}
