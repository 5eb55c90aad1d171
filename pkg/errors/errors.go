// Package errors defines the structured errors shared by every Bankguard
// surface. An [Error] pairs a machine-readable [Code] with a human-readable
// message and an optional cause, so the CLI can print the message, the API
// can map codes to HTTP statuses, and both can test for a category without
// parsing strings.
//
// Codes group by prefix: INVALID_* for rejected input, NOT_FOUND variants
// for missing things, INTERNAL_ERROR and UNSUPPORTED for everything the
// caller cannot fix.
//
//	err := errors.New(errors.ErrCodeInvalidDimension, "allocation row %d has %d columns", i, n)
//	if errors.Is(err, errors.ErrCodeInvalidDimension) { ... }
//
//	err := errors.Wrap(errors.ErrCodeInvalidScenario, cause, "failed to decode %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error code.
type Code string

const (
	// Input validation errors (rejected with 400 by the API).
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidDimension Code = "INVALID_DIMENSION"
	ErrCodeInvalidValue     Code = "INVALID_VALUE"
	ErrCodeInvalidScenario  Code = "INVALID_SCENARIO"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidLabel     Code = "INVALID_LABEL"

	// Missing things.
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Failures the caller cannot fix.
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// validationPrefix marks the codes IsValidation treats as client errors.
const validationPrefix = "INVALID_"

// Error carries a code, a message, and an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// New builds an Error from a code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error that records cause for errors.Is/As traversal.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Error renders "CODE: message" with the cause appended when present.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to the stdlib errors helpers.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether the chain of err contains an *Error with the given
// code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the code of the first *Error in the chain of err, or the
// empty string when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the first *Error in the chain without
// its code prefix, falling back to err.Error() for plain errors.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsValidation reports whether err is an input validation error, i.e. an
// *Error carrying one of the INVALID_* codes. The API uses this to separate
// client errors (400) from internal failures (500).
func IsValidation(err error) bool {
	return strings.HasPrefix(string(GetCode(err)), validationPrefix)
}
