// Package apperr defines the short snake_case error codes surfaced at the
// HTTP boundary (spec.md §6/§7) and a typed wrapper that carries one.
package apperr

import "errors"

// Code is a short snake_case error identifier, stable across releases.
type Code string

const (
	CodeInvalidVersion  Code = "invalid_version"
	CodeInvalidTS       Code = "invalid_ts"
	CodeMissingDomain   Code = "missing_domain"
	CodeMissingApp      Code = "missing_app"
	CodeInvalidDate     Code = "invalid_date"
	CodeInvalidRange    Code = "invalid_range"
	CodeInvalidPause    Code = "invalid_pause_duration"
	CodeInvalidKind     Code = "invalid_kind"
	CodeInvalidAction   Code = "invalid_action"
	CodeMalformedBody   Code = "malformed_body"
	CodeNotFound        Code = "not_found"
	CodeDBError         Code = "db_error"
)

// Error is a validation or state error carrying a stable Code.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap builds an Error with the given code, wrapping cause for logging
// while never leaking cause text across the HTTP boundary (spec.md §7).
func Wrap(code Code, cause error) *Error {
	return &Error{Code: code, Message: string(code), cause: cause}
}

// CodeOf extracts the Code from err, defaulting to db_error for anything
// not already classified — storage failures never leak their cause.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeDBError
}
