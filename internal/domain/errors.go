package domain

import (
	"errors"
	"fmt"
)

// Code classifies every failure the authorization pipeline can produce
type Code string

const (
	CodeUnauthenticated Code = "unauthenticated"
	CodeNoTenant        Code = "no_tenant"
	CodeNotFound        Code = "not_found"
	CodeForbidden       Code = "forbidden"
	CodeInvalidInput    Code = "invalid_input"
	CodeConflict        Code = "conflict"
	CodeInternal        Code = "internal"
)

// Error is the typed failure returned by services. Op names the operation
// that failed and Err, when set, is the underlying cause.
type Error struct {
	Code    Code
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same code, so callers can use the
// sentinels below with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Op == "" && t.Err == nil
}

var (
	ErrUnauthenticated = &Error{Code: CodeUnauthenticated}
	ErrNoTenant        = &Error{Code: CodeNoTenant}
	ErrNotFound        = &Error{Code: CodeNotFound}
	ErrForbidden       = &Error{Code: CodeForbidden}
	ErrInvalidInput    = &Error{Code: CodeInvalidInput}
	ErrConflict        = &Error{Code: CodeConflict}
	ErrInternal        = &Error{Code: CodeInternal}
)

func NewError(code Code, op, message string) *Error {
	return &Error{Code: code, Op: op, Message: message}
}

// Internal wraps an unexpected store or backend failure.
func Internal(op string, err error) *Error {
	return &Error{Code: CodeInternal, Op: op, Message: "internal error", Err: err}
}

// CodeOf extracts the code of err. Errors that are not *Error are Internal.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf returns the caller-safe message of err. Internal causes are never exposed.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Code != CodeInternal && e.Message != "" {
		return e.Message
	}
	switch CodeOf(err) {
	case CodeUnauthenticated:
		return "authentication required"
	case CodeNoTenant:
		return "user is not associated with a company"
	case CodeNotFound:
		return "resource not found"
	case CodeForbidden:
		return "access to this resource is forbidden"
	case CodeInvalidInput:
		return "invalid request"
	case CodeConflict:
		return "resource already exists"
	default:
		return "internal server error"
	}
}
