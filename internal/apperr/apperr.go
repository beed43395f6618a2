// Package apperr defines the semantic error kinds returned by the service
// layer. Handlers translate a kind into an HTTP status, the message into the
// response body.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a semantic error category.
type Kind string

func (k Kind) Error() string { return string(k) }

// Kinds known to the API layer.
const (
	ErrNotFound     Kind = "NOT_FOUND"
	ErrBadRequest   Kind = "BAD_REQUEST"
	ErrValidation   Kind = "VALIDATION"
	ErrUnauthorized Kind = "UNAUTHORIZED"
	ErrForbidden    Kind = "FORBIDDEN"
	ErrConflict     Kind = "CONFLICT"
	ErrInternal     Kind = "INTERNAL"
)

// Error carries a kind, a client-facing message and an optional cause.
// errors.Is matches both the kind and the cause.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string // per-field validation failures, if any
	cause   error
}

// New returns an error of kind k with a formatted message.
func New(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error of kind k that wraps cause.
func Wrap(k Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...), cause: cause}
}

// Validation returns a validation error with per-field details.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: ErrValidation, Message: "validation failed", Fields: fields}
}

// NotFound is a shorthand for "<entity> not found with id: <id>".
func NotFound(entity string, id uint) *Error {
	return New(ErrNotFound, "%s not found with id: %d", entity, id)
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.cause != nil && e.Message != "":
		return e.Message + ": " + e.cause.Error()
	case e.Message != "":
		return e.Message
	case e.cause != nil:
		return e.cause.Error()
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is the kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// KindOf extracts the kind of err. Errors without one are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return ErrInternal
}

// Status maps a kind to its HTTP status code.
func Status(k Kind) int {
	switch k {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrBadRequest:
		return http.StatusBadRequest
	case ErrValidation:
		return http.StatusUnprocessableEntity
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
