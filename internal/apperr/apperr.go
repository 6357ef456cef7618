// Package apperr defines the error taxonomy shared by the repositories,
// the auth gate and the HTTP layer.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for propagation and HTTP mapping.
type Kind int

const (
	KindUnknown Kind = iota
	KindConnectionFailure
	KindValidation
	KindNotAllowed
	KindUnauthorized
	KindForbidden
	KindConflict
	KindDatabase
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindConnectionFailure:
		return "connection_failure"
	case KindValidation:
		return "validation"
	case KindNotAllowed:
		return "not_allowed"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindDatabase:
		return "database"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// Error is a classified error. Message is safe to show to clients;
// Err holds the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by Kind, so errors.Is(err, apperr.Forbidden("")) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New returns an *Error of the given kind.
func New(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func Validation(msg string) *Error   { return New(KindValidation, msg, nil) }
func NotAllowed(msg string) *Error   { return New(KindNotAllowed, msg, nil) }
func Unauthorized(msg string) *Error { return New(KindUnauthorized, msg, nil) }
func Forbidden(msg string) *Error    { return New(KindForbidden, msg, nil) }
func Conflict(msg string) *Error     { return New(KindConflict, msg, nil) }
func RateLimited(msg string) *Error  { return New(KindRateLimited, msg, nil) }

// Database wraps a driver error behind a generic client message.
func Database(cause error) *Error {
	return New(KindDatabase, "database error", cause)
}

// ConnectionFailure wraps a failure to acquire a connection.
func ConnectionFailure(cause error) *Error {
	return New(KindConnectionFailure, "database connection failed", cause)
}

// KindOf returns the Kind of err, or KindUnknown when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the client-safe message for err.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// HTTPStatus maps err to the response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindNotAllowed, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
