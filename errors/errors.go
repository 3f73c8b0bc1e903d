// Package errors defines the stable failure kinds that cross the core
// boundary. Callers match kinds with errors.Is; storage-layer error text
// never travels past this package.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

var (
	// ErrAuthorizationDenied: the requester lacks the membership or role an
	// operation requires. Never retried, no state change.
	ErrAuthorizationDenied = fmt.Errorf("authorization denied")
	// ErrNotFound: a referenced conversation, message or user does not exist,
	// or is not an active member where activity is required.
	ErrNotFound = fmt.Errorf("not found")
	// ErrInvariantViolation: the action would break a structural rule
	// (self-chat, duplicate membership, owner leaving, ...).
	ErrInvariantViolation = fmt.Errorf("invariant violation")
	// ErrTransientStorage: the store was unavailable or the transaction hit a
	// concurrent conflict. Safe to retry, mutations are all-or-nothing.
	ErrTransientStorage = fmt.Errorf("storage temporarily unavailable")
)

// Identity-side failures.
var (
	ErrUnauthenticated    = fmt.Errorf("unauthenticated")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet the policy")
	ErrUserAlreadyExists  = fmt.Errorf("user already exists")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
)

// Deniedf wraps ErrAuthorizationDenied with a human-readable reason.
func Deniedf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAuthorizationDenied, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}

// MapToHTTPStatus converts a core failure into the HTTP status served at
// the transport edge. Unknown errors collapse to 500 so no internal detail
// leaks through a status code.
func MapToHTTPStatus(err error) int {
	switch {
	case stderrors.Is(err, ErrAuthorizationDenied):
		return http.StatusForbidden
	case stderrors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, ErrInvariantViolation), stderrors.Is(err, ErrInvalidPassword):
		return http.StatusUnprocessableEntity
	case stderrors.Is(err, ErrTransientStorage):
		return http.StatusServiceUnavailable
	case stderrors.Is(err, ErrUnauthenticated), stderrors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case stderrors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
