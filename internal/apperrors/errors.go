// Package apperrors defines the error kinds shared by services and handlers.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for boundary mapping.
type Kind string

const (
	// KindNotFound means a referenced entity does not exist.
	KindNotFound Kind = "NOT_FOUND"
	// KindConflict means the operation would violate a uniqueness invariant.
	KindConflict Kind = "CONFLICT"
	// KindForbidden means the caller does not own the targeted resource.
	KindForbidden Kind = "FORBIDDEN"
	// KindUnavailable means a dependency could not be reached or gave no sane reply.
	KindUnavailable Kind = "SERVICE_UNAVAILABLE"
	// KindInteraction means a dependency was reached but its reply signals a problem.
	KindInteraction Kind = "SERVICE_INTERACTION"
	// KindInvalid means the request payload failed validation.
	KindInvalid Kind = "INVALID_REQUEST"
	// KindInternal is the fallback for unclassified failures.
	KindInternal Kind = "INTERNAL"
)

// Error is a kind-tagged error carrying an operator-facing message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a kind-tagged error.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a kind-tagged error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a kind-tagged error around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or KindInternal for untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error kind to the stable status code used at the boundary.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalid:
		return http.StatusBadRequest
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindInteraction:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
