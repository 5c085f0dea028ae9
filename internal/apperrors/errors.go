// Package apperrors defines the error kinds that cross the service/handler boundary.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindConflict
)

// Error is an error carrying a Kind and a client-safe message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports an unknown course, chapter, lesson or user
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Validation reports a malformed or incomplete request
func Validation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

// Unauthenticated reports missing or wrong credentials
func Unauthenticated(message string) error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// Forbidden reports an authenticated caller without access
func Forbidden(message string) error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Conflict reports a write that collides with existing state
func Conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps err to a response status and a client-safe message.
// Errors without a kind are reported as 500 with a generic message.
func HTTPStatus(err error) (int, string) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, "internal server error"
	}
	switch appErr.Kind {
	case KindNotFound:
		return http.StatusNotFound, appErr.Message
	case KindValidation:
		return http.StatusBadRequest, appErr.Message
	case KindUnauthenticated:
		return http.StatusUnauthorized, appErr.Message
	case KindForbidden:
		return http.StatusForbidden, appErr.Message
	case KindConflict:
		return http.StatusConflict, appErr.Message
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
