// Package errs defines the error kinds returned by the note and activity
// services and the uniform result envelope handed back to callers.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorises a failure so callers can branch on it instead of on
// message text.
type Kind string

const (
	Validation    Kind = "validation"
	NotFound      Kind = "not_found"
	Authorization Kind = "authorization"
	Persistence   Kind = "persistence"
)

// Error is a kinded application error.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, errs.ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrValidation    = &Error{Kind: Validation}
	ErrNotFound      = &Error{Kind: NotFound}
	ErrAuthorization = &Error{Kind: Authorization}
	ErrPersistence   = &Error{Kind: Persistence}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Invalid(message string) *Error { return New(Validation, message) }
func Missing(message string) *Error { return New(NotFound, message) }
func Forbidden(message string) *Error { return New(Authorization, message) }
func DB(message string, err error) *Error { return Wrap(Persistence, message, err) }

// KindOf reports the kind of err. Errors that did not originate here are
// treated as persistence failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Persistence
}

// MessageOf returns the caller-facing message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error kind to a response status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case "":
		return http.StatusOK
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Authorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
