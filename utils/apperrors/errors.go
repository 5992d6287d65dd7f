// Package apperrors is the error taxonomy shared by services and handlers.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/disserto/disserto-api/model"
)

// Kind classifies an error for transport mapping
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindDuplicate
	KindTooManyRequests
)

var kindNames = map[Kind]string{
	KindInternal:        "INTERNAL_ERROR",
	KindValidation:      "VALIDATION_ERROR",
	KindUnauthorized:    "UNAUTHORIZED",
	KindForbidden:       "FORBIDDEN",
	KindNotFound:        "NOT_FOUND",
	KindConflict:        "STATE_CONFLICT",
	KindDuplicate:       "CONFLICT",
	KindTooManyRequests: "TOO_MANY_REQUESTS",
}

// Code is the machine-readable code placed in the error envelope.
func (k Kind) Code() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return kindNames[KindInternal]
}

// Status maps a kind to its HTTP status.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicate:
		return http.StatusConflict
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is an application error with a kind and a client-safe message
type Error struct {
	Kind    Kind
	Message string
	Details interface{}
	Err     error

	// Forbidden only
	ActorRole    model.Role
	AllowedRoles []model.Role
}

// Error implements error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string, details interface{}) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "Unauthorized access"
	}
	return &Error{Kind: KindUnauthorized, Message: message}
}

// Forbidden reports that role may not perform the request. allowed lists the
// roles that could have.
func Forbidden(message string, role model.Role, allowed []model.Role) *Error {
	if message == "" {
		message = "Access forbidden"
	}
	return &Error{Kind: KindForbidden, Message: message, ActorRole: role, AllowedRoles: allowed}
}

func NotFound(message string) *Error {
	if message == "" {
		message = "Resource not found"
	}
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict is a request that is well-formed but invalid for the record's current state.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Duplicate(message string) *Error {
	return &Error{Kind: KindDuplicate, Message: message}
}

func TooManyRequests(message string) *Error {
	return &Error{Kind: KindTooManyRequests, Message: message}
}

// Internal wraps an unexpected failure. The cause is kept for logging and is
// never shown to clients unless detail exposure is enabled.
func Internal(message string, err error) *Error {
	if message == "" {
		message = "Internal server error"
	}
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// Wrap attaches a cause to e and returns it.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// As extracts an *Error from err. Anything else is reported as internal.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("", err)
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == k
}
