// Package apperr defines the error taxonomy shared by every feature.
// Use cases return *Error values (or wrap them), and the HTTP layer maps
// the Kind to a status code.
package apperr

import "errors"

// Kind classifies an error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUnavailable
	KindRateLimited
)

// String returns a short name for logs.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified application error. Its Message is safe to show to
// API callers.
type Error struct {
	Kind    Kind
	Message string
	Details []FieldError
}

func (e *Error) Error() string { return e.Message }

// New creates a classified error. Package-level sentinels are built with New
// and compared with errors.Is.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Validation creates a validation error with optional field details.
func Validation(msg string, details ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: msg, Details: details}
}

// Forbidden creates an authorization error.
func Forbidden(msg string) *Error { return New(KindForbidden, msg) }

// NotFound creates a not-found error.
func NotFound(msg string) *Error { return New(KindNotFound, msg) }

// Conflict creates a conflict error.
func Conflict(msg string) *Error { return New(KindConflict, msg) }

// Unauthorized creates an authentication error.
func Unauthorized(msg string) *Error { return New(KindUnauthorized, msg) }

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}
