// Package errors defines the closed failure taxonomy shared by validation
// and storage. Every fallible component yields one of these kinds; raw
// backend errors are converted at the storage adapter seam and nowhere else.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Kind identifies one member of the closed taxonomy.
type Kind string

const (
	KindResourceInvalid    Kind = "resource_invalid"
	KindMalformedContent   Kind = "malformed_content"
	KindUnsupportedContent Kind = "unsupported_content"
	KindResourceNotFound   Kind = "resource_not_found"
	KindResourceExists     Kind = "resource_exists"
	KindThrottled          Kind = "throttled"
	KindInternalFailure    Kind = "internal_failure"
)

// Error carries a taxonomy kind plus only the context needed to render a
// response. Cause is retained for diagnostics and is never serialized.
type Error struct {
	Kind    Kind
	Message string

	// resource_invalid
	Form   []string
	Fields map[string][]string

	// malformed_content
	Reason string

	// unsupported_content
	Expected string
	Actual   string

	// resource_not_found / resource_exists
	Resource string
	ID       string

	// throttled
	RetryAfter time.Duration

	// internal_failure
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewResourceInvalid creates a validation failure carrying form-level and
// field-level detail.
func NewResourceInvalid(form []string, fields map[string][]string) *Error {
	return &Error{
		Kind:    KindResourceInvalid,
		Message: "Resource is invalid",
		Form:    form,
		Fields:  fields,
	}
}

// NewMalformedContent creates a failure for a body that could not be decoded.
func NewMalformedContent(message, reason string) *Error {
	return &Error{
		Kind:    KindMalformedContent,
		Message: message,
		Reason:  reason,
	}
}

// NewUnsupportedContent creates a failure for an unacceptable content type.
func NewUnsupportedContent(expected, actual string) *Error {
	return &Error{
		Kind:     KindUnsupportedContent,
		Message:  "Unsupported content type",
		Expected: expected,
		Actual:   actual,
	}
}

// NewResourceNotFound creates a failure for a lookup that found nothing.
func NewResourceNotFound(resource, id string) *Error {
	return &Error{
		Kind:     KindResourceNotFound,
		Message:  fmt.Sprintf("%s with ID %s not found", resource, id),
		Resource: resource,
		ID:       id,
	}
}

// NewResourceExists creates a failure for a create that collided with an
// existing key.
func NewResourceExists(resource, id string) *Error {
	return &Error{
		Kind:     KindResourceExists,
		Message:  fmt.Sprintf("%s with ID %s already exists", resource, id),
		Resource: resource,
		ID:       id,
	}
}

// NewThrottled creates a failure for a backend rate-limit rejection.
// retryAfter may be zero when the backend gives no hint.
func NewThrottled(retryAfter time.Duration) *Error {
	return &Error{
		Kind:       KindThrottled,
		Message:    "too many requests",
		RetryAfter: retryAfter,
	}
}

// NewInternalFailure creates an unclassified failure. The cause is kept for
// local diagnostics only.
func NewInternalFailure(message string, cause error) *Error {
	return &Error{
		Kind:    KindInternalFailure,
		Message: message,
		Cause:   cause,
	}
}

// As extracts an *Error from an error chain, or nil.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// KindOf returns the taxonomy kind of err. Errors from outside the taxonomy
// report internal_failure, mirroring how the classifier treats anything it
// cannot name.
func KindOf(err error) Kind {
	if e := As(err); e != nil {
		return e.Kind
	}
	return KindInternalFailure
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// IsNotFound reports whether err is a resource_not_found failure.
func IsNotFound(err error) bool {
	return IsKind(err, KindResourceNotFound)
}

// IsThrottled reports whether err is a throttled failure.
func IsThrottled(err error) bool {
	return IsKind(err, KindThrottled)
}
