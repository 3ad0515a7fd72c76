package errs

import (
	"errors"
	"fmt"
)

// Stable machine-readable error codes surfaced to API clients.
const (
	CodeOriginNotFound         = "ORIGIN_NOT_FOUND"
	CodeDestinationNotFound    = "DESTINATION_NOT_FOUND"
	CodeRouteNotFound          = "ROUTE_NOT_FOUND"
	CodeProviderUnavailable    = "PROVIDER_UNAVAILABLE"
	CodeNotConfigured          = "NOT_CONFIGURED"
	CodeUnknownTruckType       = "UNKNOWN_TRUCK_TYPE"
	CodeInvalidTransition      = "INVALID_TRANSITION"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeNotFound               = "NOT_FOUND"
	CodeValidation             = "VALIDATION"
	CodeForbidden              = "FORBIDDEN"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeInternal               = "INTERNAL"
)

// Error is the application error type. Every error the core surfaces carries a
// stable code so the presentation layer can map it to a specific message.
type Error struct {
	Code    string
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Is matches two application errors by code, so errors.Is(err, ErrRouteNotFound)
// works regardless of how the concrete instance was constructed.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// New creates an application error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an application error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an application error that records its cause for errors.Unwrap.
func Wrap(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Routing and lifecycle error taxonomy. Callers either return these directly or
// derive per-request instances with Newf using the same code.
var (
	ErrOriginNotFound         = New(CodeOriginNotFound, "origin could not be resolved")
	ErrDestinationNotFound    = New(CodeDestinationNotFound, "destination could not be resolved")
	ErrRouteNotFound          = New(CodeRouteNotFound, "no drivable route between the resolved points")
	ErrProviderUnavailable    = New(CodeProviderUnavailable, "routing provider unavailable")
	ErrNotConfigured          = New(CodeNotConfigured, "routing provider credential missing")
	ErrUnknownTruckType       = New(CodeUnknownTruckType, "truck type code does not match an active truck type")
	ErrInvalidTransition      = New(CodeInvalidTransition, "booking status transition not allowed")
	ErrInvalidInput           = New(CodeInvalidInput, "invalid input")
	ErrConcurrentModification = New(CodeConcurrentModification, "booking was modified by another transaction")
)

// NewNotFound creates a NOT_FOUND error for a missing entity.
func NewNotFound(entity, id string) *Error {
	return Newf(CodeNotFound, "%s %s not found", entity, id)
}

// NewValidation creates a VALIDATION error for rejected user input.
func NewValidation(message string) *Error {
	return New(CodeValidation, message)
}

// NewForbidden creates a FORBIDDEN error for an authorization failure.
func NewForbidden(message string) *Error {
	return New(CodeForbidden, message)
}

// NewInvalidTransition creates an INVALID_TRANSITION error naming both states.
func NewInvalidTransition(from, to string) *Error {
	return Newf(CodeInvalidTransition, "cannot transition booking from %s to %s", from, to)
}

// CodeOf extracts the machine-readable code from an error chain. Unknown errors
// map to INTERNAL.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
