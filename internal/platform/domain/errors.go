package domain

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of recoverable domain error. Handlers map
// codes to HTTP statuses; services branch on them.
type ErrorCode string

const (
	// ErrCodeNotFound covers both "no such entity" and "entity exists but the
	// actor has no relationship to it". The two are deliberately conflated so
	// that callers cannot probe which ids exist.
	ErrCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrCodeInvalidState     ErrorCode = "INVALID_STATE"
	ErrCodeDuplicatePending ErrorCode = "DUPLICATE_PENDING"
	ErrCodeAlreadyConnected ErrorCode = "ALREADY_CONNECTED"
	ErrCodeDateConflict     ErrorCode = "DATE_CONFLICT"
	ErrCodeSelfBooking      ErrorCode = "SELF_BOOKING"
	ErrCodeSelfConnection   ErrorCode = "SELF_CONNECTION"
	ErrCodeValidation       ErrorCode = "VALIDATION"
	ErrCodeForbidden        ErrorCode = "FORBIDDEN"
	ErrCodeConflict         ErrorCode = "CONFLICT"
)

// Error is a typed, recoverable domain error. Anything that is not an *Error
// is treated as a storage or infrastructure failure.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewNotFoundError reports that a resource is not visible to the actor,
// whether because it does not exist or because they lack the required
// relationship to it.
func NewNotFoundError(resource, id string) *Error {
	return &Error{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s %s not found", resource, id),
	}
}

// NewInvalidStateError reports a status transition that the state machine
// does not permit.
func NewInvalidStateError(from, to string) *Error {
	return &Error{
		Code:    ErrCodeInvalidState,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

// NewDuplicatePendingError reports that a conflicting pending request
// already exists.
func NewDuplicatePendingError(message string) *Error {
	return &Error{Code: ErrCodeDuplicatePending, Message: message}
}

// NewAlreadyConnectedError reports that the two users already share a
// connection.
func NewAlreadyConnectedError(message string) *Error {
	return &Error{Code: ErrCodeAlreadyConnected, Message: message}
}

// NewDateConflictError reports a proposed date range that overlaps an
// existing scheduled booking.
func NewDateConflictError(message string) *Error {
	return &Error{Code: ErrCodeDateConflict, Message: message}
}

// NewSelfBookingError reports an attempt to book one's own listing.
func NewSelfBookingError(message string) *Error {
	return &Error{Code: ErrCodeSelfBooking, Message: message}
}

// NewSelfConnectionError reports an attempt to connect with oneself.
func NewSelfConnectionError(message string) *Error {
	return &Error{Code: ErrCodeSelfConnection, Message: message}
}

// NewValidationError reports malformed or incomplete input.
func NewValidationError(message string) *Error {
	return &Error{Code: ErrCodeValidation, Message: message}
}

// NewForbiddenError reports an actor lacking a role the route requires.
// Entity-level authorization failures use NewNotFoundError instead.
func NewForbiddenError(message string) *Error {
	return &Error{Code: ErrCodeForbidden, Message: message}
}

// NewConflictError reports a concurrent modification detected by an
// optimistic-lock update.
func NewConflictError(message string) *Error {
	return &Error{Code: ErrCodeConflict, Message: message}
}

// CodeOf returns the domain error code of err, or "" when err is not a
// domain error.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsCode reports whether err is a domain error with the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
