package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of the booking core's failure categories.
type Kind int

const (
	KindValidation Kind = iota
	KindSeatConflict
	KindNotFound
	KindContactMismatch
	KindInvalidState
	KindDownstreamUnavailable
)

// Stable error codes returned on the wire.
const (
	CodeValidation      = "VAL_001"
	CodeSeatConflict    = "SEAT_001"
	CodeNotFound        = "BOOK_002"
	CodeContactMismatch = "AUTH_003"
	CodeInvalidState    = "BOOK_003"
	CodeDownstream      = "SYS_001"
)

// Error is the typed error carried across service boundaries.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to an HTTP status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindSeatConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindContactMismatch:
		return http.StatusForbidden
	case KindInvalidState:
		return http.StatusConflict
	case KindDownstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Validation creates a field-level validation error.
func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: message, Fields: fields}
}

// SeatConflict creates a seat-already-taken error. Not retriable: the caller
// must re-search availability.
func SeatConflict(message string) *Error {
	return &Error{Kind: KindSeatConflict, Code: CodeSeatConflict, Message: message}
}

// NotFound creates a booking/reference-unknown error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Code: CodeNotFound, Message: message}
}

// ContactMismatch creates a reference-exists-but-contact-does-not-match error.
// Kept distinct from NotFound so a valid reference with a wrong contact never
// reads as a missing reference, without revealing which field was wrong.
func ContactMismatch(message string) *Error {
	return &Error{Kind: KindContactMismatch, Code: CodeContactMismatch, Message: message}
}

// InvalidState creates an illegal-state-transition error.
func InvalidState(message string) *Error {
	return &Error{Kind: KindInvalidState, Code: CodeInvalidState, Message: message}
}

// Downstream wraps an unreachable-collaborator failure.
func Downstream(message string, err error) *Error {
	return &Error{Kind: KindDownstreamUnavailable, Code: CodeDownstream, Message: message, Err: err}
}

// From extracts an *Error from err, or wraps it as an internal error.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{Kind: KindDownstreamUnavailable, Code: CodeDownstream, Message: "internal error", Err: err}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
