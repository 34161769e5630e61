package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target carries the same code, so clones match their template.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound   = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrValidation = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal   = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss  = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrUpstream   = New("UPSTREAM_ERROR", http.StatusBadGateway, "data service request failed")
	ErrExport     = New("EXPORT_FAILED", http.StatusInternalServerError, "unable to export the calendar")
	ErrAborted    = New("ABORTED", http.StatusConflict, "operation not confirmed")

	ErrNoMatch          = New("NO_MATCH", http.StatusNotFound, "no teaching has been found with your filters, please check your request")
	ErrUnknownHierarchy = New("UNKNOWN_HIERARCHY", http.StatusBadGateway, "unknown teaching type")
	ErrAmbiguousFork    = New("AMBIGUOUS_FORK", http.StatusUnprocessableEntity, "unable to choose a single forked teaching")
	ErrCyclicHierarchy  = New("CYCLIC_HIERARCHY", http.StatusBadGateway, "teaching hierarchy contains a cycle")
	ErrUnresolvedRoom   = New("UNRESOLVED_ROOM", http.StatusBadGateway, "room code not found")
	ErrMalformedData    = New("MALFORMED_DATA", http.StatusBadGateway, "malformed data")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// ExitCode maps an error to the process exit status used by the command line tool.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrAborted):
		return 4
	case errors.Is(err, ErrExport):
		return 3
	case errors.Is(err, ErrUnknownHierarchy),
		errors.Is(err, ErrAmbiguousFork),
		errors.Is(err, ErrCyclicHierarchy),
		errors.Is(err, ErrUnresolvedRoom),
		errors.Is(err, ErrMalformedData):
		return 2
	default:
		return 1
	}
}
