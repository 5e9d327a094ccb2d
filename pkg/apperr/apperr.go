package apperr

import (
	"errors"
	"fmt"
)

// Error represents a typed domain error with optional entity-path context.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Path points at the offending field inside the record graph,
	// e.g. "program.semesters[1].modules[0].credits".
	Path string `json:"path,omitempty"`
	Err  error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors by code so predefined values work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e != nil && e.Code == t.Code
}

// New creates a new Error instance.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrValidation     = New("VALIDATION_ERROR", "validation failed")
	ErrMalformedStore = New("MALFORMED_STORE", "store contents are malformed")
	ErrNotFound       = New("NOT_FOUND", "resource not found")
	ErrConflict       = New("CONFLICT", "conflict")
	ErrNoData         = New("NO_DATA", "no data available")
	ErrInternal       = New("INTERNAL_ERROR", "internal error")
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
	return Wrap(err, ErrInternal.Code, ErrInternal.Message)
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

// At returns a copy of the error pointing at the given graph path.
func At(err *Error, path string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	clone.Path = path
	return &clone
}
