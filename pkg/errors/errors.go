package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
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

// Is matches errors sharing the same code so cloned values still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
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
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")

	// Portal collaborator failures.
	ErrTransport         = New("TRANSPORT_ERROR", http.StatusBadGateway, "portal request failed")
	ErrStream            = New("STREAM_ERROR", http.StatusBadGateway, "seat count stream failed")
	ErrMalformedResponse = New("MALFORMED_RESPONSE", http.StatusBadGateway, "portal response malformed")

	// Engine guards.
	ErrOperationInFlight = New("OPERATION_IN_FLIGHT", http.StatusConflict, "a bulk operation is already running")
	ErrEmptySelection    = New("EMPTY_SELECTION", http.StatusPreconditionFailed, "no course selected")
	ErrCatalogNotLoaded  = New("CATALOG_NOT_LOADED", http.StatusServiceUnavailable, "course catalog not loaded")
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

// FromUpstream maps a portal HTTP status and body to the error taxonomy.
// 4xx bodies carry a user-facing message and are kept verbatim; everything
// else collapses into a generic transport failure.
func FromUpstream(status int, body string) *Error {
	message := strings.TrimSpace(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return Clone(ErrUnauthorized, message)
	case status >= 400 && status < 500:
		if message == "" {
			message = http.StatusText(status)
		}
		return Clone(ErrValidation, message)
	default:
		return Wrap(fmt.Errorf("portal responded %d", status), ErrTransport.Code, ErrTransport.Status, ErrTransport.Message)
	}
}
