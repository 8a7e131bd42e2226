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

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined error kinds. Callers compare kinds with Is, never messages.
var (
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrInvalidCredentials = New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid username or password")
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrPersistence        = New("PERSISTENCE_ERROR", http.StatusInternalServerError, "failed to persist data")
	ErrExport             = New("EXPORT_ERROR", http.StatusInternalServerError, "failed to export data")
	ErrTransport          = New("TRANSPORT_ERROR", http.StatusBadGateway, "failed to deliver mail")
	ErrTransportAuth      = New("TRANSPORT_AUTH_FAILED", http.StatusUnprocessableEntity, "mail relay rejected the sender credentials")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
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

// As wraps err with the code and status of kind, keeping kind's message unless one is given.
func As(err error, kind *Error, message string) *Error {
	if message == "" {
		message = kind.Message
	}
	return Wrap(err, kind.Code, kind.Status, message)
}

// Is reports whether any *Error in err's chain carries the code of kind.
func Is(err error, kind *Error) bool {
	if err == nil || kind == nil {
		return false
	}
	var e *Error
	for err != nil {
		if errors.As(err, &e) {
			if e.Code == kind.Code {
				return true
			}
			err = e.Err
			continue
		}
		return false
	}
	return false
}

// Detail returns the wrapped cause text for kinds whose cause the operator needs to act on:
// store, export and mail relay failures. It is empty for every other kind.
func Detail(e *Error) string {
	if e == nil || e.Err == nil {
		return ""
	}
	switch e.Code {
	case ErrPersistence.Code, ErrExport.Code, ErrTransport.Code, ErrTransportAuth.Code:
		return e.Err.Error()
	}
	return ""
}
