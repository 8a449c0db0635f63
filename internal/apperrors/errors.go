package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types shared by every service operation.
const (
	TypeUnauthorized = "UNAUTHORIZED"
	TypeForbidden    = "FORBIDDEN"
	TypeValidation   = "VALIDATION_ERROR"
	TypeConflict     = "CONFLICT"
	TypeNotFound     = "NOT_FOUND"
	TypeUpstream     = "UPSTREAM_ERROR"
)

// AppError carries a taxonomy type, a human-readable message and an optional
// cause. Upstream provider messages are passed through verbatim.
type AppError struct {
	Type    string
	Message string
	// Status overrides the default HTTP mapping; used to pass an upstream
	// provider's status straight through.
	Status int
	Cause  error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s - %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error type to a response status.
func (e *AppError) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Type {
	case TypeUnauthorized:
		return http.StatusUnauthorized
	case TypeForbidden:
		return http.StatusForbidden
	case TypeValidation:
		return http.StatusBadRequest
	case TypeConflict:
		return http.StatusConflict
	case TypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Type: TypeUnauthorized, Message: message}
}

func NewForbidden(message string) *AppError {
	return &AppError{Type: TypeForbidden, Message: message}
}

func NewValidation(message string) *AppError {
	return &AppError{Type: TypeValidation, Message: message}
}

func NewConflict(message string) *AppError {
	return &AppError{Type: TypeConflict, Message: message}
}

func NewNotFound(message string) *AppError {
	return &AppError{Type: TypeNotFound, Message: message}
}

// NewUpstream wraps an external provider failure, keeping its message and,
// when known, its HTTP status.
func NewUpstream(message string, status int, cause error) *AppError {
	return &AppError{Type: TypeUpstream, Message: message, Status: status, Cause: cause}
}

// As extracts an *AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
