package shared

import (
	"errors"
	"fmt"
)

// DomainError is the single error kind returned by domain services.
// Field names the offending input when the error is a validation failure and
// Detail keeps low-level diagnostics (e.g. the violated constraint).
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Detail  string `json:"detail,omitempty"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DomainError with the same code.
// This lets callers match sentinel errors with errors.Is even when the
// message was customised.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewFieldError creates a validation error bound to an input field
func NewFieldError(code, field, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Field:   field,
	}
}

// WrapDomainError creates a domain error that keeps err as its cause
func WrapDomainError(code, message string, err error) *DomainError {
	de := &DomainError{
		Code:    code,
		Message: message,
		cause:   err,
	}
	if err != nil {
		de.Detail = err.Error()
	}
	return de
}

// WithMessage returns a copy of the sentinel with a specific message
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: message,
		Field:   e.Field,
		Detail:  e.Detail,
		cause:   e.cause,
	}
}

// AsDomainError extracts a *DomainError from err
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrIntegrityViolation  = NewDomainError("INTEGRITY_VIOLATION", "Data integrity violation")
	ErrInternal            = NewDomainError("INTERNAL_ERROR", "Unexpected error, operation rolled back")
)
