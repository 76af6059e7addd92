package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// ErrorType separates failures the client can fix and resubmit from broken assumptions.
type ErrorType string

const (
	Recoverable    ErrorType = "RECOVERABLE"
	NonRecoverable ErrorType = "NON_RECOVERABLE"
)

// Error is one per-item failure found while processing a bulk request.
type Error struct {
	Code    string    `json:"errorCode"`
	Message string    `json:"errorMessage"`
	Type    ErrorType `json:"type"`
	Cause   error     `json:"-"`
}

// NewError builds an Error with an optional cause.
func NewError(code, message string, typ ErrorType, cause error) Error {
	return Error{Code: code, Message: message, Type: typ, Cause: cause}
}

// APIDetails is the single-item request snapshot attached to an ErrorDetails.
type APIDetails struct {
	URL         string `json:"url"`
	Method      string `json:"methodType"`
	ContentType string `json:"contentType"`
	RequestBody any    `json:"requestBody"`
}

// ErrorDetails groups every error found for one payload together with the
// request that would reproduce it.
type ErrorDetails struct {
	Errors     []Error     `json:"errors"`
	APIDetails *APIDetails `json:"apiDetails,omitempty"`
}

// Codes returns the distinct error codes in first-seen order.
func (d *ErrorDetails) Codes() []string {
	seen := make(map[string]struct{}, len(d.Errors))
	codes := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		if _, ok := seen[e.Code]; ok {
			continue
		}
		seen[e.Code] = struct{}{}
		codes = append(codes, e.Code)
	}
	return codes
}

// CustomError is a coded business failure surfaced verbatim to callers.
type CustomError struct {
	Code    string
	Message string
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewCustomError creates a CustomError.
func NewCustomError(code, message string) *CustomError {
	return &CustomError{Code: code, Message: message}
}

// CodeOf returns the code of the first CustomError in err's chain.
func CodeOf(err error) (string, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Code, true
	}
	return "", false
}
