package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

// NotFoundError reports that an update/delete/read target does not exist
// or is excluded by an active scope.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError creates a NotFoundError for one entity instance.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
// Errors are collected, not fail-fast, so a caller can report every
// problem in one round trip.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("validation: %d errors (%s)", len(e.Errors), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// LoadEntityError reports that a stored document cannot be materialized
// into a valid entity, e.g. a mandatory nested array is empty. It signals
// corruption upstream and is surfaced loudly, never silently dropped.
type LoadEntityError struct {
	Type   string
	ID     string
	Reason string
}

func (e *LoadEntityError) Error() string {
	return fmt.Sprintf("load %s %s: %s", e.Type, e.ID, e.Reason)
}

// RetriableError marks a transient failure (connectivity, schema decode)
// as eligible for bounded retry with backoff.
type RetriableError struct {
	Err error
}

func (e *RetriableError) Error() string { return "retriable: " + e.Err.Error() }

func (e *RetriableError) Unwrap() error { return e.Err }

// Retriable wraps err so IsRetriable reports true for it.
func Retriable(err error) error {
	if err == nil {
		return nil
	}
	return &RetriableError{Err: err}
}

// IsRetriable reports whether err is eligible for redelivery. Validation
// and not-found failures are terminal regardless of wrapping.
func IsRetriable(err error) bool {
	if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) {
		return false
	}
	var re *RetriableError
	return errors.As(err, &re)
}
