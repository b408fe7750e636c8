// Package errors holds error types shared by configuration loaders.
package errors

import (
	"errors"
	"fmt"
)

// ValidationError reports a configuration value that failed validation.
// It includes the field name, the rejected value, and the reason.
type ValidationError struct {
	Value any    `json:"value"` // The actual value that failed validation.
	Field string `json:"field"` // Name of the field that caused the validation error.
	Err   error  `json:"error"` // The underlying error providing details about the validation issue.
}

// NewValidationError creates a new ValidationError instance.
func NewValidationError(field string, value any, err error) *ValidationError {
	return &ValidationError{
		Err:   err,
		Field: field,
		Value: value,
	}
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("invalid %s (%v)", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s (%v): %v", e.Field, e.Value, e.Err)
}

// Unwrap exposes the reason, so sentinel checks see through the validation wrapper.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError checks if a given error is of type ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsValidationError attempts to extract a ValidationError from a given error.
func AsValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
