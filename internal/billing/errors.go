package billing

import (
	"errors"
	"fmt"
)

var (
	// ErrValidationFailed is returned when a form does not pass Validate.
	ErrValidationFailed = errors.New("form validation failed")

	// ErrUnknownField is returned for a field name the row or header does not carry.
	ErrUnknownField = errors.New("unknown field")

	// ErrReadOnlyField is returned when a derived field is written directly.
	ErrReadOnlyField = errors.New("field is derived and cannot be set")

	// ErrInvalidValue is returned when an enumerated field gets a value outside its set.
	ErrInvalidValue = errors.New("invalid field value")
)

// ValidationFailedError carries the full error map of a failed validation pass.
type ValidationFailedError struct {
	Errors ErrorMap
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("%v: %d field error(s)", ErrValidationFailed, len(e.Errors))
}

func (e *ValidationFailedError) Unwrap() error {
	return ErrValidationFailed
}

// FieldError wraps a field-level error with the field name.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
