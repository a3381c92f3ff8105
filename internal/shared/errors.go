package shared

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the referenced entity is not in the aggregate.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates an operation that collides with existing state.
	ErrConflict = errors.New("conflict")
	// ErrVersionConflict indicates a concurrent write to the same aggregate.
	ErrVersionConflict = errors.New("aggregate version conflict")
)

// ValidationError reports a field-level domain constraint violation. It is
// always recoverable and maps to a 422 at the HTTP boundary.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-level validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err carries a validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
