package validation

import "fmt"

// FieldError is a validation error bound to a single field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewFieldError builds a FieldError. Returned from a cross validator it is
// recorded under its own field instead of "_cross_validation".
func NewFieldError(field, message string) error {
	return &FieldError{
		Field:   field,
		Message: message,
	}
}
