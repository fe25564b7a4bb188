// Package validation checks loosely typed input (decoded JSON, `any` values
// handed to the purchase pipeline) against declarative field types.
//
// A Schema maps field names to Types. Validate runs every Type's Transform
// then Validate step, followed by cross-field validators, and collects the
// errors per field in a ValidationResult.
package validation

import "sort"

// ValidationResult holds the outcome of a validation pass: the per-field
// errors and, when there are none, the transformed data.
type ValidationResult struct {
	errors    map[string][]string
	validData map[string]any
}

// NewResult returns an empty ValidationResult.
func NewResult() *ValidationResult {
	return &ValidationResult{
		errors:    make(map[string][]string),
		validData: make(map[string]any),
	}
}

// AddError records a message for field.
func (r *ValidationResult) AddError(field, message string) {
	r.errors[field] = append(r.errors[field], message)
}

// HasErrors reports whether at least one error was recorded.
func (r *ValidationResult) HasErrors() bool {
	return len(r.errors) > 0
}

// Errors returns all recorded messages keyed by field.
func (r *ValidationResult) Errors() map[string][]string {
	return r.errors
}

// FirstError returns the first message of the alphabetically first field.
// Map iteration is random, so sorting keeps the message stable.
func (r *ValidationResult) FirstError() (field, message string, ok bool) {
	if len(r.errors) == 0 {
		return "", "", false
	}
	fields := make([]string, 0, len(r.errors))
	for f := range r.errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields[0], r.errors[fields[0]][0], true
}

// ValidData returns the transformed data. Empty when validation failed.
func (r *ValidationResult) ValidData() map[string]any {
	return r.validData
}

// SetValidData replaces the validated data.
func (r *ValidationResult) SetValidData(data map[string]any) {
	r.validData = data
}

// Type is implemented by every field type (see package types).
type Type interface {
	// Validate checks value and records problems in result.
	Validate(field string, value any, result *ValidationResult)

	// Transform normalises value before validation (defaults, trimming...).
	Transform(value any) (any, error)
}

// Schema validates a whole map of fields.
type Schema interface {
	Validate(data map[string]any) *ValidationResult
	Shape(shape map[string]Type) Schema
	CrossValidate(fn func(data map[string]any) error) Schema
}
