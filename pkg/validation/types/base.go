// Package types provides the field types used with validation schemas.
package types

import (
	"fmt"

	"github.com/biyonik/cinema-ticket-service/pkg/validation"
)

// BaseType carries what every field type shares: the required flag, a
// human-readable label, a default value and transform functions.
type BaseType struct {
	isRequired      bool
	label           string
	defaultValue    any
	transformations []func(any) (any, error)
}

func (b *BaseType) SetRequired() {
	b.isRequired = true
}

func (b *BaseType) SetLabel(label string) {
	b.label = label
}

func (b *BaseType) SetDefault(value any) {
	b.defaultValue = value
}

// AddTransform appends a function applied to non-nil values before validation.
func (b *BaseType) AddTransform(fn func(any) (any, error)) {
	b.transformations = append(b.transformations, fn)
}

// Transform applies the default value and then every transform in order.
func (b *BaseType) Transform(value any) (any, error) {
	if value == nil && b.defaultValue != nil {
		value = b.defaultValue
	}
	if value == nil {
		return nil, nil
	}

	var err error
	for _, fn := range b.transformations {
		value, err = fn(value)
		if err != nil {
			return nil, err
		}
	}
	return value, nil
}

// Validate enforces the required flag.
func (b *BaseType) Validate(field string, value any, result *validation.ValidationResult) {
	if !b.isRequired {
		return
	}
	if value == nil {
		result.AddError(field, fmt.Sprintf("%s is required", b.fieldName(field)))
		return
	}
	if str, ok := value.(string); ok && str == "" {
		result.AddError(field, fmt.Sprintf("%s is required", b.fieldName(field)))
	}
}

func (b *BaseType) fieldName(field string) string {
	if b.label != "" {
		return b.label
	}
	return field
}
