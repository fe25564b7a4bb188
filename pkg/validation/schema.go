package validation

import (
	"errors"
	"fmt"
)

// ValidationSchema is the default Schema implementation.
type ValidationSchema struct {
	shape           map[string]Type
	crossValidators []func(data map[string]any) error
}

// Make returns an empty schema.
//
// Example:
//
//	result := validation.Make().Shape(map[string]validation.Type{
//	    "account_id": types.Number().Required().Integer().Min(1),
//	}).Validate(map[string]any{"account_id": 1234})
func Make() *ValidationSchema {
	return &ValidationSchema{
		shape: make(map[string]Type),
	}
}

// Shape sets the field types of the schema.
func (vs *ValidationSchema) Shape(shape map[string]Type) Schema {
	vs.shape = shape
	return vs
}

// CrossValidate adds a validator that sees all transformed fields. Cross
// validators only run when every field passed on its own.
func (vs *ValidationSchema) CrossValidate(fn func(data map[string]any) error) Schema {
	vs.crossValidators = append(vs.crossValidators, fn)
	return vs
}

// Validate runs transform, field validation and cross validation, in that order.
func (vs *ValidationSchema) Validate(data map[string]any) *ValidationResult {
	result := NewResult()
	transformed := make(map[string]any, len(vs.shape))

	for field, typ := range vs.shape {
		value, err := typ.Transform(data[field])
		if err != nil {
			result.AddError(field, fmt.Sprintf("could not transform value: %s", err.Error()))
			continue
		}
		transformed[field] = value
	}

	for field, typ := range vs.shape {
		if _, failed := result.errors[field]; failed {
			continue
		}
		typ.Validate(field, transformed[field], result)
	}

	if !result.HasErrors() {
		for _, fn := range vs.crossValidators {
			if err := fn(transformed); err != nil {
				var fe *FieldError
				if errors.As(err, &fe) {
					result.AddError(fe.Field, fe.Message)
					continue
				}
				result.AddError("_cross_validation", err.Error())
			}
		}
	}

	if !result.HasErrors() {
		result.SetValidData(transformed)
	}

	return result
}
