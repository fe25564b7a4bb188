package types

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/biyonik/cinema-ticket-service/pkg/validation"
)

// NumberType validates numeric fields with optional min, max and integer
// constraints. Only real numeric Go values are accepted: booleans, strings
// and containers are rejected even if they could be coerced to a number.
type NumberType struct {
	BaseType
	min       *float64
	max       *float64
	isInteger bool
}

func (n *NumberType) Required() *NumberType {
	n.SetRequired()
	return n
}

func (n *NumberType) Label(label string) *NumberType {
	n.SetLabel(label)
	return n
}

func (n *NumberType) Default(value any) *NumberType {
	n.SetDefault(value)
	return n
}

func (n *NumberType) Min(val float64) *NumberType {
	n.min = &val
	return n
}

func (n *NumberType) Max(val float64) *NumberType {
	n.max = &val
	return n
}

// Integer requires the value to be a whole number.
func (n *NumberType) Integer() *NumberType {
	n.isInteger = true
	return n
}

// Validate checks the type and the configured bounds.
func (n *NumberType) Validate(field string, value any, result *validation.ValidationResult) {
	before := len(result.Errors()[field])
	n.BaseType.Validate(field, value, result)
	if len(result.Errors()[field]) > before || value == nil {
		return
	}

	fieldName := n.fieldName(field)

	num, ok := ToFloat64(value)
	if !ok || math.IsNaN(num) || math.IsInf(num, 0) {
		result.AddError(field, fmt.Sprintf("%s must be a number", fieldName))
		return
	}

	if n.isInteger && num != math.Trunc(num) {
		result.AddError(field, fmt.Sprintf("%s must be an integer", fieldName))
		return
	}

	if n.min != nil && num < *n.min {
		result.AddError(field, fmt.Sprintf("%s must not be less than %v", fieldName, *n.min))
	}

	if n.max != nil && num > *n.max {
		result.AddError(field, fmt.Sprintf("%s must not be greater than %v", fieldName, *n.max))
	}
}

// ToFloat64 converts any Go numeric kind, or a json.Number, to float64.
func ToFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// ToInt64 converts a whole numeric value to int64. It fails for fractional
// values, non-numeric values and anything outside the int64 range.
func ToInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
	}

	f, ok := ToFloat64(value)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// float64(math.MaxInt64) rounds up to 2^63, which no longer fits.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
