package types

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/biyonik/cinema-ticket-service/pkg/validation"
)

// StringType validates text fields with optional length and value
// constraints.
type StringType struct {
	BaseType
	minLength     *int
	maxLength     *int
	allowedValues []string
}

func (s *StringType) Required() *StringType {
	s.SetRequired()
	return s
}

func (s *StringType) Label(label string) *StringType {
	s.SetLabel(label)
	return s
}

func (s *StringType) Default(value string) *StringType {
	s.SetDefault(value)
	return s
}

// Min sets the minimum length in characters.
func (s *StringType) Min(length int) *StringType {
	s.minLength = &length
	return s
}

// Max sets the maximum length in characters.
func (s *StringType) Max(length int) *StringType {
	s.maxLength = &length
	return s
}

func (s *StringType) OneOf(values ...string) *StringType {
	s.allowedValues = values
	return s
}

// Trim strips surrounding whitespace before validation. Non-string values
// are left alone so that Validate can report them.
func (s *StringType) Trim() *StringType {
	s.AddTransform(func(value any) (any, error) {
		if str, ok := value.(string); ok {
			return strings.TrimSpace(str), nil
		}
		return value, nil
	})
	return s
}

func (s *StringType) Validate(field string, value any, result *validation.ValidationResult) {
	before := len(result.Errors()[field])
	s.BaseType.Validate(field, value, result)
	if len(result.Errors()[field]) > before || value == nil {
		return
	}

	fieldName := s.fieldName(field)

	str, ok := value.(string)
	if !ok {
		result.AddError(field, fmt.Sprintf("%s must be a string", fieldName))
		return
	}

	length := utf8.RuneCountInString(str)
	if s.minLength != nil && length < *s.minLength {
		result.AddError(field, fmt.Sprintf("%s must be at least %d characters", fieldName, *s.minLength))
	}
	if s.maxLength != nil && length > *s.maxLength {
		result.AddError(field, fmt.Sprintf("%s must not be longer than %d characters", fieldName, *s.maxLength))
	}

	if len(s.allowedValues) > 0 {
		for _, allowed := range s.allowedValues {
			if str == allowed {
				return
			}
		}
		result.AddError(field, fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(s.allowedValues, ", ")))
	}
}
