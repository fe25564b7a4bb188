package types

import (
	"testing"

	"github.com/biyonik/cinema-ticket-service/pkg/validation"
)

func TestStringType_Validate(t *testing.T) {
	tests := []struct {
		name    string
		typ     *StringType
		value   any
		wantErr bool
	}{
		{"valid", String().Required(), "boxoffice", false},
		{"missing", String().Required(), nil, true},
		{"empty", String().Required(), "", true},
		{"optional nil", String(), nil, false},
		{"not a string", String().Required(), 42, true},
		{"too short", String().Min(3), "ab", true},
		{"too long", String().Max(3), "abcd", true},
		{"multibyte within max", String().Max(3), "£££", false},
		{"allowed value", String().OneOf("ADULT", "CHILD"), "CHILD", false},
		{"disallowed value", String().OneOf("ADULT", "CHILD"), "SENIOR", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validation.NewResult()
			tt.typ.Validate("field", tt.value, result)

			if result.HasErrors() != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, result.Errors())
			}
		})
	}
}

func TestStringType_Trim(t *testing.T) {
	schema := validation.Make().Shape(map[string]validation.Type{
		"client_id": String().Trim().Required(),
	})

	result := schema.Validate(map[string]any{"client_id": "  kiosk-1 "})
	if result.HasErrors() {
		t.Fatalf("Unexpected errors: %v", result.Errors())
	}
	if got := result.ValidData()["client_id"]; got != "kiosk-1" {
		t.Errorf("Expected trimmed value, got %q", got)
	}

	result = schema.Validate(map[string]any{"client_id": "   "})
	if !result.HasErrors() {
		t.Error("Expected whitespace-only value to fail the required check")
	}
}
