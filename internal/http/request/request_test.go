package request

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/biyonik/cinema-ticket-service/pkg/auth"
)

func TestParseJSON_KeepsNumbers(t *testing.T) {
	r := New(httptest.NewRequest("POST", "/", strings.NewReader(`{"account_id": 1234, "fraction": 12.5}`)))

	var body map[string]interface{}
	if err := r.ParseJSON(&body); err != nil {
		t.Fatal(err)
	}

	if n, ok := body["account_id"].(json.Number); !ok || n.String() != "1234" {
		t.Errorf("Expected json.Number 1234, got %#v", body["account_id"])
	}
	if n, ok := body["fraction"].(json.Number); !ok || n.String() != "12.5" {
		t.Errorf("Expected json.Number 12.5, got %#v", body["fraction"])
	}
}

func TestParseJSON_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"malformed", `{"account_id": }`},
		{"trailing data", `{"a":1} {"b":2}`},
		{"too large", `{"pad":"` + strings.Repeat("x", MaxBodyBytes) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(httptest.NewRequest("POST", "/", strings.NewReader(tt.body)))
			var body map[string]interface{}
			if err := r.ParseJSON(&body); err == nil {
				t.Error("Expected an error")
			}
		})
	}

	r := New(httptest.NewRequest("POST", "/", strings.NewReader("")))
	if err := r.ParseJSON(&struct{}{}); !errors.Is(err, ErrEmptyBody) {
		t.Errorf("Expected ErrEmptyBody, got %v", err)
	}
}

func TestParseJSON_ContentType(t *testing.T) {
	tests := []struct {
		contentType string
		wantErr     error
	}{
		{"", nil},
		{"application/json", nil},
		{"application/json; charset=utf-8", nil},
		{"text/plain", ErrNotJSON},
		{"application/x-www-form-urlencoded", ErrNotJSON},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("POST", "/", strings.NewReader(`{"a":1}`))
		if tt.contentType != "" {
			req.Header.Set("Content-Type", tt.contentType)
		}

		var body map[string]interface{}
		if err := New(req).ParseJSON(&body); !errors.Is(err, tt.wantErr) {
			t.Errorf("Content-Type %q: expected %v, got %v", tt.contentType, tt.wantErr, err)
		}
	}
}

func TestGetIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:43210"
	if got := New(req).GetIP(); got != "10.0.0.5" {
		t.Errorf("Expected 10.0.0.5, got %s", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := New(req).GetIP(); got != "203.0.113.7" {
		t.Errorf("Expected 203.0.113.7, got %s", got)
	}
}

func TestClaimsRoundTrip(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if New(req).ClientID() != "" {
		t.Error("Expected no client on a fresh request")
	}

	req = req.WithContext(WithClaims(req.Context(), &auth.Claims{ClientID: "kiosk-1"}))
	if got := New(req).ClientID(); got != "kiosk-1" {
		t.Errorf("Expected kiosk-1, got %q", got)
	}

	req.Header.Set("Authorization", "Bearer abc")
	if got := New(req).BearerToken(); got != "abc" {
		t.Errorf("Expected abc, got %q", got)
	}
}
