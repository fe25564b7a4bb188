// Package response writes the JSON bodies of the API. Every non-purchase
// endpoint uses the JSONResponse envelope; purchase outcomes are written as
// the bare PurchaseResult.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/biyonik/cinema-ticket-service/internal/models"
)

// JSONResponse is the common envelope.
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// WriteJSON encodes payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

func Send(w http.ResponseWriter, status int, payload JSONResponse) error {
	return WriteJSON(w, status, payload)
}

func Success(w http.ResponseWriter, status int, data interface{}, meta interface{}) error {
	return Send(w, status, JSONResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// Error accepts a string, an error or field errors (map[string][]string).
func Error(w http.ResponseWriter, status int, errData any) error {
	payload := JSONResponse{Success: false}

	switch e := errData.(type) {
	case string:
		payload.Error = e
	case error:
		payload.Error = e.Error()
	case map[string][]string:
		payload.Error = "Validation failed"
		payload.Data = e
	default:
		payload.Error = "Unknown server error"
	}

	return Send(w, status, payload)
}

// PurchaseResult writes result with its own status code.
func PurchaseResult(w http.ResponseWriter, result models.PurchaseResult) error {
	return WriteJSON(w, result.StatusCode, result)
}
