package httpx

import (
	"encoding/json"
	"net/http"
)

// Error kinds surfaced in the "error" field of failure responses. These
// are a stable machine-readable contract for the frontend.
const (
	KindNotFound     = "not_found"
	KindInvalidState = "invalid_state"
	KindConflict     = "conflict"
	KindForbidden    = "forbidden"
	KindValidation   = "validation"
	KindUnauthorized = "unauthorized"
	KindServerError  = "server_error"
)

// ErrorResponse is the JSON envelope for every failure. Fields is only
// populated for validation errors, keyed by the offending input field.
type ErrorResponse struct {
	Error            string            `json:"error"`
	ErrorDescription string            `json:"error_description"`
	Fields           map[string]string `json:"fields,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a standard failure envelope.
func WriteError(w http.ResponseWriter, code int, kind, description string) {
	WriteJSON(w, code, ErrorResponse{Error: kind, ErrorDescription: description})
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// Required for responses carrying credentials or personal data.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
