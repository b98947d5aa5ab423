package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// errorResponse is the body of every error the gateway emits.
type errorResponse struct {
	Errors []errorMessage `json:"errors"`
}

type errorMessage struct {
	Message string `json:"message"`
}

// writeJSON encodes v as JSON and writes it to the response with the given
// HTTP status code. Content-Type is always set to application/json.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; only logging is left.
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteError writes a JSON error response with the given HTTP status code.
// The response body is {"errors": [{"message": "..."}]}.
func WriteError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Errors: []errorMessage{{Message: message}}})
}

// NotFound answers unknown routes with the JSON error shape.
func NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "not found: "+r.URL.Path)
	}
}

// MethodNotAllowed answers unsupported methods with the JSON error shape.
func MethodNotAllowed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed: "+r.Method)
	}
}
