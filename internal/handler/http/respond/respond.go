// Package respond centralizes JSON response writing for the HTTP
// handlers so that success and error payloads share one shape.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// Error writes a JSON error payload with the given status code.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}

// SafeError logs the underlying error and writes a sanitized message
// to the client. Internal details such as credentials or connection
// strings never leave the server.
func SafeError(w http.ResponseWriter, status int, err error, public string) {
	if err != nil {
		slog.Error("request failed", "status", status, "error", Sanitize(err.Error()))
	}
	Error(w, status, public)
}
