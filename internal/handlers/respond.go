// Package handlers implements the JSON API endpoints. Every response
// travels in the same envelope: {"success": bool, "data": ..., "error": ...}.
// Business failures (not found, not allowed, invalid input) use the
// envelope with an appropriate HTTP status; transport-level failures are
// the 500s produced when a backing store is unreachable.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// envelope is the uniform API response shape.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// respondOK writes a success envelope with the given payload.
func respondOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// respondCreated writes a success envelope with status 201.
func respondCreated(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: data})
}

// respondErr writes an error envelope with the given status and message.
func respondErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

// respondInternal logs the underlying error and writes a generic 500
// envelope. Internal details never reach the client.
func respondInternal(w http.ResponseWriter, op string, err error) {
	slog.Error(op, "error", err)
	respondErr(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// decodeJSON parses the request body into dst. Returns false (after
// writing a 400 envelope) if the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondErr(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
