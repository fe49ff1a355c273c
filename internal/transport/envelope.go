package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// timestampLayout renders ISO 8601 timestamps with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Envelope is the JSON shape of every REST response.
type Envelope struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
	Data      any      `json:"data,omitempty"`
	Errors    []string `json:"errors,omitempty"`
	Timestamp string   `json:"timestamp"`
}

// successEnvelope always carries data, null included.
type successEnvelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

func timestamp() string {
	return time.Now().UTC().Format(timestampLayout)
}

// WriteSuccess writes a success envelope.
func WriteSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, successEnvelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: timestamp(),
	})
}

// WriteError writes a failure envelope. errs is omitted when empty.
func WriteError(w http.ResponseWriter, status int, message string, errs []string) {
	writeJSON(w, status, Envelope{
		Success:   false,
		Message:   message,
		Errors:    errs,
		Timestamp: timestamp(),
	})
}

// WriteValidationError writes a 400 envelope listing every violation.
func WriteValidationError(w http.ResponseWriter, errs []string) {
	WriteError(w, http.StatusBadRequest, "Validation failed", errs)
}

// WriteNotFound writes a 404 envelope naming the missing resource.
func WriteNotFound(w http.ResponseWriter, resource string) {
	WriteError(w, http.StatusNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// WriteUnauthorized writes a 401 envelope.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	WriteError(w, http.StatusUnauthorized, message, nil)
}

// WriteForbidden writes a 403 envelope.
func WriteForbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Forbidden"
	}
	WriteError(w, http.StatusForbidden, message, nil)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
