// Package response provides HTTP response writing utilities.
//
// The API's wire shapes are flat rather than enveloped: handlers send raw
// documents and arrays, `{"message": ...}` notices, or `{"error": ...}`
// notices, depending on the endpoint.
package response

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"
)

// JSON writes a JSON response with the given status code using json/v2.
func JSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	// json/v2 MarshalWrite doesn't add a newline, but that's fine for HTTP responses.
	if err := json.MarshalWrite(w, v); err != nil {
		if logger != nil {
			logger.Error("Failed to encode JSON response", "error", err)
		}
	}
}

// Message writes a {"message": ...} body with the given status code.
func Message(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	JSON(w, status, map[string]string{"message": message}, logger)
}

// ErrorJSON writes an {"error": ...} body with the given status code.
func ErrorJSON(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	JSON(w, status, map[string]string{"error": message}, logger)
}
