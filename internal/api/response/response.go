// Package response provides utilities for sending consistent HTTP responses.
// Errors always serialise as {"detail": "..."} so every client sees one shape.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// ErrorResponse represents a structured error response returned by the API.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// RespondJSON sends a JSON response with the given status code.
// If data is nil, only the status code is sent (useful for 204 No Content).
// Logs encoding errors but does not fail the response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error().Err(err).Msg("Failed to encode JSON response")
		}
	}
}

// RespondError sends an error response with the given status code and detail
// message.
func RespondError(w http.ResponseWriter, status int, detail string) {
	RespondJSON(w, status, ErrorResponse{Detail: detail})
}
