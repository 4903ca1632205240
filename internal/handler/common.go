// internal/handler/common.go
package handler

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ErrorResponse is the envelope for error payloads.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// respondWithError sends a JSON error response
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithValidationError sends a 400 carrying the individual field
// failures, the JSON equivalent of re-rendering a form with errors.
func respondWithValidationError(w http.ResponseWriter, err error) {
	details := strings.Split(err.Error(), "\n")
	respondWithJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "Validation failed",
		Details: details,
	})
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// decodeJSON parses the request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
