package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"timeclock-backend/internal/services"
)

// Response is the envelope shape shared by all endpoints.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondMessage writes a {success, message} envelope.
func respondMessage(w http.ResponseWriter, status int, success bool, message string) {
	respondJSON(w, status, Response{Success: success, Message: message})
}

// respondData writes a {success, data} envelope.
func respondData(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, Response{Success: true, Data: data})
}

// statusForServiceError maps service sentinel errors onto HTTP status codes.
// Unrecognized errors map to 500.
func statusForServiceError(err error) int {
	switch {
	case errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrBadTimestamp),
		errors.Is(err, services.ErrTimestampSkew),
		errors.Is(err, services.ErrOpenSession),
		errors.Is(err, services.ErrNoOpenSession),
		errors.Is(err, services.ErrEmailTaken):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
