package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"timeclock-backend/internal/auth"
	"timeclock-backend/internal/services"
)

// AttendanceHandler handles HTTP requests for clock actions and record
// listings.
type AttendanceHandler struct {
	service services.AttendanceServiceProvider
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(service services.AttendanceServiceProvider) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// ClockPayload defines the structure for clock-in/clock-out requests.
type ClockPayload struct {
	ClientTimestamp string `json:"clientTimestamp"`
	Image           string `json:"image"`
}

// ClockIn opens a new attendance session for the authenticated user.
func (h *AttendanceHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusInternalServerError, false, "Could not retrieve user from token")
		return
	}

	var payload ClockPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMessage(w, http.StatusBadRequest, false, "Invalid request body")
		return
	}

	if _, err := h.service.ClockIn(r.Context(), claims.UserID, payload.ClientTimestamp, payload.Image); err != nil {
		h.respondClockError(w, err, claims.UserID, "clock-in")
		return
	}

	respondMessage(w, http.StatusOK, true, "Clock-in successful")
}

// ClockOut closes the authenticated user's open attendance session.
func (h *AttendanceHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusInternalServerError, false, "Could not retrieve user from token")
		return
	}

	var payload ClockPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondMessage(w, http.StatusBadRequest, false, "Invalid request body")
		return
	}

	if _, err := h.service.ClockOut(r.Context(), claims.UserID, payload.ClientTimestamp, payload.Image); err != nil {
		h.respondClockError(w, err, claims.UserID, "clock-out")
		return
	}

	respondMessage(w, http.StatusOK, true, "Clock-out successful")
}

// Records lists the authenticated user's records for the current day,
// most recent first.
func (h *AttendanceHandler) Records(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusInternalServerError, false, "Could not retrieve user from token")
		return
	}

	records, err := h.service.RecordsForDay(r.Context(), claims.UserID, time.Now())
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to list attendance records")
		respondMessage(w, http.StatusInternalServerError, false, "Error retrieving attendance records")
		return
	}

	respondData(w, http.StatusOK, records)
}

// Last returns the authenticated user's most recent record.
func (h *AttendanceHandler) Last(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondMessage(w, http.StatusInternalServerError, false, "Could not retrieve user from token")
		return
	}

	record, err := h.service.LastRecord(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondMessage(w, http.StatusNotFound, false, "No attendance records found")
			return
		}
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to get last attendance record")
		respondMessage(w, http.StatusInternalServerError, false, "Error retrieving attendance records")
		return
	}

	respondData(w, http.StatusOK, record)
}

// GetAll returns the administrative dump of attendance.
func (h *AttendanceHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.AllRecords(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to dump attendance records")
		respondMessage(w, http.StatusInternalServerError, false, "Error retrieving attendance records")
		return
	}
	respondData(w, http.StatusOK, summaries)
}

// respondClockError maps clock action failures onto the response taxonomy.
func (h *AttendanceHandler) respondClockError(w http.ResponseWriter, err error, userID, action string) {
	status := statusForServiceError(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("user_id", userID).Str("action", action).Msg("Clock action failed")
		respondMessage(w, status, false, "Internal Server Error")
		return
	}
	log.Warn().Err(err).Str("user_id", userID).Str("action", action).Msg("Clock action rejected")
	respondMessage(w, status, false, err.Error())
}
