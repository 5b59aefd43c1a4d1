package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"timeclock-backend/internal/auth"
	"timeclock-backend/internal/models"
	"timeclock-backend/internal/services"
)

type stubAttendanceService struct {
	clockInErr  error
	clockOutErr error
	last        models.AttendanceRecord
	lastErr     error
	records     []models.AttendanceRecord
}

func (s *stubAttendanceService) ClockIn(ctx context.Context, userID, ts, photo string) (models.AttendanceRecord, error) {
	return models.AttendanceRecord{UserID: userID}, s.clockInErr
}

func (s *stubAttendanceService) ClockOut(ctx context.Context, userID, ts, photo string) (models.AttendanceRecord, error) {
	return models.AttendanceRecord{UserID: userID}, s.clockOutErr
}

func (s *stubAttendanceService) RecordsForDay(ctx context.Context, userID string, day time.Time) ([]models.AttendanceRecord, error) {
	return s.records, nil
}

func (s *stubAttendanceService) LastRecord(ctx context.Context, userID string) (models.AttendanceRecord, error) {
	return s.last, s.lastErr
}

func (s *stubAttendanceService) AllRecords(ctx context.Context) ([]services.AttendanceSummary, error) {
	return nil, nil
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), auth.UserClaimsKey, &auth.Claims{UserID: "user1"})
	return req.WithContext(ctx)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

const clockBody = `{"clientTimestamp":"2026-08-20T09:00:00Z","image":"data:image/png;base64,xx"}`

func TestAttendanceHandler_ClockInSuccess(t *testing.T) {
	h := NewAttendanceHandler(&stubAttendanceService{})

	rec := httptest.NewRecorder()
	h.ClockIn(rec, authedRequest(http.MethodPost, "/clock-in", clockBody))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if !resp.Success || resp.Message != "Clock-in successful" {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestAttendanceHandler_ClockInConflict(t *testing.T) {
	h := NewAttendanceHandler(&stubAttendanceService{clockInErr: services.ErrOpenSession})

	rec := httptest.NewRecorder()
	h.ClockIn(rec, authedRequest(http.MethodPost, "/clock-in", clockBody))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success || !strings.Contains(resp.Message, "clocked out") {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestAttendanceHandler_ClockInSkew(t *testing.T) {
	h := NewAttendanceHandler(&stubAttendanceService{clockInErr: services.ErrTimestampSkew})

	rec := httptest.NewRecorder()
	h.ClockIn(rec, authedRequest(http.MethodPost, "/clock-in", clockBody))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAttendanceHandler_ClockInBadBody(t *testing.T) {
	h := NewAttendanceHandler(&stubAttendanceService{})

	rec := httptest.NewRecorder()
	h.ClockIn(rec, authedRequest(http.MethodPost, "/clock-in", "{not json"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAttendanceHandler_ClockOutNoSession(t *testing.T) {
	h := NewAttendanceHandler(&stubAttendanceService{clockOutErr: services.ErrNoOpenSession})

	rec := httptest.NewRecorder()
	h.ClockOut(rec, authedRequest(http.MethodPost, "/clock-out", clockBody))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAttendanceHandler_LastNotFound(t *testing.T) {
	h := NewAttendanceHandler(&stubAttendanceService{lastErr: services.ErrNotFound})

	rec := httptest.NewRecorder()
	h.Last(rec, authedRequest(http.MethodGet, "/last-attendance", ""))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAttendanceHandler_Records(t *testing.T) {
	now := time.Now()
	h := NewAttendanceHandler(&stubAttendanceService{
		records: []models.AttendanceRecord{{ID: "r1", UserID: "user1", ClockIn: now}},
	})

	rec := httptest.NewRecorder()
	h.Records(rec, authedRequest(http.MethodGet, "/attendance-records", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if !resp.Success || resp.Data == nil {
		t.Errorf("expected data in response: %+v", resp)
	}
}
