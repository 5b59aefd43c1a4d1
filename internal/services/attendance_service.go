package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"timeclock-backend/internal/metrics"
	"timeclock-backend/internal/models"
)

// AttendanceServiceProvider defines the interface for attendance services.
type AttendanceServiceProvider interface {
	ClockIn(ctx context.Context, userID, clientTimestamp, photo string) (models.AttendanceRecord, error)
	ClockOut(ctx context.Context, userID, clientTimestamp, photo string) (models.AttendanceRecord, error)
	RecordsForDay(ctx context.Context, userID string, day time.Time) ([]models.AttendanceRecord, error)
	LastRecord(ctx context.Context, userID string) (models.AttendanceRecord, error)
	AllRecords(ctx context.Context) ([]AttendanceSummary, error)
}

// AttendanceSummary is the administrative view of a record, without photos.
type AttendanceSummary struct {
	UserID   string     `json:"user_id"`
	ClockIn  time.Time  `json:"clock_in"`
	ClockOut *time.Time `json:"clock_out"`
}

// AttendanceService implements the per-user clock-in/clock-out state machine:
// CLOCKED_OUT -> CLOCKED_IN -> CLOCKED_OUT. The current state is the
// clock_out nullity of the user's most recent record.
type AttendanceService struct {
	db            *sql.DB
	skewTolerance time.Duration
	now           func() time.Time
}

// NewAttendanceService creates a new AttendanceService with the given skew
// tolerance for client timestamps.
func NewAttendanceService(db *sql.DB, skewTolerance time.Duration) *AttendanceService {
	return &AttendanceService{
		db:            db,
		skewTolerance: skewTolerance,
		now:           time.Now,
	}
}

// ClockIn opens a new attendance session for the user. The most recent record
// must be absent or closed. The recorded clock-in time is always the server
// clock; the client timestamp is only a validation gate.
func (s *AttendanceService) ClockIn(ctx context.Context, userID, clientTimestamp, photo string) (models.AttendanceRecord, error) {
	serverTime, err := s.validateClockRequest(clientTimestamp, photo)
	if err != nil {
		metrics.ClockRejections.WithLabelValues("validation").Inc()
		return models.AttendanceRecord{}, err
	}

	open, err := s.hasOpenSession(ctx, userID)
	if err != nil {
		return models.AttendanceRecord{}, err
	}
	if open {
		metrics.ClockRejections.WithLabelValues("state").Inc()
		return models.AttendanceRecord{}, ErrOpenSession
	}

	record := models.AttendanceRecord{
		ID:      uuid.New().String(),
		UserID:  userID,
		ClockIn: serverTime,
		Image1:  photo,
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO attendance (id, user_id, clock_in, image1) VALUES (?, ?, ?, ?)",
		record.ID, record.UserID, record.ClockIn.UTC().Format(time.RFC3339), record.Image1)
	if err != nil {
		// A racing clock-in loses on the open-session index and is treated
		// the same as the ordinary state check.
		if isUniqueViolation(err) {
			metrics.ClockRejections.WithLabelValues("state").Inc()
			return models.AttendanceRecord{}, ErrOpenSession
		}
		return models.AttendanceRecord{}, err
	}

	metrics.ClockIns.Inc()
	log.Info().Str("user_id", userID).Time("clock_in", record.ClockIn).Msg("Clock-in recorded")
	return record, nil
}

// ClockOut closes the user's open attendance session, setting the clock-out
// time to the server clock and attaching the second photo.
func (s *AttendanceService) ClockOut(ctx context.Context, userID, clientTimestamp, photo string) (models.AttendanceRecord, error) {
	serverTime, err := s.validateClockRequest(clientTimestamp, photo)
	if err != nil {
		metrics.ClockRejections.WithLabelValues("validation").Inc()
		return models.AttendanceRecord{}, err
	}

	var (
		record  models.AttendanceRecord
		clockIn string
	)
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, clock_in, image1 FROM attendance
		WHERE user_id = ? AND clock_out IS NULL
		ORDER BY clock_in DESC LIMIT 1`, userID)
	if err := row.Scan(&record.ID, &record.UserID, &clockIn, &record.Image1); err != nil {
		if err == sql.ErrNoRows {
			metrics.ClockRejections.WithLabelValues("state").Inc()
			return models.AttendanceRecord{}, ErrNoOpenSession
		}
		return models.AttendanceRecord{}, err
	}
	record.ClockIn, _ = time.Parse(time.RFC3339, clockIn)

	res, err := s.db.ExecContext(ctx,
		"UPDATE attendance SET clock_out = ?, image2 = ? WHERE id = ? AND clock_out IS NULL",
		serverTime.UTC().Format(time.RFC3339), photo, record.ID)
	if err != nil {
		return models.AttendanceRecord{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// The session was closed between the read and the update.
		metrics.ClockRejections.WithLabelValues("state").Inc()
		return models.AttendanceRecord{}, ErrNoOpenSession
	}

	record.ClockOut = &serverTime
	record.Image2 = photo

	metrics.ClockOuts.Inc()
	log.Info().Str("user_id", userID).Time("clock_out", serverTime).Msg("Clock-out recorded")
	return record, nil
}

// RecordsForDay retrieves the user's records whose clock-in falls on the
// given calendar day, most recent first.
func (s *AttendanceService) RecordsForDay(ctx context.Context, userID string, day time.Time) ([]models.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, clock_in, clock_out, image1, image2 FROM attendance
		WHERE user_id = ? AND DATE(clock_in) = ?
		ORDER BY clock_in DESC`, userID, day.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// LastRecord retrieves the user's most recent record regardless of day, so a
// session left open overnight is still reported as open.
func (s *AttendanceService) LastRecord(ctx context.Context, userID string) (models.AttendanceRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, clock_in, clock_out, image1, image2 FROM attendance
		WHERE user_id = ?
		ORDER BY clock_in DESC LIMIT 1`, userID)
	if err != nil {
		return models.AttendanceRecord{}, err
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return models.AttendanceRecord{}, err
	}
	if len(records) == 0 {
		return models.AttendanceRecord{}, ErrNotFound
	}
	return records[0], nil
}

// AllRecords returns the administrative dump of all attendance rows.
func (s *AttendanceService) AllRecords(ctx context.Context) ([]AttendanceSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, clock_in, clock_out FROM attendance ORDER BY clock_in")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []AttendanceSummary
	for rows.Next() {
		var (
			summary  AttendanceSummary
			clockIn  string
			clockOut sql.NullString
		)
		if err := rows.Scan(&summary.UserID, &clockIn, &clockOut); err != nil {
			return nil, err
		}
		summary.ClockIn, _ = time.Parse(time.RFC3339, clockIn)
		if clockOut.Valid {
			t, _ := time.Parse(time.RFC3339, clockOut.String)
			summary.ClockOut = &t
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// validateClockRequest checks the photo and client timestamp and returns the
// server time to record.
func (s *AttendanceService) validateClockRequest(clientTimestamp, photo string) (time.Time, error) {
	if clientTimestamp == "" || photo == "" {
		return time.Time{}, ErrMissingFields
	}

	clientTime, err := time.Parse(time.RFC3339, clientTimestamp)
	if err != nil {
		return time.Time{}, ErrBadTimestamp
	}

	serverTime := s.now()
	skew := serverTime.Sub(clientTime)
	if skew < 0 {
		skew = -skew
	}
	if skew > s.skewTolerance {
		return time.Time{}, ErrTimestampSkew
	}
	return serverTime, nil
}

// hasOpenSession reports whether the user's most recent record is open.
func (s *AttendanceService) hasOpenSession(ctx context.Context, userID string) (bool, error) {
	var clockOut sql.NullString
	row := s.db.QueryRowContext(ctx, `
		SELECT clock_out FROM attendance
		WHERE user_id = ?
		ORDER BY clock_in DESC LIMIT 1`, userID)
	if err := row.Scan(&clockOut); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return !clockOut.Valid, nil
}

// scanRecords is a helper to scan attendance rows into records.
func scanRecords(rows *sql.Rows) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	for rows.Next() {
		var (
			record   models.AttendanceRecord
			clockIn  string
			clockOut sql.NullString
			image2   sql.NullString
		)
		if err := rows.Scan(&record.ID, &record.UserID, &clockIn, &clockOut, &record.Image1, &image2); err != nil {
			return nil, err
		}
		record.ClockIn, _ = time.Parse(time.RFC3339, clockIn)
		if clockOut.Valid {
			t, _ := time.Parse(time.RFC3339, clockOut.String)
			record.ClockOut = &t
		}
		record.Image2 = image2.String
		records = append(records, record)
	}
	return records, rows.Err()
}
