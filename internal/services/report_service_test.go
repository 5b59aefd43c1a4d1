package services

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func seedAttendance(t *testing.T, db *sql.DB, userID, clockIn, clockOut string) {
	t.Helper()
	var out, image2 interface{}
	if clockOut != "" {
		out = clockOut
		image2 = testPhoto
	}
	_, err := db.Exec(
		"INSERT INTO attendance (id, user_id, clock_in, clock_out, image1, image2) VALUES (?, ?, ?, ?, ?, ?)",
		"rec-"+clockIn, userID, clockIn, out, testPhoto, image2)
	if err != nil {
		t.Fatalf("failed to seed attendance: %v", err)
	}
}

func newTestReportService(t *testing.T) (*ReportService, *sql.DB, string) {
	t.Helper()
	db := setupTestDB(t)
	dir := t.TempDir()
	svc := NewReportService(db, dir, 14)
	svc.now = func() time.Time { return time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC) }
	return svc, db, dir
}

func TestReportService_WriteCSV(t *testing.T) {
	svc, db, dir := newTestReportService(t)
	userID := seedUser(t, NewUserService(db), "jane@example.com")

	seedAttendance(t, db, userID, "2026-08-19T09:00:00Z", "2026-08-19T17:30:00Z")
	seedAttendance(t, db, userID, "2026-08-20T08:00:00Z", "")
	// Outside the 14-day window; must not appear.
	seedAttendance(t, db, userID, "2026-07-01T09:00:00Z", "2026-07-01T17:00:00Z")

	path, err := svc.WriteCSV(context.Background())
	if err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if want := filepath.Join(dir, "Last_Sync_2026-08-20", CSVFileName); path != want {
		t.Errorf("expected path %s, got %s", want, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read CSV: %v", err)
	}
	content := string(data)

	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), content)
	}
	if lines[0] != "Full Name,Date,Clock In,Clock Out,Duration" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "Test User") || !strings.Contains(lines[1], "19/08/2026") {
		t.Errorf("unexpected first row: %s", lines[1])
	}
	if !strings.Contains(lines[1], "8h 30m") {
		t.Errorf("expected duration 8h 30m in row: %s", lines[1])
	}
	if !strings.Contains(lines[2], "NA") {
		t.Errorf("open session must render duration NA: %s", lines[2])
	}
	if strings.Contains(content, "01/07/2026") {
		t.Error("row outside trailing window must not appear")
	}
}

func TestReportService_WriteHTML(t *testing.T) {
	svc, db, _ := newTestReportService(t)
	userID := seedUser(t, NewUserService(db), "jane@example.com")

	seedAttendance(t, db, userID, "2026-08-19T09:00:00Z", "2026-08-19T17:30:00Z")

	path, err := svc.WriteHTML(context.Background())
	if err != nil {
		t.Fatalf("WriteHTML failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read HTML: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "<h1>Attendance Data</h1>") {
		t.Error("expected report heading")
	}
	if !strings.Contains(content, "Test User") {
		t.Error("expected user row")
	}
	// Photos must be embedded inline, not sanitized away.
	if !strings.Contains(content, `src="`+testPhoto+`"`) {
		t.Error("expected data-URI photo embedded in HTML")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{35 * time.Minute, "35m"},
		{8*time.Hour + 30*time.Minute, "8h 30m"},
		{8 * time.Hour, "8h 0m"},
		{-time.Minute, "NA"},
	}
	for _, c := range cases {
		if got := formatDuration(c.d); got != c.want {
			t.Errorf("formatDuration(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}
