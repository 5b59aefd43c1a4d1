package services

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"
)

// ReportServiceProvider defines the interface for attendance report services.
type ReportServiceProvider interface {
	WriteCSV(ctx context.Context) (string, error)
	WriteHTML(ctx context.Context) (string, error)
}

// ReportRow is one rendered line of the attendance report.
type ReportRow struct {
	FullName string
	Date     string
	ClockIn  string
	ClockOut string
	Duration string
	// Photos are data URIs; template.URL keeps html/template from
	// sanitizing the data: scheme.
	Image1 template.URL
	Image2 template.URL
}

// ReportService renders attendance reports for a trailing window into dated
// export folders.
type ReportService struct {
	db         *sql.DB
	exportDir  string
	windowDays int
	now        func() time.Time
}

// NewReportService creates a new ReportService writing under exportDir.
func NewReportService(db *sql.DB, exportDir string, windowDays int) *ReportService {
	return &ReportService{
		db:         db,
		exportDir:  exportDir,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// CSVFileName and HTMLFileName are the artifact names inside a sync folder.
const (
	CSVFileName  = "attendance-csv.csv"
	HTMLFileName = "attendance-html.html"
)

// SyncFolderName returns the dated folder name for artifacts written on day t.
func SyncFolderName(t time.Time) string {
	return fmt.Sprintf("Last_Sync_%s", t.UTC().Format("2006-01-02"))
}

// WriteCSV renders the trailing-window report as CSV into today's sync folder
// and returns the written path.
func (s *ReportService) WriteCSV(ctx context.Context) (string, error) {
	rows, err := s.buildRows(ctx)
	if err != nil {
		return "", err
	}

	path, err := s.artifactPath(CSVFileName)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Full Name", "Date", "Clock In", "Clock Out", "Duration"}); err != nil {
		return "", err
	}
	for _, row := range rows {
		if err := w.Write([]string{row.FullName, row.Date, row.ClockIn, row.ClockOut, row.Duration}); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to write CSV: %w", err)
	}
	return path, nil
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
  <title>Attendance Data</title>
  <style>
    table { border-collapse: collapse; }
    th, td { border: 1px solid black; padding: 8px; }
  </style>
</head>
<body>
  <h1>Attendance Data</h1>
  <table>
    <tr>
      <th>Full Name</th>
      <th>Date</th>
      <th>Clock In</th>
      <th>Clock Out</th>
      <th>Duration</th>
      <th>Image 1</th>
      <th>Image 2</th>
    </tr>
{{- range . }}
    <tr>
      <td>{{ .FullName }}</td>
      <td>{{ .Date }}</td>
      <td>{{ .ClockIn }}</td>
      <td>{{ .ClockOut }}</td>
      <td>{{ .Duration }}</td>
      <td><img src="{{ .Image1 }}" width="100" height="100"></td>
      <td><img src="{{ .Image2 }}" width="100" height="100"></td>
    </tr>
{{- end }}
  </table>
</body>
</html>
`))

// WriteHTML renders the trailing-window report as an HTML page with the
// stored photos embedded inline, into today's sync folder.
func (s *ReportService) WriteHTML(ctx context.Context) (string, error) {
	rows, err := s.buildRows(ctx)
	if err != nil {
		return "", err
	}

	path, err := s.artifactPath(HTMLFileName)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create HTML file: %w", err)
	}
	defer f.Close()

	if err := reportTemplate.Execute(f, rows); err != nil {
		return "", fmt.Errorf("failed to render HTML report: %w", err)
	}
	return path, nil
}

// buildRows queries attendance joined with user names for the trailing
// window, ordered by day then name.
func (s *ReportService) buildRows(ctx context.Context) ([]ReportRow, error) {
	since := s.now().UTC().AddDate(0, 0, -s.windowDays).Format("2006-01-02")

	rows, err := s.db.QueryContext(ctx, `
		SELECT (users.firstname || ' ' || users.lastname) AS fullname,
		       attendance.clock_in,
		       attendance.clock_out,
		       attendance.image1,
		       attendance.image2
		FROM attendance
		INNER JOIN users ON attendance.user_id = users.id
		WHERE DATE(attendance.clock_in) >= DATE(?)
		ORDER BY DATE(attendance.clock_in), fullname`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []ReportRow
	for rows.Next() {
		var (
			fullName string
			clockIn  string
			clockOut sql.NullString
			image1   string
			image2   sql.NullString
		)
		if err := rows.Scan(&fullName, &clockIn, &clockOut, &image1, &image2); err != nil {
			return nil, err
		}

		in, _ := time.Parse(time.RFC3339, clockIn)
		row := ReportRow{
			FullName: fullName,
			Date:     in.Format("02/01/2006"),
			ClockIn:  in.Format("03:04:05 pm"),
			Duration: "NA",
			Image1:   template.URL(image1),
			Image2:   template.URL(image2.String),
		}
		if clockOut.Valid {
			out, _ := time.Parse(time.RFC3339, clockOut.String)
			row.ClockOut = out.Format("03:04:05 pm")
			row.Duration = formatDuration(out.Sub(in))
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

// artifactPath ensures today's sync folder exists and returns the full path
// for the named artifact.
func (s *ReportService) artifactPath(name string) (string, error) {
	dir := filepath.Join(s.exportDir, SyncFolderName(s.now()))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("could not create export folder: %w", err)
	}
	return filepath.Join(dir, name), nil
}

// formatDuration renders a session length for the report, e.g. "8h 12m".
func formatDuration(d time.Duration) string {
	if d < 0 {
		return "NA"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
