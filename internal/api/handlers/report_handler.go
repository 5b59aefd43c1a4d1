package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"timeclock-backend/internal/services"
)

// ReportHandler handles report export and backup upload requests.
type ReportHandler struct {
	reports services.ReportServiceProvider
	backup  services.BackupServiceProvider
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reports services.ReportServiceProvider, backup services.BackupServiceProvider) *ReportHandler {
	return &ReportHandler{reports: reports, backup: backup}
}

// ExportCSV renders the trailing-window attendance report as CSV and serves
// it as a download.
func (h *ReportHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	path, err := h.reports.WriteCSV(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("CSV export failed")
		respondMessage(w, http.StatusInternalServerError, false, "Error creating CSV file")
		return
	}
	serveDownload(w, r, path, "text/csv")
}

// ExportHTML renders the trailing-window attendance report as HTML with the
// photos embedded and serves it as a download.
func (h *ReportHandler) ExportHTML(w http.ResponseWriter, r *http.Request) {
	path, err := h.reports.WriteHTML(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("HTML export failed")
		respondMessage(w, http.StatusInternalServerError, false, "Error saving HTML file")
		return
	}
	serveDownload(w, r, path, "text/html")
}

// Upload triggers one backup pass: render both artifacts and push them to
// remote storage.
func (h *ReportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := h.backup.Run(r.Context()); err != nil {
		log.Error().Err(err).Msg("Manual backup upload failed")
		respondMessage(w, http.StatusInternalServerError, false, "Error during backup")
		return
	}
	respondMessage(w, http.StatusOK, true, "Backup completed successfully")
}

func serveDownload(w http.ResponseWriter, r *http.Request, path, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(path))
	http.ServeFile(w, r, path)
}
