package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"timeclock-backend/internal/metrics"
)

// BackupServiceProvider defines the interface for the export/backup job.
type BackupServiceProvider interface {
	Run(ctx context.Context) error
}

// BackupService renders the CSV and HTML attendance reports into a dated
// folder and uploads both artifacts to remote storage. It is invoked by the
// daily scheduler and by the manual /upload endpoint.
type BackupService struct {
	reports  ReportServiceProvider
	uploader UploaderProvider
	now      func() time.Time
}

// NewBackupService creates a new BackupService. uploader may be nil, in which
// case artifacts are only written locally.
func NewBackupService(reports ReportServiceProvider, uploader UploaderProvider) *BackupService {
	return &BackupService{
		reports:  reports,
		uploader: uploader,
		now:      time.Now,
	}
}

// Run executes one backup pass. Each stage's failure is logged; the first
// error is returned but later stages still run where possible.
func (s *BackupService) Run(ctx context.Context) error {
	var firstErr error

	csvPath, err := s.reports.WriteCSV(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Backup: CSV export failed")
		firstErr = err
	} else {
		log.Info().Str("path", csvPath).Msg("Backup: CSV export completed")
	}

	htmlPath, err := s.reports.WriteHTML(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Backup: HTML export failed")
		if firstErr == nil {
			firstErr = err
		}
	} else {
		log.Info().Str("path", htmlPath).Msg("Backup: HTML export completed")
	}

	if s.uploader == nil {
		log.Warn().Msg("Backup: no uploader configured, artifacts kept locally only")
	} else {
		folder := SyncFolderName(s.now())
		for _, artifact := range []struct {
			path        string
			contentType string
		}{
			{csvPath, "text/csv"},
			{htmlPath, "text/html"},
		} {
			if artifact.path == "" {
				continue
			}
			if err := s.uploader.UploadFile(ctx, artifact.path, folder, artifact.contentType); err != nil {
				log.Error().Err(err).Str("path", artifact.path).Msg("Backup: upload failed")
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			log.Info().Str("path", artifact.path).Str("folder", folder).Msg("Backup: artifact uploaded")
		}
	}

	if firstErr != nil {
		metrics.BackupRuns.WithLabelValues("failure").Inc()
		return fmt.Errorf("backup run incomplete: %w", firstErr)
	}
	metrics.BackupRuns.WithLabelValues("success").Inc()
	return nil
}
