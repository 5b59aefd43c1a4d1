package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"timeclock-backend/internal/api"
	"timeclock-backend/internal/auth"
	"timeclock-backend/internal/config"
	"timeclock-backend/internal/database"
	"timeclock-backend/internal/logger"
	"timeclock-backend/internal/monitoring"
	"timeclock-backend/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Log.Level)

	// Ensure directories for the database file and exports exist
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create database directory")
	}
	if err := os.MkdirAll(cfg.Export.Dir, 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create export directory")
	}

	// Set up database
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLHours)*time.Hour)
	userService := services.NewUserService(db)
	attendanceService := services.NewAttendanceService(db, time.Duration(cfg.Clock.SkewToleranceSeconds)*time.Second)
	reportService := services.NewReportService(db, cfg.Export.Dir, cfg.Export.WindowDays)

	var uploader services.UploaderProvider
	if cfg.Backup.S3Bucket != "" {
		s3Uploader, err := services.NewS3Uploader(context.Background(),
			cfg.Backup.AWSRegion, cfg.Backup.S3Bucket, cfg.Backup.S3Prefix,
			cfg.Backup.AWSAccessKey, cfg.Backup.AWSSecretKey)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 uploader")
		}
		uploader = s3Uploader
	} else {
		log.Warn().Msg("S3_BUCKET not set, backups will stay on local disk")
	}
	backupService := services.NewBackupService(reportService, uploader)

	// Set up and run the daily backup scheduler
	scheduler, err := monitoring.NewScheduler(backupService, cfg.Backup.CronTime)
	if err != nil {
		log.Error().Err(err).Str("cron_time", cfg.Backup.CronTime).Msg("Backup schedule disabled")
	} else {
		go scheduler.Run()
	}

	// Set up router
	secureCookies := os.Getenv("APP_ENV") == "production"
	router := api.NewRouter(db, tokens, userService, attendanceService, reportService, backupService, secureCookies)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

func getConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.yaml"
}
