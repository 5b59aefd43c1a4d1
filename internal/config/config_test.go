package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Clock.SkewToleranceSeconds != 10 {
		t.Errorf("expected default skew tolerance 10s, got %d", cfg.Clock.SkewToleranceSeconds)
	}
	if cfg.Export.WindowDays != 14 {
		t.Errorf("expected default export window 14 days, got %d", cfg.Export.WindowDays)
	}
	if cfg.Backup.CronTime != "11:30 pm" {
		t.Errorf("expected default cron time '11:30 pm', got %q", cfg.Backup.CronTime)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error when JWT_SECRET is unset")
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 8081
clock:
  skew_tolerance_seconds: 30
backup:
  cron_time: "1:00 am"
  s3_bucket: my-bucket
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8081 {
		t.Errorf("expected port 8081 from file, got %d", cfg.Server.Port)
	}
	if cfg.Clock.SkewToleranceSeconds != 30 {
		t.Errorf("expected skew tolerance 30, got %d", cfg.Clock.SkewToleranceSeconds)
	}
	if cfg.Backup.S3Bucket != "my-bucket" {
		t.Errorf("expected bucket from file, got %q", cfg.Backup.S3Bucket)
	}
	// Untouched sections keep defaults.
	if cfg.Export.WindowDays != 14 {
		t.Errorf("expected default export window, got %d", cfg.Export.WindowDays)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "9000")
	t.Setenv("SKEW_TOLERANCE_SECONDS", "5")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8081\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected env to win over file, got port %d", cfg.Server.Port)
	}
	if cfg.Clock.SkewToleranceSeconds != 5 {
		t.Errorf("expected env skew tolerance 5, got %d", cfg.Clock.SkewToleranceSeconds)
	}
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("missing config file must not be an error: %v", err)
	}
}

func TestLoad_BadEnvInt(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "not-a-number")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for non-numeric PORT")
	}
}
