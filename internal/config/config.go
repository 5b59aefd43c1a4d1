package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Clock    ClockConfig    `yaml:"clock"`
	Export   ExportConfig   `yaml:"export"`
	Backup   BackupConfig   `yaml:"backup"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig holds the SQLite file location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// JWTConfig holds session token signing configuration.
type JWTConfig struct {
	Secret   string `yaml:"secret"`
	TTLHours int    `yaml:"ttl_hours"`
}

// ClockConfig holds clock action validation settings.
type ClockConfig struct {
	// Maximum allowed difference, in seconds, between the client-reported
	// timestamp and the server clock for a clock action to be accepted.
	SkewToleranceSeconds int `yaml:"skew_tolerance_seconds"`
}

// ExportConfig holds attendance report settings.
type ExportConfig struct {
	Dir        string `yaml:"dir"`
	WindowDays int    `yaml:"window_days"`
}

// BackupConfig holds the daily backup schedule and S3 destination.
type BackupConfig struct {
	// Time of day in "h:mm am/pm" form, e.g. "11:30 pm".
	CronTime     string `yaml:"cron_time"`
	S3Bucket     string `yaml:"s3_bucket"`
	S3Prefix     string `yaml:"s3_prefix"`
	AWSRegion    string `yaml:"aws_region"`
	AWSAccessKey string `yaml:"aws_access_key"`
	AWSSecretKey string `yaml:"aws_secret_key"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and applies environment
// overrides on top. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: 3000},
		Database: DatabaseConfig{Path: "./db/sqlite.db"},
		JWT:      JWTConfig{TTLHours: 24},
		Clock:    ClockConfig{SkewToleranceSeconds: 10},
		Export:   ExportConfig{Dir: "./exports", WindowDays: 14},
		Backup:   BackupConfig{CronTime: "11:30 pm", S3Prefix: "timeclock-backups", AWSRegion: "us-east-1"},
		Log:      LogConfig{Level: "info"},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Host = getEnv("HOST", c.Server.Host)
	c.Database.Path = getEnv("DATABASE_PATH", c.Database.Path)
	c.JWT.Secret = getEnv("JWT_SECRET", c.JWT.Secret)
	c.Export.Dir = getEnv("EXPORT_DIR", c.Export.Dir)
	c.Backup.CronTime = getEnv("CRON_TIME", c.Backup.CronTime)
	c.Backup.S3Bucket = getEnv("S3_BUCKET", c.Backup.S3Bucket)
	c.Backup.S3Prefix = getEnv("S3_PREFIX", c.Backup.S3Prefix)
	c.Backup.AWSRegion = getEnv("AWS_REGION", c.Backup.AWSRegion)
	c.Backup.AWSAccessKey = getEnv("AWS_ACCESS_KEY_ID", c.Backup.AWSAccessKey)
	c.Backup.AWSSecretKey = getEnv("AWS_SECRET_ACCESS_KEY", c.Backup.AWSSecretKey)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)

	var err error
	if c.Server.Port, err = getEnvInt("PORT", c.Server.Port); err != nil {
		return err
	}
	if c.JWT.TTLHours, err = getEnvInt("TOKEN_TTL_HOURS", c.JWT.TTLHours); err != nil {
		return err
	}
	if c.Clock.SkewToleranceSeconds, err = getEnvInt("SKEW_TOLERANCE_SECONDS", c.Clock.SkewToleranceSeconds); err != nil {
		return err
	}
	if c.Export.WindowDays, err = getEnvInt("EXPORT_WINDOW_DAYS", c.Export.WindowDays); err != nil {
		return err
	}
	return nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return n, nil
}
