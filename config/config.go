package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/lorbeafus/Listas-y-Notas/attendance"
	"github.com/lorbeafus/Listas-y-Notas/helper"
)

type Config struct {
	// Server
	Addr string

	// Database
	DBPath string

	// Calendar
	Location *time.Location
	Scheme   attendance.Scheme

	// Logging
	LogLevel  slog.Level
	LogFormat string

	// Uploads
	MaxUploadBytes int64

	// Export archive (Backblaze B2), enabled when all three are set
	B2KeyID  string
	B2AppKey string
	B2Bucket string

	// Scheduled snapshots, off when BackupSchedule is empty
	BackupSchedule string
	BackupDir      string
	BackupKeep     int

	// Prometheus endpoint on /metrics
	MetricsEnabled bool
}

// ArchiveEnabled reports whether exports are also uploaded to B2.
func (c *Config) ArchiveEnabled() bool {
	return c.B2KeyID != "" && c.B2AppKey != "" && c.B2Bucket != ""
}

// Load reads the optional dotenv file named by ENV_FILE (".env" by default)
// and then the environment.
func Load() (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	config := &Config{
		Addr:      getEnv("ADDR", "127.0.0.1:3000"),
		DBPath:    getEnv("DB_PATH", "data/gradebook.db"),
		LogFormat: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		B2KeyID:   os.Getenv("B2_KEY_ID"),
		B2AppKey:  os.Getenv("B2_APP_KEY"),
		B2Bucket:  os.Getenv("B2_BUCKET"),

		BackupSchedule: os.Getenv("BACKUP_SCHEDULE"),
		BackupDir:      getEnv("BACKUP_DIR", "data/backups"),
	}

	loc, err := helper.LoadLocation(getEnv("TIMEZONE", "America/Argentina/Buenos_Aires"))
	if err != nil {
		return nil, err
	}
	config.Location = loc

	scheme, ok := attendance.ParseScheme(getEnv("CALENDAR_SCHEME", string(attendance.SchemeWeekdays)))
	if !ok {
		return nil, fmt.Errorf("CALENDAR_SCHEME must be %q or %q", attendance.SchemeWeekdays, attendance.SchemeDays)
	}
	config.Scheme = scheme

	if err := config.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if config.LogFormat != "text" && config.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", config.LogFormat)
	}

	maxMB, err := strconv.ParseInt(getEnv("MAX_UPLOAD_MB", "10"), 10, 64)
	if err != nil || maxMB <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_MB must be a positive integer")
	}
	config.MaxUploadBytes = maxMB << 20

	keep, err := strconv.Atoi(getEnv("BACKUP_KEEP", "14"))
	if err != nil || keep < 0 {
		return nil, fmt.Errorf("BACKUP_KEEP must be zero or a positive integer")
	}
	config.BackupKeep = keep

	config.MetricsEnabled, err = strconv.ParseBool(getEnv("METRICS_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("METRICS_ENABLED: %w", err)
	}

	return config, nil
}

// Logger builds the process logger from the logging settings.
func (c *Config) Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
