package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorbeafus/Listas-y-Notas/attendance"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ADDR", "DB_PATH", "TIMEZONE", "CALENDAR_SCHEME", "LOG_LEVEL", "LOG_FORMAT", "MAX_UPLOAD_MB", "B2_KEY_ID", "B2_APP_KEY", "B2_BUCKET", "BACKUP_SCHEDULE", "BACKUP_DIR", "BACKUP_KEEP", "METRICS_ENABLED"} {
		t.Setenv(key, "")
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:3000", cfg.Addr)
	assert.Equal(t, "data/gradebook.db", cfg.DBPath)
	assert.Equal(t, "America/Argentina/Buenos_Aires", cfg.Location.String())
	assert.Equal(t, attendance.SchemeWeekdays, cfg.Scheme)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.False(t, cfg.ArchiveEnabled())
	assert.Empty(t, cfg.BackupSchedule)
	assert.Equal(t, "data/backups", cfg.BackupDir)
	assert.Equal(t, 14, cfg.BackupKeep)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadReadsDotenvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CALENDAR_SCHEME=days\nLOG_LEVEL=debug\nB2_KEY_ID=k\nB2_APP_KEY=s\nB2_BUCKET=b\n"), 0600))
	t.Setenv("ENV_FILE", path)
	// godotenv never overrides a variable that is already set, even to ""
	for _, key := range []string{"CALENDAR_SCHEME", "LOG_LEVEL", "B2_KEY_ID", "B2_APP_KEY", "B2_BUCKET"} {
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, attendance.SchemeDays, cfg.Scheme)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.ArchiveEnabled())
}

func TestLoadRejectsBadValues(t *testing.T) {
	for key, value := range map[string]string{
		"CALENDAR_SCHEME": "monthly",
		"TIMEZONE":        "Mars/Olympus",
		"LOG_LEVEL":       "loud",
		"LOG_FORMAT":      "xml",
		"MAX_UPLOAD_MB":   "-1",
		"BACKUP_KEEP":     "many",
		"METRICS_ENABLED": "sometimes",
	} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
