package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, "./templates", cfg.UI.TemplatesPath)
	assert.False(t, cfg.ReadOnly.Enabled)
	assert.True(t, cfg.CSRF.Enabled)
	assert.Equal(t, 24*time.Hour, cfg.Session.Lifetime)
	assert.Equal(t, 90, cfg.Audit.RetentionDays)
	assert.Equal(t, DefaultAuditCleanupSchedule, cfg.Audit.CleanupSchedule)
	assert.Equal(t, 1, cfg.Tasks.Workers)
	assert.Equal(t, 15*time.Minute, cfg.Tasks.ReleaseAfter)
}

func TestNewConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_PATH", "/data/catalog.db")
	t.Setenv("READ_ONLY", "true")
	t.Setenv("AUDIT_RETENTION_DAYS", "7")
	t.Setenv("SESSION_LIFETIME", "30m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, "/data/catalog.db", cfg.Database.Path)
	assert.True(t, cfg.ReadOnly.Enabled)
	assert.Equal(t, 7*24*time.Hour, cfg.AuditRetention())
	assert.Equal(t, 30*time.Minute, cfg.Session.Lifetime)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestConfigureLogger(t *testing.T) {
	logger := logrus.New()

	cfg := &Config{Log: Log{Level: "warn", Format: "json"}}
	cfg.ConfigureLogger(logger)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	cfg = &Config{Log: Log{Level: "nonsense"}}
	cfg.ConfigureLogger(logger)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}
