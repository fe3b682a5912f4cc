package config

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		UI
		Log
		Session
		CSRF
		ReadOnly
		Audit
		Tasks
		Metrics
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	UI struct {
		TemplatesPath string
		StaticPath    string
		Title         string
	}
	Log struct {
		Level  string // logrus level name: debug, info, warn, error
		Format string // "text" or "json"
	}
	Session struct {
		Lifetime      time.Duration
		SecureCookies bool // Set to false for local dev without HTTPS
	}
	CSRF struct {
		Enabled bool
		Key     string // 32 bytes; generated at startup when empty
	}
	ReadOnly struct {
		Enabled bool // Reject every write with 403
	}
	Audit struct {
		Enabled         bool
		RetentionDays   int    // Days to keep audit events (default: 90)
		CleanupSchedule string // Cron format
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Metrics struct {
		Enabled bool
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")
	v.SetDefault("ui_title", "Book Catalog")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	// Session and CSRF defaults
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("secure_cookies", false) // local tool, usually served over plain HTTP
	v.SetDefault("csrf_enabled", true)
	v.SetDefault("csrf_key", "") // Auto-generated if empty

	v.SetDefault("read_only", false)

	// Audit defaults
	v.SetDefault("audit_enabled", true)
	v.SetDefault("audit_retention_days", 90)
	v.SetDefault("audit_cleanup_schedule", DefaultAuditCleanupSchedule)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("metrics_enabled", true)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
			Title:         v.GetString("UI_TITLE"),
		},
		Log: Log{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Session: Session{
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
		},
		CSRF: CSRF{
			Enabled: v.GetBool("CSRF_ENABLED"),
			Key:     v.GetString("CSRF_KEY"),
		},
		ReadOnly: ReadOnly{
			Enabled: v.GetBool("READ_ONLY"),
		},
		Audit: Audit{
			Enabled:         v.GetBool("AUDIT_ENABLED"),
			RetentionDays:   v.GetInt("AUDIT_RETENTION_DAYS"),
			CleanupSchedule: v.GetString("AUDIT_CLEANUP_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
	}
}

// ConfigureLogger applies the log level and format to logger. An unknown
// level falls back to info.
func (c *Config) ConfigureLogger(logger *logrus.Logger) {
	level, err := logrus.ParseLevel(c.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if c.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// AuditRetention converts RetentionDays into a duration.
func (c *Config) AuditRetention() time.Duration {
	return time.Duration(c.Audit.RetentionDays) * 24 * time.Hour
}
