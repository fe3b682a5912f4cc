package config

const (
	// DefaultDatabasePath is the catalog file opened when DATABASE_PATH is unset
	DefaultDatabasePath = "./books.db"

	// DefaultAuditCleanupSchedule runs retention cleanup daily at 03:00
	DefaultAuditCleanupSchedule = "0 3 * * *"
)
