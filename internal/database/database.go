package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookcatalog/internal/entities"
)

// Reading statuses created when the status table is empty.
var defaultStatuses = []entities.Status{
	{Name: "Unread"},
	{Name: "Reading"},
	{Name: "Read"},
}

type Database struct {
	DB *gorm.DB
}

type options struct {
	logLevel logger.LogLevel
	log      logrus.FieldLogger
}

type Option func(*options)

// WithSQLLogLevel sets the gorm SQL logger level. Defaults to Warn.
func WithSQLLogLevel(level logger.LogLevel) Option {
	return func(o *options) {
		o.logLevel = level
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		o.log = log
	}
}

// NewDatabase opens the SQLite catalog at dbPath, creates any missing tables
// and seeds the default reading statuses. Existing tables are left as they
// are; no migration of existing data is attempted.
func NewDatabase(dbPath string, opts ...Option) (*Database, error) {
	o := options{logLevel: logger.Warn, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(o.logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createMissingTables(db); err != nil {
		return nil, err
	}

	database := &Database{DB: db}

	if err := database.seedStatuses(o.log); err != nil {
		return nil, fmt.Errorf("failed to seed statuses: %w", err)
	}

	o.log.WithField("path", dbPath).Info("Database initialized")

	return database, nil
}

// bootstrapModels are created, in this order, when their table is missing.
var bootstrapModels = []interface{}{
	&entities.Author{},
	&entities.Language{},
	&entities.Owner{},
	&entities.Status{},
	&entities.Book{},
	&entities.AuditEvent{},
}

func createMissingTables(db *gorm.DB) error {
	for _, model := range bootstrapModels {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return fmt.Errorf("failed to parse model: %w", err)
		}
		table := stmt.Schema.Table

		exists, err := hasTable(db, table)
		if err != nil {
			return fmt.Errorf("failed to inspect table %s: %w", table, err)
		}
		if exists {
			continue
		}
		if err := db.Migrator().CreateTable(model); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// hasTable compares names case-insensitively since SQLite resolves BOOK and
// book to the same table. The gorm migrator compares them exactly.
func hasTable(db *gorm.DB, name string) (bool, error) {
	var count int64
	err := db.Raw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ? COLLATE NOCASE", name).Scan(&count).Error
	return count > 0, err
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection is usable.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) seedStatuses(log logrus.FieldLogger) error {
	var count int64
	if err := d.DB.Model(&entities.Status{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, status := range defaultStatuses {
		status := status
		if err := d.DB.Create(&status).Error; err != nil {
			return fmt.Errorf("failed to create status %s: %w", status.Name, err)
		}
		log.WithField("status", status.Name).Debug("Created status")
	}
	return nil
}

