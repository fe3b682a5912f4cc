package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookcatalog/internal/audit"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/database"
	auditRepo "github.com/mrlokans/bookcatalog/internal/database/audit"
)

// openCatalog opens the database at path and builds a catalog service that
// records writes in the audit log like the server does.
func openCatalog(path string, log logrus.FieldLogger, verbose bool) (*database.Database, *catalog.Service, error) {
	level := logger.Silent
	if verbose {
		level = logger.Info
	}

	db, err := database.NewDatabase(path, database.WithSQLLogLevel(level), database.WithLogger(log))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	auditService := audit.NewService(auditRepo.NewRepository(db.DB), log)
	svc := catalog.NewService(db.CatalogStore(),
		catalog.WithRecorders(auditService),
		catalog.WithLogger(log),
	)
	return db, svc, nil
}

// commandLogger writes warnings and errors only, unless verbose is set.
func commandLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
