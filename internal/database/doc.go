// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, table bootstrap, status seeding
//	├── catalog.go       # CatalogStore: books + lookups behind catalog.Repository
//	├── books/           # Catalog join query, create and edit writes
//	├── lookups/         # Author, language, owner and status tables
//	└── audit/           # Audit event persistence and retention
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.NewDatabase("./books.db")
//
//	store := db.CatalogStore()
//	svc := catalog.NewService(store)
//
//	auditRepo := audit.NewRepository(db.DB)
//
// # Connections
//
// Every repository call borrows a connection from the pool for the length of
// that call only (gorm's Connection helper) and never holds state between
// calls. Writes are single statements in autocommit mode.
//
// # Schema
//
// Table and column names are fixed by existing catalog files. NewDatabase
// only creates missing tables; it never alters existing data.
package database
