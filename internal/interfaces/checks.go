package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookcatalog/internal/audit"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/database"
	"github.com/mrlokans/bookcatalog/internal/database/lookups"
	"github.com/mrlokans/bookcatalog/internal/http"
	"github.com/mrlokans/bookcatalog/internal/metrics"
	"github.com/mrlokans/bookcatalog/internal/seed"
	"github.com/mrlokans/bookcatalog/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Repository implementations
var _ catalog.Repository = (*database.CatalogStore)(nil)

// Pinger implementations
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Write Recorders
// =============================================================================

var _ catalog.Recorder = (*audit.Service)(nil)
var _ catalog.Recorder = (*metrics.Collector)(nil)

// =============================================================================
// Seeding
// =============================================================================

var _ seed.LookupWriter = (*lookups.Repository)(nil)
var _ seed.BookCreator = (*catalog.Service)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
