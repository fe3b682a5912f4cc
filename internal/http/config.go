package http

import (
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookcatalog/internal/audit"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/metrics"
	"github.com/mrlokans/bookcatalog/internal/readonly"
	"github.com/mrlokans/bookcatalog/internal/session"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog  *catalog.Service
	Database Pinger
	Audit    *audit.Service // nil disables /api/audit

	// Optional middleware and collectors
	Sessions      *session.Manager
	CSRFSecret    []byte // empty disables CSRF protection
	SecureCookies bool
	ReadOnly      *readonly.Middleware
	Metrics       *metrics.Collector // nil disables /metrics

	// UI
	TemplatesPath string
	StaticPath    string
	Title         string

	// Application info
	Version string

	Log logrus.FieldLogger
}
