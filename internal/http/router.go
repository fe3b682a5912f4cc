package http

import (
	"html/template"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookcatalog/internal/requestid"
	"github.com/mrlokans/bookcatalog/internal/session"
)

// templateFuncs are available to every page template.
var templateFuncs = template.FuncMap{
	"selected": func(current, option string) bool {
		return current == option
	},
	"plural": func(n int, singular, plural string) string {
		if n == 1 {
			return singular
		}
		return plural
	},
	"lines": func(s string) []string {
		return strings.Split(s, "\n")
	},
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(requestid.Middleware())
	router.Use(session.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(session.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.Sessions != nil {
		router.Use(cfg.Sessions.LoadSave())
	}
	if cfg.ReadOnly != nil {
		router.Use(cfg.ReadOnly.Handler())
	}

	tmpl := template.Must(template.New("").Funcs(templateFuncs).ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	ui := NewUIController(cfg.Catalog, cfg.Sessions, cfg.Metrics, log, cfg.Title)
	books := NewBooksController(cfg.Catalog, cfg.Metrics, log)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	// Catalog UI
	router.GET("/", ui.CatalogPage)
	router.GET("/books/new", ui.NewBookPage)
	router.POST("/books", ui.CreateBook)
	router.GET("/books/edit", ui.EditBookPage)
	router.POST("/books/:id", ui.UpdateBook)

	// Books API endpoints
	api := router.Group("/api")
	api.GET("/books", books.ListBooks)
	api.POST("/books", books.CreateBook)
	api.GET("/books/:id", books.GetBook)
	api.PUT("/books/:id", books.UpdateBook)
	api.GET("/lookups/:kind", books.GetLookup)
	api.GET("/filters", books.GetFilters)

	if cfg.Audit != nil {
		auditController := NewAuditController(cfg.Audit, log)
		api.GET("/audit", auditController.GetAuditEvents)
	}

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	return router
}
