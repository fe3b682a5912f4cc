package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookcatalog/internal/audit"
	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	auditRepo "github.com/mrlokans/bookcatalog/internal/database/audit"
	http_controllers "github.com/mrlokans/bookcatalog/internal/http"
	"github.com/mrlokans/bookcatalog/internal/metrics"
	"github.com/mrlokans/bookcatalog/internal/readonly"
	"github.com/mrlokans/bookcatalog/internal/scheduler"
	"github.com/mrlokans/bookcatalog/internal/session"
	"github.com/mrlokans/bookcatalog/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, log logrus.FieldLogger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Infof("Starting server at %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s", err)
		}
	}()

	// kill -2 is SIGINT, plain kill sends SIGTERM; SIGKILL cannot be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infof("Shutting down server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Background work stops before the listener so no task outlives the database.
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server shutdown: %v", err)
	}

	log.Info("Server exiting")
}

// Run wires the catalog, its recorders and the background retention job,
// then serves the browser and JSON interfaces.
func Run(cfg *config.Config, version string) {
	log := logrus.New()
	cfg.ConfigureLogger(log)
	log.Infof("Starting Book Catalog v%s", version)

	sqlLevel := logger.Warn
	if log.IsLevelEnabled(logrus.DebugLevel) {
		sqlLevel = logger.Info
	}

	db, err := database.NewDatabase(cfg.Database.Path,
		database.WithSQLLogLevel(sqlLevel),
		database.WithLogger(log),
	)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Errorf("Error closing database: %v", err)
		}
	}()

	var recorders []catalog.Recorder

	var auditService *audit.Service
	if cfg.Audit.Enabled {
		auditService = audit.NewService(auditRepo.NewRepository(db.DB), log)
		recorders = append(recorders, auditService)
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
		recorders = append(recorders, collector)
	}

	catalogService := catalog.NewService(db.CatalogStore(),
		catalog.WithRecorders(recorders...),
		catalog.WithLogger(log),
	)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessions, err := session.NewManager(sqlDB, cfg.Session)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	var csrfSecret []byte
	if cfg.CSRF.Enabled {
		csrfSecret, err = session.CSRFKey(cfg.CSRF.Key)
		if err != nil {
			log.Fatalf("Invalid CSRF key: %v", err)
		}
		if cfg.CSRF.Key == "" {
			log.Info("Generated CSRF key (set CSRF_KEY to keep forms valid across restarts)")
		}
	}

	if cfg.ReadOnly.Enabled {
		log.Info("Read-only mode enabled - write operations will be blocked")
	}

	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled && auditService != nil {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.FromSettings(cfg.Tasks), log)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Errorf("Error closing task client: %v", err)
			}
		}()

		observers := []tasks.CleanupObserver{auditService.LogCleanup}
		if collector != nil {
			observers = append(observers, func(_ context.Context, deleted int64, _ time.Duration, err error) {
				if err == nil {
					collector.AuditEventsDeleted(deleted)
				}
			})
		}
		taskClient.Register(tasks.NewCleanupAuditEventsQueue(auditService, log, observers...))

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	var retention *scheduler.AuditRetentionScheduler
	if auditService != nil {
		if err := scheduler.ValidateCronSchedule(cfg.Audit.CleanupSchedule); err != nil {
			log.Warnf("Invalid AUDIT_CLEANUP_SCHEDULE %q, using %q: %v", cfg.Audit.CleanupSchedule, config.DefaultAuditCleanupSchedule, err)
			cfg.Audit.CleanupSchedule = config.DefaultAuditCleanupSchedule
		}
		retention = scheduler.NewAuditRetentionScheduler(cfg.Audit.CleanupSchedule,
			retentionRun(cfg, auditService, collector, taskClient), log)
		if err := retention.Start(context.Background()); err != nil {
			log.Errorf("Audit retention disabled: %v", err)
			retention = nil
		} else {
			log.Infof("Audit retention: %s, keeping %d days", scheduler.GetCronDescription(cfg.Audit.CleanupSchedule), cfg.Audit.RetentionDays)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Catalog:       catalogService,
		Database:      db,
		Audit:         auditService,
		Sessions:      sessions,
		CSRFSecret:    csrfSecret,
		SecureCookies: cfg.Session.SecureCookies,
		ReadOnly:      readonly.NewMiddleware(cfg.ReadOnly.Enabled),
		Metrics:       collector,
		TemplatesPath: cfg.UI.TemplatesPath,
		StaticPath:    cfg.UI.StaticPath,
		Title:         cfg.UI.Title,
		Version:       version,
		Log:           log,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if retention != nil {
			retention.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, log, onShutdown)
}

// retentionRun enqueues a cleanup task when the queue is running and
// otherwise deletes expired audit events inline.
func retentionRun(cfg *config.Config, auditService *audit.Service, collector *metrics.Collector, taskClient *tasks.Client) scheduler.CleanupFunc {
	if taskClient != nil {
		return func(ctx context.Context) error {
			_, err := taskClient.Add(tasks.CleanupAuditEventsTask{RetentionDays: cfg.Audit.RetentionDays}).Save()
			return err
		}
	}
	return func(ctx context.Context) error {
		retention := cfg.AuditRetention()
		deleted, err := auditService.DeleteOldEvents(ctx, retention)
		auditService.LogCleanup(ctx, deleted, retention, err)
		if err != nil {
			return err
		}
		if collector != nil {
			collector.AuditEventsDeleted(deleted)
		}
		return nil
	}
}
