package tasks

import (
	"time"

	"github.com/mrlokans/bookcatalog/internal/config"
)

const (
	defaultWorkers         = 1
	defaultReleaseAfter    = 15 * time.Minute
	defaultCleanupInterval = time.Hour
)

// Config sizes the worker pool and the bookkeeping of the tasks database.
// Retry and timeout policy belongs to each task type's QueueConfig.
type Config struct {
	Workers         int
	ReleaseAfter    time.Duration // stuck tasks are handed back to the queue after this
	CleanupInterval time.Duration // how often finished tasks are purged
}

// FromSettings builds a Config from the TASK_* settings. Unset or
// non-positive values fall back to one worker, 15m and 1h.
func FromSettings(s config.Tasks) Config {
	cfg := Config{
		Workers:         s.Workers,
		ReleaseAfter:    s.ReleaseAfter,
		CleanupInterval: s.CleanupInterval,
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.ReleaseAfter <= 0 {
		cfg.ReleaseAfter = defaultReleaseAfter
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaultCleanupInterval
	}
	return cfg
}
