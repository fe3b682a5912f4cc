package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CleanupFunc performs or enqueues one audit retention run.
type CleanupFunc func(ctx context.Context) error

// AuditRetentionScheduler triggers audit event cleanup on a cron schedule.
type AuditRetentionScheduler struct {
	schedule string
	run      CleanupFunc
	log      logrus.FieldLogger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
	done       chan struct{}
}

// NewAuditRetentionScheduler creates a new scheduler instance
func NewAuditRetentionScheduler(schedule string, run CleanupFunc, log logrus.FieldLogger) *AuditRetentionScheduler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AuditRetentionScheduler{
		schedule: schedule,
		run:      run,
		log:      log.WithField("component", "audit_retention"),
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start registers the cleanup job and starts the cron loop. The scheduler
// stops by itself when ctx is cancelled.
func (s *AuditRetentionScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.trigger(cancelCtx)
	})
	if err != nil {
		s.cancelFunc()
		return fmt.Errorf("failed to schedule audit cleanup: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.schedule, time.Now())
	s.log.WithFields(logrus.Fields{
		"schedule": s.schedule,
		"next_run": nextRun,
	}).Infof("Audit retention scheduler started (%s)", GetCronDescription(s.schedule))

	done := make(chan struct{})
	s.done = done
	go func() {
		select {
		case <-cancelCtx.Done():
			s.stop(done)
		case <-done:
		}
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *AuditRetentionScheduler) Stop() {
	s.stop(nil)
}

// stop ends the run identified by done, or the current run when done is nil.
func (s *AuditRetentionScheduler) stop(done chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning || (done != nil && done != s.done) {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron.Remove(s.entryID)
	s.entryID = 0

	close(s.done)
	s.cancelFunc()
	s.isRunning = false
	s.cancelFunc = nil
	s.done = nil

	s.log.Info("Audit retention scheduler stopped")
}

// RunNow triggers a cleanup immediately, outside the schedule.
func (s *AuditRetentionScheduler) RunNow(ctx context.Context) error {
	return s.run(ctx)
}

// IsRunning returns whether the scheduler is active
func (s *AuditRetentionScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next cleanup will occur
func (s *AuditRetentionScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *AuditRetentionScheduler) trigger(ctx context.Context) {
	if err := s.run(ctx); err != nil {
		s.log.WithError(err).Error("Audit cleanup failed")
	}
}
