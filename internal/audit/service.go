package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookcatalog/internal/catalog"
	"github.com/mrlokans/bookcatalog/internal/database/audit"
	"github.com/mrlokans/bookcatalog/internal/entities"
	"github.com/mrlokans/bookcatalog/internal/requestid"
)

const entityBook = "book"

// Service provides high-level audit logging functionality.
type Service struct {
	repo *audit.Repository
	log  logrus.FieldLogger
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{repo: repo, log: log}
}

// Log records a generic audit event. The request id is taken from ctx when
// the event does not carry one.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	if event.RequestID == "" {
		event.RequestID = requestid.FromContext(ctx)
	}
	return s.repo.LogEvent(ctx, event)
}

// RecordMutation stores a successful create or update. Failures are logged
// and never reach the caller; the book itself is already saved.
func (s *Service) RecordMutation(ctx context.Context, m catalog.Mutation) {
	bookID := m.BookID
	event := &entities.AuditEvent{
		EventType:   eventTypeFor(m.Action),
		Action:      "book_" + string(m.Action),
		Description: truncate(describe(m), 500),
		EntityType:  entityBook,
		EntityID:    &bookID,
		Status:      entities.AuditStatusSuccess,
	}
	s.logQuietly(ctx, event)
}

// RecordRejection stores a submission that was refused or failed to save.
func (s *Service) RecordRejection(ctx context.Context, action catalog.MutationAction, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventRejection,
		Action:      "book_" + string(action),
		Description: fmt.Sprintf("Rejected book %s", action),
		EntityType:  entityBook,
		Status:      entities.AuditStatusFailed,
		ErrorMsg:    truncate(err.Error(), 500),
	}

	metadata := map[string]any{"reason": catalog.Reason(err)}
	var vErr *catalog.ValidationError
	if errors.As(err, &vErr) {
		metadata["field"] = vErr.Field
	}
	var rErr *catalog.ResolutionError
	if errors.As(err, &rErr) {
		metadata["kind"] = rErr.Kind
		metadata["label"] = rErr.Label
		metadata["matches"] = rErr.Matches
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	s.logQuietly(ctx, event)
}

// LogCleanup records a retention run.
func (s *Service) LogCleanup(ctx context.Context, deleted int64, retention time.Duration, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCleanup,
		Action:      "audit_cleanup",
		Description: fmt.Sprintf("Deleted %d audit events older than %s", deleted, retention),
		Status:      entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}
	s.logQuietly(ctx, event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, filter audit.Filter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, filter, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

func (s *Service) logQuietly(ctx context.Context, event *entities.AuditEvent) {
	if err := s.Log(ctx, event); err != nil {
		s.log.WithError(err).WithField("action", event.Action).Warn("Failed to log audit event")
	}
}

func eventTypeFor(action catalog.MutationAction) entities.AuditEventType {
	if action == catalog.ActionUpdate {
		return entities.AuditEventUpdate
	}
	return entities.AuditEventCreate
}

func describe(m catalog.Mutation) string {
	switch m.Action {
	case catalog.ActionUpdate:
		return "Updated book: " + m.Title
	default:
		return "Created book: " + m.Title
	}
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
