package audit

import (
	"context"
	"log/slog"

	"github.com/ritheshbalipersad/Document/internal/domain/models"
)

// SlogSink writes audit events to a structured logger. Events carry the
// acting user, the affected folder and before/after field snapshots, so
// the log stream doubles as a change history.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger.With("log", "audit")}
}

func (s *SlogSink) Record(ctx context.Context, event models.AuditEvent) {
	attrs := []any{
		"action", event.Action,
		"actor_id", event.Actor.ID,
		"actor_role", event.Actor.Role,
		"folder_id", event.FolderID,
		"at", event.At,
	}
	if event.Before != nil {
		attrs = append(attrs, "before", event.Before)
	}
	if event.After != nil {
		attrs = append(attrs, "after", event.After)
	}
	s.logger.InfoContext(ctx, "audit event", attrs...)
}
