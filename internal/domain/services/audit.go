package services

import (
	"context"

	"github.com/ritheshbalipersad/Document/internal/domain/models"
)

// AuditSink receives the structured event of every successful mutation.
// The engine produces the payload; the sink decides where it goes.
type AuditSink interface {
	Record(ctx context.Context, event models.AuditEvent)
}
