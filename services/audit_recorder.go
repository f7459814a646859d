package services

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/blogem/asset-registry/models"
	"github.com/blogem/asset-registry/repositories"
)

// AuditRecorder writes domain events to the audit log. Sink failures are
// deliberately non-fatal: a state transition must never be rolled back
// because logging failed, so failures are logged and swallowed here.
type AuditRecorder struct {
	logger zerolog.Logger
}

// NewAuditRecorder creates a new audit recorder
func NewAuditRecorder(logger zerolog.Logger) *AuditRecorder {
	return &AuditRecorder{logger: logger}
}

// Record appends one audit entry through the given repository. The
// repository decides the transaction scope: pass a tx-bound repository
// to make the entry part of an enclosing unit of work.
func (a *AuditRecorder) Record(ctx context.Context, repo repositories.AuditRepository, entry *models.AuditLogEntry) {
	if err := repo.Create(ctx, entry); err != nil {
		a.logger.Error().
			Err(err).
			Str("action", entry.Action).
			Str("entity_type", entry.EntityType).
			Str("entity_id", entry.EntityID).
			Msg("failed to write audit log entry")
	}
}

// auditData marshals an audit snapshot to its stored JSON form
func auditData(data map[string]any) string {
	encoded, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}
