package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/blogem/asset-registry/models"
)

// AuditRepository handles append-only audit log persistence. Entries are
// never updated or deleted by this subsystem.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLogEntry) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]models.AuditLogEntry, error)
}

type sqliteAuditRepository struct {
	db DBTX
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db DBTX) AuditRepository {
	return &sqliteAuditRepository{db: db}
}

// Create inserts a new audit log entry
func (r *sqliteAuditRepository) Create(ctx context.Context, entry *models.AuditLogEntry) error {
	query := `
		INSERT INTO audit_log (action, entity_type, entity_id, entity_data, performed_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.EntityData == "" {
		entry.EntityData = "{}"
	}

	result, err := r.db.ExecContext(ctx, query,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.EntityData,
		entry.PerformedBy,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted ID: %w", err)
	}
	entry.ID = id

	return nil
}

// ListByEntity retrieves audit entries for one entity, oldest first
func (r *sqliteAuditRepository) ListByEntity(ctx context.Context, entityType, entityID string) ([]models.AuditLogEntry, error) {
	query := `
		SELECT id, action, entity_type, entity_id, entity_data, performed_by, created_at
		FROM audit_log
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditLogEntry
	for rows.Next() {
		var entry models.AuditLogEntry
		err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&entry.EntityType,
			&entry.EntityID,
			&entry.EntityData,
			&entry.PerformedBy,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log: %w", err)
	}

	return entries, nil
}
