package models

import "time"

// Audit actions emitted by the deletion workflow. One entry per logical event.
const (
	ActionRequestSubmitted = "deletion_request_submitted"
	ActionRequestCancelled = "deletion_request_cancelled"
	ActionRequestRejected  = "deletion_request_rejected"
	ActionRequestApproved  = "deletion_request_approved"
	ActionAssetDeleted     = "asset_deleted"
)

// Audit entity types
const (
	EntityAsset           = "asset"
	EntityDeletionRequest = "deletion_request"
)

// AuditLogEntry represents a single append-only domain event record.
// Entries are never mutated or deleted once written.
type AuditLogEntry struct {
	ID          int64     `json:"id"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entity_type"`
	EntityID    string    `json:"entity_id"`
	EntityData  string    `json:"entity_data"`
	PerformedBy string    `json:"performed_by"`
	CreatedAt   time.Time `json:"created_at"`
}
