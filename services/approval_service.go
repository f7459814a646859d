package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogem/asset-registry/apperrors"
	"github.com/blogem/asset-registry/models"
	"github.com/blogem/asset-registry/repositories"
)

// ApprovalService executes the multi-entity commits of the deletion
// workflow: approving a request deletes its asset, closes the request
// and writes the audit trail in one transaction, and direct asset
// deletion auto-approves any pending request the same way. Either
// everything in the unit of work becomes visible, or none of it does.
type ApprovalService interface {
	Approve(ctx context.Context, requestID, reviewerID, comment string) error
	DeleteAssetDirect(ctx context.Context, assetID, adminID string) error
}

// approvalService implements ApprovalService interface
type approvalService struct {
	db     *sql.DB
	repos  *repositories.Repositories
	gate   AuthorizationGate
	audit  *AuditRecorder
	logger zerolog.Logger
}

// NewApprovalService creates a new approval service
func NewApprovalService(db *sql.DB, repos *repositories.Repositories, gate AuthorizationGate, audit *AuditRecorder, logger zerolog.Logger) ApprovalService {
	return &approvalService{
		db:     db,
		repos:  repos,
		gate:   gate,
		audit:  audit,
		logger: logger,
	}
}

// Approve commits an admin approval: the asset is deleted, the request
// moves to approved with its weak reference nulled, and both audit
// entries are appended, all inside one transaction. Any failure of a
// primary step rolls the whole unit of work back, leaving the asset in
// place and the request pending.
func (s *approvalService) Approve(ctx context.Context, requestID, reviewerID, comment string) error {
	admin, err := s.gate.IsAdmin(ctx, reviewerID)
	if err != nil {
		return apperrors.Database("failed to check reviewer role", err)
	}
	if !admin {
		return apperrors.Unauthorized("only administrators can approve deletion requests")
	}

	reviewer, err := s.repos.User.GetByID(ctx, reviewerID)
	if err != nil {
		return storageError(err, "failed to load reviewer")
	}

	comment = strings.TrimSpace(comment)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Database("failed to begin transaction", err)
	}
	defer tx.Rollback()

	txRepos := s.repos.WithTx(tx)

	// Re-read under the transaction: the pending check and everything
	// after it must observe one consistent state.
	request, err := txRepos.DeletionRequest.GetByID(ctx, requestID)
	if err != nil {
		return storageError(err, "failed to load deletion request")
	}

	if !request.IsPending() {
		return apperrors.Validation("only pending deletion requests can be approved")
	}

	if request.AssetID == nil {
		// A pending request always references a live asset; direct
		// deletion resolves requests in the same transaction that
		// removes the asset.
		return apperrors.Database("pending request has no asset reference", nil)
	}
	assetID := *request.AssetID

	if err := txRepos.Asset.Delete(ctx, assetID); err != nil {
		return storageError(err, "failed to delete asset")
	}

	now := time.Now().UTC()
	transitioned, err := txRepos.DeletionRequest.MarkReviewed(ctx, requestID, repositories.ReviewUpdate{
		Status:        models.StatusApproved,
		ReviewedBy:    reviewer.ID,
		ReviewerEmail: reviewer.Email,
		Comment:       comment,
		ReviewedAt:    now,
		ClearAssetID:  true,
	})
	if err != nil {
		return storageError(err, "failed to approve deletion request")
	}
	if !transitioned {
		return apperrors.Validation("deletion request is no longer pending")
	}

	s.audit.Record(ctx, txRepos.Audit, &models.AuditLogEntry{
		Action:      models.ActionAssetDeleted,
		EntityType:  models.EntityAsset,
		EntityID:    assetID,
		PerformedBy: reviewer.ID,
		EntityData: auditData(map[string]any{
			"asset_id":           assetID,
			"asset_name":         request.AssetName,
			"asset_cost":         request.AssetCost,
			"deleted_via_review": true,
			"request_id":         request.ID,
		}),
	})

	s.audit.Record(ctx, txRepos.Audit, &models.AuditLogEntry{
		Action:      models.ActionRequestApproved,
		EntityType:  models.EntityDeletionRequest,
		EntityID:    request.ID,
		PerformedBy: reviewer.ID,
		EntityData: auditData(map[string]any{
			"request_id":     request.ID,
			"asset_id":       assetID,
			"asset_name":     request.AssetName,
			"review_comment": comment,
		}),
	})

	if err := tx.Commit(); err != nil {
		return apperrors.Database("failed to commit approval", err)
	}

	s.logger.Info().
		Str("request_id", request.ID).
		Str("asset_id", assetID).
		Str("reviewed_by", reviewer.ID).
		Msg("deletion request approved")

	return nil
}

// DeleteAssetDirect deletes an asset without going through request
// review. When a pending request exists for the asset it is
// auto-approved with a sentinel comment in the same transaction, so a
// pending request can never outlive its asset.
func (s *approvalService) DeleteAssetDirect(ctx context.Context, assetID, adminID string) error {
	admin, err := s.gate.IsAdmin(ctx, adminID)
	if err != nil {
		return apperrors.Database("failed to check user role", err)
	}
	if !admin {
		return apperrors.Unauthorized("only administrators can delete assets directly")
	}

	adminUser, err := s.repos.User.GetByID(ctx, adminID)
	if err != nil {
		return storageError(err, "failed to load user")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Database("failed to begin transaction", err)
	}
	defer tx.Rollback()

	txRepos := s.repos.WithTx(tx)

	asset, err := txRepos.Asset.GetByID(ctx, assetID)
	if err != nil {
		return storageError(err, "failed to load asset")
	}

	pending, err := txRepos.DeletionRequest.GetPendingByAssetID(ctx, assetID)
	if err != nil {
		return storageError(err, "failed to check for pending request")
	}

	now := time.Now().UTC()
	if pending != nil {
		transitioned, err := txRepos.DeletionRequest.MarkReviewed(ctx, pending.ID, repositories.ReviewUpdate{
			Status:        models.StatusApproved,
			ReviewedBy:    adminUser.ID,
			ReviewerEmail: adminUser.Email,
			Comment:       models.DirectDeletionComment,
			ReviewedAt:    now,
			ClearAssetID:  true,
		})
		if err != nil {
			return storageError(err, "failed to auto-approve pending request")
		}
		if !transitioned {
			return apperrors.Validation("deletion request state changed, retry the deletion")
		}
	}

	if err := txRepos.Asset.Delete(ctx, assetID); err != nil {
		return storageError(err, "failed to delete asset")
	}

	s.audit.Record(ctx, txRepos.Audit, &models.AuditLogEntry{
		Action:      models.ActionAssetDeleted,
		EntityType:  models.EntityAsset,
		EntityID:    asset.ID,
		PerformedBy: adminUser.ID,
		EntityData: auditData(map[string]any{
			"asset_id":            asset.ID,
			"asset_name":          asset.Name,
			"asset_cost":          asset.Cost,
			"direct_deletion":     true,
			"had_pending_request": pending != nil,
		}),
	})

	if pending != nil {
		s.audit.Record(ctx, txRepos.Audit, &models.AuditLogEntry{
			Action:      models.ActionRequestApproved,
			EntityType:  models.EntityDeletionRequest,
			EntityID:    pending.ID,
			PerformedBy: adminUser.ID,
			EntityData: auditData(map[string]any{
				"request_id":          pending.ID,
				"asset_id":            asset.ID,
				"asset_name":          pending.AssetName,
				"review_comment":      models.DirectDeletionComment,
				"had_pending_request": true,
			}),
		})
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Database("failed to commit asset deletion", err)
	}

	s.logger.Info().
		Str("asset_id", asset.ID).
		Str("deleted_by", adminUser.ID).
		Bool("had_pending_request", pending != nil).
		Msg("asset deleted directly")

	return nil
}
