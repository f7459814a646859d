package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogem/asset-registry/apperrors"
	"github.com/blogem/asset-registry/models"
	"github.com/blogem/asset-registry/repositories"
)

// DeletionRequestService interface defines the deletion request state
// machine: submission plus the two terminal transitions that do not
// touch the asset (cancel, reject). Approval lives in ApprovalService
// because it deletes the asset in the same unit of work.
type DeletionRequestService interface {
	Submit(ctx context.Context, assetID, justification, requesterID string) (*models.DeletionRequest, error)
	Cancel(ctx context.Context, requestID, callerID string) error
	Reject(ctx context.Context, requestID, reviewerID, comment string) error
	GetByID(ctx context.Context, requestID string) (*models.DeletionRequest, error)
	GetForAsset(ctx context.Context, assetID string) (*models.DeletionRequest, error)
	List(ctx context.Context, status string, page, pageSize int) (*models.DeletionRequestPage, error)
}

// deletionRequestService implements DeletionRequestService interface
type deletionRequestService struct {
	repos  *repositories.Repositories
	gate   AuthorizationGate
	audit  *AuditRecorder
	logger zerolog.Logger
}

// NewDeletionRequestService creates a new deletion request service
func NewDeletionRequestService(repos *repositories.Repositories, gate AuthorizationGate, audit *AuditRecorder, logger zerolog.Logger) DeletionRequestService {
	return &deletionRequestService{
		repos:  repos,
		gate:   gate,
		audit:  audit,
		logger: logger,
	}
}

// Submit creates a pending deletion request for an asset. The asset's
// name and cost are snapshotted at this point and never updated again,
// even after the asset itself is deleted.
func (s *deletionRequestService) Submit(ctx context.Context, assetID, justification, requesterID string) (*models.DeletionRequest, error) {
	justification = strings.TrimSpace(justification)
	form := models.DeletionRequestForm{Justification: justification}
	if errs := form.Validate(); len(errs) > 0 {
		return nil, apperrors.ValidationField("justification", errs[0])
	}

	asset, err := s.repos.Asset.GetByID(ctx, assetID)
	if err != nil {
		return nil, storageError(err, "failed to load asset")
	}

	owner, err := s.gate.IsOwner(ctx, assetID, requesterID)
	if err != nil {
		return nil, apperrors.Database("failed to check ownership", err)
	}
	if !owner {
		return nil, apperrors.Unauthorized("only the asset owner can request its deletion")
	}

	requester, err := s.repos.User.GetByID(ctx, requesterID)
	if err != nil {
		return nil, storageError(err, "failed to load requester")
	}

	// Advisory pre-check for a friendlier error. The unique index over
	// pending rows is what actually closes the race window.
	existing, err := s.repos.DeletionRequest.GetPendingByAssetID(ctx, assetID)
	if err != nil {
		return nil, storageError(err, "failed to check for pending request")
	}
	if existing != nil {
		return nil, apperrors.Conflict("a pending deletion request already exists for this asset")
	}

	request := &models.DeletionRequest{
		AssetID:        &asset.ID,
		AssetName:      asset.Name,
		AssetCost:      asset.Cost,
		RequestedBy:    requester.ID,
		RequesterEmail: requester.Email,
		Justification:  justification,
		Status:         models.StatusPending,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.repos.DeletionRequest.Create(ctx, request); err != nil {
		return nil, storageError(err, "failed to create deletion request")
	}

	s.audit.Record(ctx, s.repos.Audit, &models.AuditLogEntry{
		Action:      models.ActionRequestSubmitted,
		EntityType:  models.EntityDeletionRequest,
		EntityID:    request.ID,
		PerformedBy: requester.ID,
		EntityData: auditData(map[string]any{
			"request_id":    request.ID,
			"asset_id":      asset.ID,
			"asset_name":    asset.Name,
			"asset_cost":    asset.Cost,
			"justification": justification,
		}),
	})

	return request, nil
}

// Cancel transitions a pending request to cancelled. Only the original
// requester may cancel, and only while the request is still pending.
func (s *deletionRequestService) Cancel(ctx context.Context, requestID, callerID string) error {
	request, err := s.repos.DeletionRequest.GetByID(ctx, requestID)
	if err != nil {
		return storageError(err, "failed to load deletion request")
	}

	if request.RequestedBy != callerID {
		return apperrors.Unauthorized("only the requester can cancel a deletion request")
	}

	if !request.IsPending() {
		return apperrors.Validation("only pending deletion requests can be cancelled")
	}

	transitioned, err := s.repos.DeletionRequest.MarkCancelled(ctx, requestID)
	if err != nil {
		return storageError(err, "failed to cancel deletion request")
	}
	if !transitioned {
		// Lost a race against a concurrent reviewer or canceller.
		return apperrors.Validation("deletion request is no longer pending")
	}

	s.audit.Record(ctx, s.repos.Audit, &models.AuditLogEntry{
		Action:      models.ActionRequestCancelled,
		EntityType:  models.EntityDeletionRequest,
		EntityID:    request.ID,
		PerformedBy: callerID,
		EntityData: auditData(map[string]any{
			"request_id": request.ID,
			"asset_id":   request.AssetID,
			"asset_name": request.AssetName,
		}),
	})

	return nil
}

// Reject transitions a pending request to rejected. Only admins may
// reject, a review comment is required, and the asset is left untouched.
func (s *deletionRequestService) Reject(ctx context.Context, requestID, reviewerID, comment string) error {
	admin, err := s.gate.IsAdmin(ctx, reviewerID)
	if err != nil {
		return apperrors.Database("failed to check reviewer role", err)
	}
	if !admin {
		return apperrors.Unauthorized("only administrators can reject deletion requests")
	}

	comment = strings.TrimSpace(comment)
	if comment == "" {
		return apperrors.ValidationField("comment", "a review comment is required when rejecting")
	}

	request, err := s.repos.DeletionRequest.GetByID(ctx, requestID)
	if err != nil {
		return storageError(err, "failed to load deletion request")
	}

	if !request.IsPending() {
		return apperrors.Validation("only pending deletion requests can be rejected")
	}

	reviewer, err := s.repos.User.GetByID(ctx, reviewerID)
	if err != nil {
		return storageError(err, "failed to load reviewer")
	}

	transitioned, err := s.repos.DeletionRequest.MarkReviewed(ctx, requestID, repositories.ReviewUpdate{
		Status:        models.StatusRejected,
		ReviewedBy:    reviewer.ID,
		ReviewerEmail: reviewer.Email,
		Comment:       comment,
		ReviewedAt:    time.Now().UTC(),
	})
	if err != nil {
		return storageError(err, "failed to reject deletion request")
	}
	if !transitioned {
		return apperrors.Validation("deletion request is no longer pending")
	}

	s.audit.Record(ctx, s.repos.Audit, &models.AuditLogEntry{
		Action:      models.ActionRequestRejected,
		EntityType:  models.EntityDeletionRequest,
		EntityID:    request.ID,
		PerformedBy: reviewer.ID,
		EntityData: auditData(map[string]any{
			"request_id":     request.ID,
			"asset_id":       request.AssetID,
			"asset_name":     request.AssetName,
			"asset_cost":     request.AssetCost,
			"review_comment": comment,
		}),
	})

	return nil
}

// GetByID retrieves a deletion request by ID
func (s *deletionRequestService) GetByID(ctx context.Context, requestID string) (*models.DeletionRequest, error) {
	request, err := s.repos.DeletionRequest.GetByID(ctx, requestID)
	if err != nil {
		return nil, storageError(err, "failed to load deletion request")
	}
	return request, nil
}

// GetForAsset retrieves the pending request for an asset, or nil when
// the asset has no open request.
func (s *deletionRequestService) GetForAsset(ctx context.Context, assetID string) (*models.DeletionRequest, error) {
	request, err := s.repos.DeletionRequest.GetPendingByAssetID(ctx, assetID)
	if err != nil {
		return nil, storageError(err, "failed to load pending request")
	}
	return request, nil
}

// List retrieves a page of deletion requests, optionally filtered by status
func (s *deletionRequestService) List(ctx context.Context, status string, page, pageSize int) (*models.DeletionRequestPage, error) {
	if status != "" && !validStatus(status) {
		return nil, apperrors.ValidationField("status", "unknown status filter: "+status)
	}

	page, pageSize = models.NormalizePage(page, pageSize)

	items, total, err := s.repos.DeletionRequest.List(ctx, status, page, pageSize)
	if err != nil {
		return nil, storageError(err, "failed to list deletion requests")
	}

	if items == nil {
		items = []models.DeletionRequest{}
	}

	return &models.DeletionRequestPage{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: models.TotalPages(total, pageSize),
	}, nil
}

// validStatus reports whether s is a known deletion request status
func validStatus(s string) bool {
	switch s {
	case models.StatusPending, models.StatusApproved, models.StatusRejected, models.StatusCancelled:
		return true
	}
	return false
}

// storageError passes typed application errors through untouched and
// wraps anything else as a DATABASE_ERROR.
func storageError(err error, message string) error {
	if apperrors.CodeOf(err) != apperrors.CodeUnknown {
		return err
	}
	return apperrors.Database(message, err)
}
