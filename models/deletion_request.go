package models

import (
	"fmt"
	"strings"
	"time"
)

// Deletion request statuses. A request starts out pending and moves to
// exactly one of the terminal states; terminal states never change again.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// MinJustificationLength is the minimum number of characters (after
// trimming) a requester must provide when asking for an asset deletion.
const MinJustificationLength = 10

// DirectDeletionComment is stamped on a pending request that gets
// auto-approved because an administrator deleted its asset directly.
const DirectDeletionComment = "Asset deleted directly by administrator"

// DeletionRequest represents a request to delete an asset, awaiting or
// past admin review. AssetName and AssetCost are snapshots taken at
// submission time; they survive deletion of the asset itself, at which
// point AssetID becomes nil.
type DeletionRequest struct {
	ID             string     `json:"id" db:"id"`
	AssetID        *string    `json:"asset_id" db:"asset_id"`
	AssetName      string     `json:"asset_name" db:"asset_name"`
	AssetCost      float64    `json:"asset_cost" db:"asset_cost"`
	RequestedBy    string     `json:"requested_by" db:"requested_by"`
	RequesterEmail string     `json:"requester_email" db:"requester_email"`
	Justification  string     `json:"justification" db:"justification"`
	Status         string     `json:"status" db:"status"`
	ReviewedBy     *string    `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewerEmail  *string    `json:"reviewer_email,omitempty" db:"reviewer_email"`
	ReviewComment  *string    `json:"review_comment,omitempty" db:"review_comment"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// IsPending reports whether the request is still awaiting review.
func (r *DeletionRequest) IsPending() bool {
	return r.Status == StatusPending
}

// DeletionRequestForm represents form data for submitting a deletion request
type DeletionRequestForm struct {
	Justification string `json:"justification"`
}

// Validate validates the deletion request form data
func (f *DeletionRequestForm) Validate() []string {
	var errors []string

	justification := strings.TrimSpace(f.Justification)
	if len(justification) < MinJustificationLength {
		errors = append(errors, fmt.Sprintf("Justification must be at least %d characters", MinJustificationLength))
	}

	if len(justification) > 2000 {
		errors = append(errors, "Justification must be less than 2000 characters")
	}

	return errors
}

// DeletionRequestPage is one page of deletion requests plus paging metadata.
type DeletionRequestPage struct {
	Items      []DeletionRequest `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}
