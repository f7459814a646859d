package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/blogem/asset-registry/apperrors"
	"github.com/blogem/asset-registry/models"
)

// DeletionRequestRepository interface defines deletion request database
// operations. Status transitions are guarded updates: they only touch
// rows still in the pending state and report whether a row transitioned,
// so concurrent reviewers race on the database, not on application state.
type DeletionRequestRepository interface {
	Create(ctx context.Context, request *models.DeletionRequest) error
	GetByID(ctx context.Context, id string) (*models.DeletionRequest, error)
	GetPendingByAssetID(ctx context.Context, assetID string) (*models.DeletionRequest, error)
	List(ctx context.Context, status string, page, pageSize int) ([]models.DeletionRequest, int, error)
	MarkCancelled(ctx context.Context, id string) (bool, error)
	MarkReviewed(ctx context.Context, id string, review ReviewUpdate) (bool, error)
	Stats(ctx context.Context, now time.Time) (*models.DeletionRequestStats, error)
}

// ReviewUpdate carries the reviewer fields stamped on approve/reject.
// ClearAssetID is set on approval, where the asset row is deleted in the
// same transaction and the weak reference must be nulled explicitly.
type ReviewUpdate struct {
	Status        string
	ReviewedBy    string
	ReviewerEmail string
	Comment       string
	ReviewedAt    time.Time
	ClearAssetID  bool
}

// deletionRequestRepository implements DeletionRequestRepository interface
type deletionRequestRepository struct {
	db DBTX
}

// NewDeletionRequestRepository creates a new deletion request repository
func NewDeletionRequestRepository(db DBTX) DeletionRequestRepository {
	return &deletionRequestRepository{db: db}
}

const deletionRequestColumns = `
	id, asset_id, asset_name, asset_cost, requested_by, requester_email,
	justification, status, reviewed_by, reviewer_email, review_comment,
	reviewed_at, created_at
`

// Create inserts a new deletion request in the pending state. A unique
// index over pending rows rejects a second open request for the same
// asset; that violation is surfaced as a CONFLICT.
func (r *deletionRequestRepository) Create(ctx context.Context, request *models.DeletionRequest) error {
	query := `
		INSERT INTO deletion_requests (
			id, asset_id, asset_name, asset_cost, requested_by,
			requester_email, justification, status, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if request.Status == "" {
		request.Status = models.StatusPending
	}
	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		request.ID,
		request.AssetID,
		request.AssetName,
		request.AssetCost,
		request.RequestedBy,
		request.RequesterEmail,
		request.Justification,
		request.Status,
		request.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("a pending deletion request already exists for this asset")
		}
		return fmt.Errorf("failed to create deletion request: %w", err)
	}

	return nil
}

// GetByID retrieves a deletion request by ID
func (r *deletionRequestRepository) GetByID(ctx context.Context, id string) (*models.DeletionRequest, error) {
	query := `SELECT ` + deletionRequestColumns + ` FROM deletion_requests WHERE id = ?`

	request, err := scanDeletionRequest(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound(fmt.Sprintf("deletion request %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deletion request: %w", err)
	}

	return request, nil
}

// GetPendingByAssetID retrieves the open request for an asset, or nil
// when the asset has no pending request.
func (r *deletionRequestRepository) GetPendingByAssetID(ctx context.Context, assetID string) (*models.DeletionRequest, error) {
	query := `
		SELECT ` + deletionRequestColumns + `
		FROM deletion_requests
		WHERE asset_id = ? AND status = ?
	`

	request, err := scanDeletionRequest(r.db.QueryRowContext(ctx, query, assetID, models.StatusPending))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending deletion request: %w", err)
	}

	return request, nil
}

// List retrieves a page of deletion requests, newest first, optionally
// filtered by status. It returns the page and the total row count for
// the filter.
func (r *deletionRequestRepository) List(ctx context.Context, status string, page, pageSize int) ([]models.DeletionRequest, int, error) {
	where := ""
	var args []any
	if status != "" {
		where = "WHERE status = ?"
		args = append(args, status)
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM deletion_requests %s", where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count deletion requests: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM deletion_requests
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, deletionRequestColumns, where)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query deletion requests: %w", err)
	}
	defer rows.Close()

	var requests []models.DeletionRequest
	for rows.Next() {
		request, err := scanDeletionRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan deletion request: %w", err)
		}
		requests = append(requests, *request)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating deletion requests: %w", err)
	}

	return requests, total, nil
}

// MarkCancelled transitions a pending request to cancelled. It returns
// false when the request was not pending anymore (or does not exist).
func (r *deletionRequestRepository) MarkCancelled(ctx context.Context, id string) (bool, error) {
	query := `
		UPDATE deletion_requests
		SET status = ?
		WHERE id = ? AND status = ?
	`

	result, err := r.db.ExecContext(ctx, query, models.StatusCancelled, id, models.StatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to cancel deletion request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// MarkReviewed transitions a pending request to approved or rejected and
// stamps the reviewer fields. The snapshot columns are never touched. It
// returns false when the request was not pending anymore.
func (r *deletionRequestRepository) MarkReviewed(ctx context.Context, id string, review ReviewUpdate) (bool, error) {
	query := `
		UPDATE deletion_requests
		SET status = ?,
		    reviewed_by = ?,
		    reviewer_email = ?,
		    review_comment = ?,
		    reviewed_at = ?
		WHERE id = ? AND status = ?
	`
	args := []any{
		review.Status,
		review.ReviewedBy,
		review.ReviewerEmail,
		review.Comment,
		review.ReviewedAt,
		id,
		models.StatusPending,
	}

	if review.ClearAssetID {
		query = `
			UPDATE deletion_requests
			SET status = ?,
			    reviewed_by = ?,
			    reviewer_email = ?,
			    review_comment = ?,
			    reviewed_at = ?,
			    asset_id = NULL
			WHERE id = ? AND status = ?
		`
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to review deletion request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// Stats computes the aggregate figures over the request history. Run it
// on a transaction-bound repository to get a consistent snapshot across
// the individual queries.
func (r *deletionRequestRepository) Stats(ctx context.Context, now time.Time) (*models.DeletionRequestStats, error) {
	stats := &models.DeletionRequestStats{}
	cutoff := now.Add(-30 * 24 * time.Hour).UTC()

	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM deletion_requests WHERE status = ?`,
		models.StatusPending,
	).Scan(&stats.PendingCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending requests: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM deletion_requests WHERE status = ? AND reviewed_at >= ?`,
		models.StatusApproved, cutoff,
	).Scan(&stats.ApprovedLast30Days)
	if err != nil {
		return nil, fmt.Errorf("failed to count approved requests: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM deletion_requests WHERE status = ? AND reviewed_at >= ?`,
		models.StatusRejected, cutoff,
	).Scan(&stats.RejectedLast30Days)
	if err != nil {
		return nil, fmt.Errorf("failed to count rejected requests: %w", err)
	}

	averageHours, err := r.averageReviewTimeHours(ctx)
	if err != nil {
		return nil, err
	}
	stats.AverageReviewTimeHours = averageHours

	oldestDays, err := r.oldestPendingDays(ctx, now)
	if err != nil {
		return nil, err
	}
	stats.OldestPendingDays = oldestDays

	return stats, nil
}

// averageReviewTimeHours computes the mean review turnaround across all
// reviewed requests. Durations are computed in Go rather than SQL so the
// driver's timestamp encoding stays an implementation detail.
func (r *deletionRequestRepository) averageReviewTimeHours(ctx context.Context) (float64, error) {
	query := `
		SELECT created_at, reviewed_at
		FROM deletion_requests
		WHERE status IN (?, ?) AND reviewed_at IS NOT NULL
	`

	rows, err := r.db.QueryContext(ctx, query, models.StatusApproved, models.StatusRejected)
	if err != nil {
		return 0, fmt.Errorf("failed to query reviewed requests: %w", err)
	}
	defer rows.Close()

	var totalHours float64
	var count int
	for rows.Next() {
		var createdAt, reviewedAt time.Time
		if err := rows.Scan(&createdAt, &reviewedAt); err != nil {
			return 0, fmt.Errorf("failed to scan review times: %w", err)
		}
		totalHours += reviewedAt.Sub(createdAt).Hours()
		count++
	}

	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("error iterating reviewed requests: %w", err)
	}

	if count == 0 {
		return 0, nil
	}

	return roundTo2(totalHours / float64(count)), nil
}

// oldestPendingDays returns the age in days of the oldest pending
// request, or 0 when no request is pending.
func (r *deletionRequestRepository) oldestPendingDays(ctx context.Context, now time.Time) (float64, error) {
	query := `
		SELECT created_at
		FROM deletion_requests
		WHERE status = ?
		ORDER BY created_at ASC
		LIMIT 1
	`

	var createdAt time.Time
	err := r.db.QueryRowContext(ctx, query, models.StatusPending).Scan(&createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get oldest pending request: %w", err)
	}

	return roundTo2(now.Sub(createdAt).Hours() / 24), nil
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDeletionRequest scans one deletion request row
func scanDeletionRequest(row rowScanner) (*models.DeletionRequest, error) {
	var request models.DeletionRequest
	var assetID, reviewedBy, reviewerEmail, reviewComment sql.NullString
	var reviewedAt sql.NullTime

	err := row.Scan(
		&request.ID,
		&assetID,
		&request.AssetName,
		&request.AssetCost,
		&request.RequestedBy,
		&request.RequesterEmail,
		&request.Justification,
		&request.Status,
		&reviewedBy,
		&reviewerEmail,
		&reviewComment,
		&reviewedAt,
		&request.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Convert NULL values to nil pointers
	if assetID.Valid {
		request.AssetID = &assetID.String
	}
	if reviewedBy.Valid {
		request.ReviewedBy = &reviewedBy.String
	}
	if reviewerEmail.Valid {
		request.ReviewerEmail = &reviewerEmail.String
	}
	if reviewComment.Valid {
		request.ReviewComment = &reviewComment.String
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		request.ReviewedAt = &t
	}

	return &request, nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint error
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// roundTo2 rounds to 2 decimal places
func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
