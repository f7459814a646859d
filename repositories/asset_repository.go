package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/blogem/asset-registry/apperrors"
	"github.com/blogem/asset-registry/models"
)

// AssetRepository interface defines asset database operations
type AssetRepository interface {
	GetByID(ctx context.Context, id string) (*models.Asset, error)
	Create(ctx context.Context, asset *models.Asset) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// assetRepository implements AssetRepository interface
type assetRepository struct {
	db DBTX
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db DBTX) AssetRepository {
	return &assetRepository{db: db}
}

// GetByID retrieves an asset by ID
func (r *assetRepository) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	query := `
		SELECT id, name, cost, created_by, created_at
		FROM assets
		WHERE id = ?
	`

	var asset models.Asset
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&asset.ID,
		&asset.Name,
		&asset.Cost,
		&asset.CreatedBy,
		&asset.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound(fmt.Sprintf("asset %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	return &asset, nil
}

// Create inserts a new asset
func (r *assetRepository) Create(ctx context.Context, asset *models.Asset) error {
	query := `
		INSERT INTO assets (id, name, cost, created_by, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	if asset.CreatedAt.IsZero() {
		asset.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, query,
		asset.ID,
		asset.Name,
		asset.Cost,
		asset.CreatedBy,
		asset.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}

	return nil
}

// Delete removes an asset row. Deletion requests referencing it keep
// their snapshot columns; the foreign key nulls their asset_id.
func (r *assetRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM assets WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NotFound(fmt.Sprintf("asset %s not found", id))
	}

	return nil
}

// Count returns the total number of assets
func (r *assetRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM assets`

	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count assets: %w", err)
	}

	return count, nil
}
