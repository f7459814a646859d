package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/blogem/asset-registry/apperrors"
	"github.com/blogem/asset-registry/models"
	"github.com/blogem/asset-registry/repositories"
)

// StatsService computes read-only statistics over the deletion request
// history.
type StatsService interface {
	GetStats(ctx context.Context) (*models.DeletionRequestStats, error)
}

// statsService implements StatsService interface
type statsService struct {
	db    *sql.DB
	repos *repositories.Repositories
}

// NewStatsService creates a new stats service
func NewStatsService(db *sql.DB, repos *repositories.Repositories) StatsService {
	return &statsService{
		db:    db,
		repos: repos,
	}
}

// GetStats computes the aggregate figures inside one transaction so the
// individual queries observe a single consistent snapshot. A row caught
// mid-approval appears either fully pending or fully approved across
// all five numbers, never split.
func (s *statsService) GetStats(ctx context.Context) (*models.DeletionRequestStats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.Database("failed to begin transaction", err)
	}
	defer tx.Rollback()

	stats, err := s.repos.WithTx(tx).DeletionRequest.Stats(ctx, time.Now().UTC())
	if err != nil {
		return nil, apperrors.Database("failed to compute statistics", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Database("failed to commit statistics read", err)
	}

	return stats, nil
}
