package services

import (
	"database/sql"

	"github.com/rs/zerolog"

	"github.com/blogem/asset-registry/repositories"
)

// Services holds all service instances
type Services struct {
	DeletionRequest DeletionRequestService
	Approval        ApprovalService
	Stats           StatsService
	Gate            AuthorizationGate
}

// NewServices creates and initializes all service instances
func NewServices(db *sql.DB, repos *repositories.Repositories, logger zerolog.Logger) *Services {
	gate := NewAuthorizationGate(repos.Asset, repos.User)
	audit := NewAuditRecorder(logger)

	return &Services{
		DeletionRequest: NewDeletionRequestService(repos, gate, audit, logger),
		Approval:        NewApprovalService(db, repos, gate, audit, logger),
		Stats:           NewStatsService(db, repos),
		Gate:            gate,
	}
}
