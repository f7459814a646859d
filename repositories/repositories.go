package repositories

import (
	"context"
	"database/sql"
)

// DBTX abstracts *sql.DB and *sql.Tx so repository methods can run
// standalone or inside an enclosing transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repositories struct holds all repository interfaces
type Repositories struct {
	Asset           AssetRepository
	DeletionRequest DeletionRequestRepository
	Audit           AuditRepository
	User            UserRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		Asset:           NewAssetRepository(db),
		DeletionRequest: NewDeletionRequestRepository(db),
		Audit:           NewAuditRepository(db),
		User:            NewUserRepository(db),
	}
}

// WithTx returns a set of repositories bound to the given transaction
func (r *Repositories) WithTx(tx *sql.Tx) *Repositories {
	return NewRepositories(tx)
}
