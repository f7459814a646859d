package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/blogem/asset-registry/apperrors"
	"github.com/blogem/asset-registry/repositories"
)

// AuthorizationGate answers ownership and role questions for the
// deletion workflow. It is consulted synchronously before every state
// transition.
type AuthorizationGate interface {
	IsOwner(ctx context.Context, assetID, userID string) (bool, error)
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// dbAuthorizationGate implements AuthorizationGate against the registry
// database: ownership is the asset's created_by, admin is the user role.
type dbAuthorizationGate struct {
	assetRepo repositories.AssetRepository
	userRepo  repositories.UserRepository
}

// NewAuthorizationGate creates a database-backed authorization gate
func NewAuthorizationGate(assetRepo repositories.AssetRepository, userRepo repositories.UserRepository) AuthorizationGate {
	return &dbAuthorizationGate{
		assetRepo: assetRepo,
		userRepo:  userRepo,
	}
}

// IsOwner reports whether the user created the asset. A missing asset is
// not an error here; it simply means the user does not own it.
func (g *dbAuthorizationGate) IsOwner(ctx context.Context, assetID, userID string) (bool, error) {
	asset, err := g.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) && appErr.Code == apperrors.CodeNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check asset ownership: %w", err)
	}

	return asset.CreatedBy == userID, nil
}

// IsAdmin reports whether the user holds the admin role
func (g *dbAuthorizationGate) IsAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := g.userRepo.GetByID(ctx, userID)
	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) && appErr.Code == apperrors.CodeNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check user role: %w", err)
	}

	return user.IsAdmin(), nil
}
