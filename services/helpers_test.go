package services

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/blogem/asset-registry/database"
	"github.com/blogem/asset-registry/models"
	"github.com/blogem/asset-registry/repositories"
	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	// Create a temporary database for testing
	dbPath := "test_" + time.Now().Format("20060102150405.000000000") + ".db"

	// Initialize test database using the actual migration system
	db, err := database.Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	return db
}

func seedUser(t *testing.T, repos *repositories.Repositories, email, role string) *models.User {
	user := &models.User{
		Email: email,
		Name:  "Test User",
		Role:  role,
	}
	if err := repos.User.Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

func seedAsset(t *testing.T, repos *repositories.Repositories, owner *models.User, name string, cost float64) *models.Asset {
	asset := &models.Asset{
		Name:      name,
		Cost:      cost,
		CreatedBy: owner.ID,
	}
	if err := repos.Asset.Create(context.Background(), asset); err != nil {
		t.Fatalf("Failed to seed asset: %v", err)
	}
	return asset
}
