package models

import (
	"strings"
	"time"
)

// Asset represents a registered organizational asset.
// Its lifecycle is owned by the asset store; the deletion workflow only
// reads it for snapshotting and removes it on an approved request.
type Asset struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Cost      float64   `json:"cost" db:"cost"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AssetForm represents form data for registering an asset
type AssetForm struct {
	Name string  `json:"name"`
	Cost float64 `json:"cost"`
}

// Validate validates the asset form data
func (f *AssetForm) Validate() []string {
	var errors []string

	if strings.TrimSpace(f.Name) == "" {
		errors = append(errors, "Name is required")
	}

	if len(f.Name) > 255 {
		errors = append(errors, "Name must be less than 255 characters")
	}

	if f.Cost < 0 {
		errors = append(errors, "Cost cannot be negative")
	}

	return errors
}
