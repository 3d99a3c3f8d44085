// Package store defines the claims store contract the registry consumes,
// plus the three implementations: in-memory (dev and tests), PostgreSQL,
// and a REST client for fronting a remote claims service.
package store

import (
	"context"

	"github.com/aryan-dani/FRA-GIS/internal/claims/models"
)

// Store is the external source of truth for claim records. The registry
// never mutates records locally; every write goes through the store and is
// followed by a full re-read.
type Store interface {
	// ListClaims returns every claim, newest first.
	ListClaims(ctx context.Context) ([]models.ClaimRecord, error)
	// GetClaim returns one claim by id, or CodeNotFound.
	GetClaim(ctx context.Context, id string) (*models.ClaimRecord, error)
	// CreateClaim persists a draft and returns the assigned id. The store
	// owns id assignment and the status default.
	CreateClaim(ctx context.Context, draft models.ClaimRecord) (string, error)
	// UpdateStatus sets the workflow status of one claim, or CodeNotFound.
	UpdateStatus(ctx context.Context, id string, status models.ClaimStatus) error
}
