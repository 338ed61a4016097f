// Package directory is the engine's read-only view of the user-management
// service. Professionals and victims are owned there; the engine only
// resolves them when allocating, listing or transferring assignments.
package directory

import (
	"context"

	"github.com/google/uuid"

	"github.com/havenlink/haven-engine/pkg/models"
)

// Directory lists professionals by category and resolves individual
// accounts. Implementations must return only professionals whose role
// exactly matches the requested category.
type Directory interface {
	// ListByCategory returns all professionals in the given category.
	// An empty slice is a valid result (no professionals available).
	ListByCategory(ctx context.Context, category models.Category) ([]models.Professional, error)

	// Get resolves a single professional. Returns apperrors.ErrNotFound
	// if the id is unknown or not a professional.
	Get(ctx context.Context, id uuid.UUID) (*models.Professional, error)

	// GetUser resolves any account (victim or professional) to its
	// display identity. Returns apperrors.ErrNotFound if unknown.
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}
