// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/domain/entity"
)

// SuggestionRepository defines the interface for category suggestion persistence.
type SuggestionRepository interface {
	// Create creates a new suggestion in the database.
	Create(ctx context.Context, suggestion *entity.CategorySuggestion) error

	// CreateBatch creates multiple suggestions in a single operation.
	CreateBatch(ctx context.Context, suggestions []*entity.CategorySuggestion) error

	// FindByID retrieves a suggestion by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CategorySuggestion, error)

	// FindPendingByUser retrieves all pending suggestions for a user with
	// category details resolved.
	FindPendingByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CategorySuggestionWithDetails, error)

	// Update updates an existing suggestion in the database.
	Update(ctx context.Context, suggestion *entity.CategorySuggestion) error

	// DeletePendingByUser removes all pending suggestions for a user.
	// Returns the count of deleted suggestions.
	DeletePendingByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
