// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/domain/entity"
)

// CategoryRuleRepository defines the interface for category rule persistence operations.
type CategoryRuleRepository interface {
	// Create creates a new category rule in the database.
	Create(ctx context.Context, rule *entity.CategoryRule) error

	// FindByID retrieves a category rule by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CategoryRule, error)

	// FindByIDWithCategory retrieves a category rule with its category by ID.
	FindByIDWithCategory(ctx context.Context, id uuid.UUID) (*entity.CategoryRuleWithCategory, error)

	// FindByUser retrieves all category rules for a user, sorted by priority (descending).
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CategoryRule, error)

	// FindByUserWithCategories retrieves all category rules with their categories for a user.
	FindByUserWithCategories(ctx context.Context, userID uuid.UUID) ([]*entity.CategoryRuleWithCategory, error)

	// FindActiveByUser retrieves only active category rules for a user, sorted by priority (descending).
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CategoryRule, error)

	// Update updates an existing category rule in the database.
	Update(ctx context.Context, rule *entity.CategoryRule) error

	// Delete removes a category rule from the database.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByPatternAndUser checks if a rule with the given pattern exists for the user.
	ExistsByPatternAndUser(ctx context.Context, pattern string, userID uuid.UUID) (bool, error)

	// ExistsByPatternAndUserExcluding checks if a rule with the given pattern exists
	// for the user, excluding a specific rule ID (used for updates).
	ExistsByPatternAndUserExcluding(ctx context.Context, pattern string, userID uuid.UUID, excludeID uuid.UUID) (bool, error)

	// UpdatePriorities updates the priorities for multiple rules in a batch operation.
	UpdatePriorities(ctx context.Context, updates []entity.RulePriorityUpdate) error

	// FindMatchingTransactions finds transactions that match the given regex pattern.
	FindMatchingTransactions(ctx context.Context, pattern string, userID uuid.UUID, limit int) (*entity.PatternTestResult, error)

	// GetMaxPriorityByUser gets the maximum priority value among the user's rules.
	GetMaxPriorityByUser(ctx context.Context, userID uuid.UUID) (int, error)
}
