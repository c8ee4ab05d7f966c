// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
	"github.com/isakbosman/manna/internal/integration/persistence/model"
)

// suggestionRepository implements the adapter.SuggestionRepository interface.
type suggestionRepository struct {
	db *gorm.DB
}

// NewSuggestionRepository creates a new suggestion repository instance.
func NewSuggestionRepository(db *gorm.DB) adapter.SuggestionRepository {
	return &suggestionRepository{
		db: db,
	}
}

// Create creates a new suggestion in the database.
func (r *suggestionRepository) Create(ctx context.Context, suggestion *entity.CategorySuggestion) error {
	suggestionModel := model.CategorySuggestionFromEntity(suggestion)
	result := r.db.WithContext(ctx).Create(suggestionModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// CreateBatch creates multiple suggestions in a single transaction.
func (r *suggestionRepository) CreateBatch(ctx context.Context, suggestions []*entity.CategorySuggestion) error {
	if len(suggestions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, suggestion := range suggestions {
			if err := tx.Create(model.CategorySuggestionFromEntity(suggestion)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID retrieves a suggestion by its ID.
func (r *suggestionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CategorySuggestion, error) {
	var suggestionModel model.CategorySuggestionModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&suggestionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrSuggestionNotFound
		}
		return nil, result.Error
	}
	return suggestionModel.ToEntity(), nil
}

// FindPendingByUser retrieves all pending suggestions for a user with details.
func (r *suggestionRepository) FindPendingByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CategorySuggestionWithDetails, error) {
	var suggestionModels []model.CategorySuggestionModel
	result := r.db.WithContext(ctx).
		Preload("Transaction").
		Preload("Category").
		Where("user_id = ? AND status = ?", userID, string(entity.SuggestionStatusPending)).
		Order("created_at ASC").
		Find(&suggestionModels)
	if result.Error != nil {
		return nil, result.Error
	}

	suggestions := make([]*entity.CategorySuggestionWithDetails, len(suggestionModels))
	for i, sm := range suggestionModels {
		suggestions[i] = sm.ToEntityWithDetails()
	}
	return suggestions, nil
}

// Update updates an existing suggestion in the database.
func (r *suggestionRepository) Update(ctx context.Context, suggestion *entity.CategorySuggestion) error {
	suggestionModel := model.CategorySuggestionFromEntity(suggestion)
	result := r.db.WithContext(ctx).Save(suggestionModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// DeletePendingByUser removes all pending suggestions for a user.
func (r *suggestionRepository) DeletePendingByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(entity.SuggestionStatusPending)).
		Delete(&model.CategorySuggestionModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
