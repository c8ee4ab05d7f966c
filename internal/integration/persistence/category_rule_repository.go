// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
	"github.com/isakbosman/manna/internal/integration/persistence/model"
)

// categoryRuleRepository implements the adapter.CategoryRuleRepository interface.
type categoryRuleRepository struct {
	db *gorm.DB
}

// NewCategoryRuleRepository creates a new category rule repository instance.
func NewCategoryRuleRepository(db *gorm.DB) adapter.CategoryRuleRepository {
	return &categoryRuleRepository{
		db: db,
	}
}

// Create creates a new category rule in the database.
func (r *categoryRuleRepository) Create(ctx context.Context, rule *entity.CategoryRule) error {
	ruleModel := model.CategoryRuleFromEntity(rule)
	result := r.db.WithContext(ctx).Create(ruleModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a category rule by its ID.
func (r *categoryRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CategoryRule, error) {
	var ruleModel model.CategoryRuleModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&ruleModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCategoryRuleNotFound
		}
		return nil, result.Error
	}
	return ruleModel.ToEntity(), nil
}

// FindByIDWithCategory retrieves a category rule with its category by ID.
func (r *categoryRuleRepository) FindByIDWithCategory(ctx context.Context, id uuid.UUID) (*entity.CategoryRuleWithCategory, error) {
	var ruleModel model.CategoryRuleModel
	result := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ?", id).
		First(&ruleModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrCategoryRuleNotFound
		}
		return nil, result.Error
	}
	return ruleModel.ToEntityWithCategory(), nil
}

// FindByUser retrieves all category rules for a user, sorted by priority (descending).
func (r *categoryRuleRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CategoryRule, error) {
	var ruleModels []model.CategoryRuleModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("priority DESC").
		Find(&ruleModels)
	if result.Error != nil {
		return nil, result.Error
	}

	rules := make([]*entity.CategoryRule, len(ruleModels))
	for i, rm := range ruleModels {
		rules[i] = rm.ToEntity()
	}
	return rules, nil
}

// FindByUserWithCategories retrieves all category rules with their categories for a user.
func (r *categoryRuleRepository) FindByUserWithCategories(ctx context.Context, userID uuid.UUID) ([]*entity.CategoryRuleWithCategory, error) {
	var ruleModels []model.CategoryRuleModel
	result := r.db.WithContext(ctx).
		Preload("Category").
		Where("user_id = ?", userID).
		Order("priority DESC").
		Find(&ruleModels)
	if result.Error != nil {
		return nil, result.Error
	}

	rules := make([]*entity.CategoryRuleWithCategory, len(ruleModels))
	for i, rm := range ruleModels {
		rules[i] = rm.ToEntityWithCategory()
	}
	return rules, nil
}

// FindActiveByUser retrieves only active category rules for a user, sorted by priority (descending).
func (r *categoryRuleRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CategoryRule, error) {
	var ruleModels []model.CategoryRuleModel
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("priority DESC").
		Find(&ruleModels)
	if result.Error != nil {
		return nil, result.Error
	}

	rules := make([]*entity.CategoryRule, len(ruleModels))
	for i, rm := range ruleModels {
		rules[i] = rm.ToEntity()
	}
	return rules, nil
}

// Update updates an existing category rule in the database.
func (r *categoryRuleRepository) Update(ctx context.Context, rule *entity.CategoryRule) error {
	ruleModel := model.CategoryRuleFromEntity(rule)
	result := r.db.WithContext(ctx).Save(ruleModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Delete removes a category rule from the database (hard delete).
// Using Unscoped() to bypass soft-delete and permanently remove the record.
// This allows the same pattern to be reused after deletion.
func (r *categoryRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Unscoped().Delete(&model.CategoryRuleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// ExistsByPatternAndUser checks if a rule with the given pattern exists for the user.
func (r *categoryRuleRepository) ExistsByPatternAndUser(ctx context.Context, pattern string, userID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.CategoryRuleModel{}).
		Where("pattern = ? AND user_id = ?", pattern, userID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// ExistsByPatternAndUserExcluding checks if a rule with the given pattern exists for the user,
// excluding a specific rule ID (used for updates).
func (r *categoryRuleRepository) ExistsByPatternAndUserExcluding(ctx context.Context, pattern string, userID uuid.UUID, excludeID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&model.CategoryRuleModel{}).
		Where("pattern = ? AND user_id = ? AND id != ?", pattern, userID, excludeID).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// UpdatePriorities updates the priorities for multiple rules in a batch operation.
func (r *categoryRuleRepository) UpdatePriorities(ctx context.Context, updates []entity.RulePriorityUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		for _, update := range updates {
			result := tx.Model(&model.CategoryRuleModel{}).
				Where("id = ?", update.ID).
				Updates(map[string]interface{}{
					"priority":   update.Priority,
					"updated_at": now,
				})
			if result.Error != nil {
				return result.Error
			}
		}
		return nil
	})
}

// matchingTransactionResult represents a raw query result for matching transactions.
type matchingTransactionResult struct {
	ID          uuid.UUID
	Description string
	Amount      decimal.Decimal
	Date        time.Time
}

// FindMatchingTransactions finds transactions whose description matches the
// given regex pattern. The regex is evaluated in Go rather than SQL so the
// behavior is identical across database engines.
func (r *categoryRuleRepository) FindMatchingTransactions(ctx context.Context, pattern string, userID uuid.UUID, limit int) (*entity.PatternTestResult, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}

	var results []matchingTransactionResult
	query := r.db.WithContext(ctx).
		Table("transactions").
		Select("id, description, amount, date").
		Where("user_id = ? AND deleted_at IS NULL", userID).
		Order("date DESC")
	if err := query.Scan(&results).Error; err != nil {
		return nil, err
	}

	matchCount := 0
	matchingTxs := make([]*entity.MatchingTransaction, 0, limit)
	for _, result := range results {
		if !re.MatchString(result.Description) {
			continue
		}
		matchCount++
		if len(matchingTxs) < limit {
			matchingTxs = append(matchingTxs, &entity.MatchingTransaction{
				ID:          result.ID,
				Description: result.Description,
				Amount:      result.Amount.StringFixed(2),
				Date:        result.Date,
			})
		}
	}

	return &entity.PatternTestResult{
		MatchingTransactions: matchingTxs,
		MatchCount:           matchCount,
	}, nil
}

// GetMaxPriorityByUser gets the maximum priority value among the user's rules.
func (r *categoryRuleRepository) GetMaxPriorityByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var maxPriority *int
	result := r.db.WithContext(ctx).
		Model(&model.CategoryRuleModel{}).
		Select("COALESCE(MAX(priority), 0)").
		Where("user_id = ?", userID).
		Scan(&maxPriority)

	if result.Error != nil {
		return 0, result.Error
	}

	if maxPriority == nil {
		return 0, nil
	}
	return *maxPriority, nil
}
