// Package categoryrule contains category rule-related use cases.
package categoryrule

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
)

const (
	// MaxPatternLength is the maximum allowed length for regex patterns.
	MaxPatternLength = 255
)

// CreateCategoryRuleInput represents the input for category rule creation.
type CreateCategoryRuleInput struct {
	Pattern    string
	CategoryID uuid.UUID
	Priority   *int // Optional, defaults to max priority + 1
	UserID     uuid.UUID
}

// CreateCategoryRuleOutput represents the output of category rule creation.
type CreateCategoryRuleOutput struct {
	Rule                *entity.CategoryRuleWithCategory
	TransactionsUpdated int
}

// CreateCategoryRuleUseCase handles category rule creation logic.
type CreateCategoryRuleUseCase struct {
	ruleRepo        adapter.CategoryRuleRepository
	categoryRepo    adapter.CategoryRepository
	transactionRepo adapter.TransactionRepository
}

// NewCreateCategoryRuleUseCase creates a new CreateCategoryRuleUseCase instance.
func NewCreateCategoryRuleUseCase(
	ruleRepo adapter.CategoryRuleRepository,
	categoryRepo adapter.CategoryRepository,
	transactionRepo adapter.TransactionRepository,
) *CreateCategoryRuleUseCase {
	return &CreateCategoryRuleUseCase{
		ruleRepo:        ruleRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute performs the category rule creation.
func (uc *CreateCategoryRuleUseCase) Execute(ctx context.Context, input CreateCategoryRuleInput) (*CreateCategoryRuleOutput, error) {
	// Validate pattern is not empty
	if input.Pattern == "" {
		return nil, domainerror.NewCategoryRuleError(
			domainerror.ErrCodeMissingRuleFields,
			"pattern is required",
			domainerror.ErrCategoryRuleMissingFields,
		)
	}

	// Validate pattern length
	if len(input.Pattern) > MaxPatternLength {
		return nil, domainerror.NewCategoryRuleError(
			domainerror.ErrCodePatternTooLong,
			fmt.Sprintf("pattern must not exceed %d characters", MaxPatternLength),
			domainerror.ErrPatternTooLong,
		)
	}

	// Validate regex pattern
	if _, err := regexp.Compile(input.Pattern); err != nil {
		return nil, domainerror.NewCategoryRuleError(
			domainerror.ErrCodeInvalidPattern,
			"invalid regex pattern: "+err.Error(),
			domainerror.ErrInvalidPattern,
		)
	}

	// Verify category exists and belongs to the user
	category, err := uc.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, domainerror.NewCategoryRuleError(
			domainerror.ErrCodeCategoryNotFoundForRule,
			"category not found",
			domainerror.ErrCategoryNotFound,
		)
	}

	if category.UserID != input.UserID {
		return nil, domainerror.NewCategoryRuleError(
			domainerror.ErrCodeNotAuthorizedRule,
			"category does not belong to user",
			domainerror.ErrNotAuthorizedToModifyRule,
		)
	}

	// Check if pattern already exists for this user
	exists, err := uc.ruleRepo.ExistsByPatternAndUser(ctx, input.Pattern, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pattern existence: %w", err)
	}
	if exists {
		return nil, domainerror.NewCategoryRuleError(
			domainerror.ErrCodeCategoryRulePatternExists,
			"a rule with this pattern already exists",
			domainerror.ErrCategoryRulePatternExists,
		)
	}

	// Determine priority
	priority := 0
	if input.Priority != nil {
		priority = *input.Priority
	} else {
		// Auto-assign priority: max existing priority + 1
		maxPriority, err := uc.ruleRepo.GetMaxPriorityByUser(ctx, input.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to get max priority: %w", err)
		}
		priority = maxPriority + 1
	}

	// Create rule entity
	rule := entity.NewCategoryRule(
		input.UserID,
		input.Pattern,
		input.CategoryID,
		priority,
	)

	// Save rule to database
	if err := uc.ruleRepo.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create category rule: %w", err)
	}

	// Apply rule retroactively to existing uncategorized transactions
	updatedCount := 0
	if rule.IsActive {
		count, err := uc.transactionRepo.BulkUpdateCategoryByPattern(
			ctx,
			rule.Pattern,
			rule.CategoryID,
			input.UserID,
		)
		if err != nil {
			// Rule was created successfully; retroactive application is best-effort.
			slog.Warn("Failed to apply new rule to existing transactions",
				"ruleID", rule.ID,
				"error", err,
			)
		} else {
			updatedCount = count
		}
	}

	return &CreateCategoryRuleOutput{
		Rule: &entity.CategoryRuleWithCategory{
			Rule:     rule,
			Category: category,
		},
		TransactionsUpdated: updatedCount,
	}, nil
}
