package categorization

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
)

// ApproveSuggestionInput represents the input for approving a suggestion.
type ApproveSuggestionInput struct {
	UserID       uuid.UUID
	SuggestionID uuid.UUID
	CreateRule   bool // Also create a category rule from the matched keyword
}

// ApproveSuggestionOutput represents the result of approving a suggestion.
type ApproveSuggestionOutput struct {
	CategoryID          uuid.UUID
	CategoryCreated     bool
	TransactionsUpdated int64
	RuleCreated         bool
}

// ApproveSuggestionUseCase applies a pending suggestion: the category is
// created if the engine proposed a new one, all affected transactions are
// recategorized, and optionally the matched keyword becomes a rule.
type ApproveSuggestionUseCase struct {
	suggestionRepo   adapter.SuggestionRepository
	transactionRepo  adapter.TransactionRepository
	categoryRepo     adapter.CategoryRepository
	categoryRuleRepo adapter.CategoryRuleRepository
	journalRepo      adapter.JournalRepository
}

// NewApproveSuggestionUseCase creates a new ApproveSuggestionUseCase instance.
func NewApproveSuggestionUseCase(
	suggestionRepo adapter.SuggestionRepository,
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
	categoryRuleRepo adapter.CategoryRuleRepository,
	journalRepo adapter.JournalRepository,
) *ApproveSuggestionUseCase {
	return &ApproveSuggestionUseCase{
		suggestionRepo:   suggestionRepo,
		transactionRepo:  transactionRepo,
		categoryRepo:     categoryRepo,
		categoryRuleRepo: categoryRuleRepo,
		journalRepo:      journalRepo,
	}
}

// Execute performs the approval.
func (uc *ApproveSuggestionUseCase) Execute(ctx context.Context, input ApproveSuggestionInput) (*ApproveSuggestionOutput, error) {
	suggestion, err := uc.loadPendingSuggestion(ctx, input.SuggestionID, input.UserID)
	if err != nil {
		return nil, err
	}

	category, categoryCreated, err := uc.resolveCategory(ctx, suggestion)
	if err != nil {
		return nil, err
	}

	ids := append([]uuid.UUID{suggestion.TransactionID}, suggestion.AffectedTransactionIDs...)
	updated, err := uc.transactionRepo.BulkUpdateCategory(ctx, ids, category.ID, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to apply category: %w", err)
	}

	// Recategorizing moves each derived journal entry to the new ledger account.
	uc.rebuildJournalEntries(ctx, ids, category)

	ruleCreated := false
	if input.CreateRule && suggestion.MatchKeyword != "" {
		ruleCreated = uc.createRuleFromKeyword(ctx, input.UserID, suggestion.MatchKeyword, category.ID)
	}

	suggestion.Status = entity.SuggestionStatusApproved
	suggestion.UpdatedAt = time.Now().UTC()
	if err := uc.suggestionRepo.Update(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("failed to update suggestion: %w", err)
	}

	slog.Info("Suggestion approved",
		"userID", input.UserID,
		"suggestionID", suggestion.ID,
		"categoryID", category.ID,
		"transactionsUpdated", updated,
	)

	return &ApproveSuggestionOutput{
		CategoryID:          category.ID,
		CategoryCreated:     categoryCreated,
		TransactionsUpdated: updated,
		RuleCreated:         ruleCreated,
	}, nil
}

// rebuildJournalEntries re-derives the journal entries for the recategorized
// transactions. Failure here does not undo the approval; the entry is rebuilt
// on the next update.
func (uc *ApproveSuggestionUseCase) rebuildJournalEntries(ctx context.Context, ids []uuid.UUID, category *entity.Category) {
	for _, id := range ids {
		transaction, err := uc.transactionRepo.FindByID(ctx, id)
		if err != nil {
			slog.Warn("Failed to load transaction for journal rebuild", "transactionID", id, "error", err)
			continue
		}
		if err := uc.journalRepo.Upsert(ctx, entity.DeriveJournalEntry(transaction, category)); err != nil {
			slog.Warn("Failed to rebuild journal entry", "transactionID", id, "error", err)
		}
	}
}

// loadPendingSuggestion fetches the suggestion and checks ownership and state.
func (uc *ApproveSuggestionUseCase) loadPendingSuggestion(ctx context.Context, id, userID uuid.UUID) (*entity.CategorySuggestion, error) {
	suggestion, err := uc.suggestionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrSuggestionNotFound) {
			return nil, domainerror.NewCategorizationError(
				domainerror.ErrCodeSuggestionNotFound,
				"suggestion not found",
				domainerror.ErrSuggestionNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find suggestion: %w", err)
	}
	if suggestion.UserID != userID {
		return nil, domainerror.NewCategorizationError(
			domainerror.ErrCodeNotAuthorizedSuggestion,
			"not authorized to access this suggestion",
			domainerror.ErrNotAuthorizedSuggestion,
		)
	}
	if suggestion.Status != entity.SuggestionStatusPending {
		return nil, domainerror.NewCategorizationError(
			domainerror.ErrCodeSuggestionNotPending,
			"suggestion was already resolved",
			domainerror.ErrSuggestionNotPending,
		)
	}
	return suggestion, nil
}

// resolveCategory returns the category to apply, creating it when the engine
// proposed a new one.
func (uc *ApproveSuggestionUseCase) resolveCategory(ctx context.Context, suggestion *entity.CategorySuggestion) (*entity.Category, bool, error) {
	if suggestion.SuggestedCategoryID != nil {
		category, err := uc.categoryRepo.FindByID(ctx, *suggestion.SuggestedCategoryID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load suggested category: %w", err)
		}
		return category, false, nil
	}

	proposed := suggestion.SuggestedCategoryNew

	// Reuse an existing category of the same name over creating a duplicate
	if existing, err := uc.categoryRepo.FindByNameAndUser(ctx, proposed.Name, suggestion.UserID); err == nil && existing != nil {
		return existing, false, nil
	}

	categoryType := entity.CategoryTypeExpense
	if transaction, err := uc.transactionRepo.FindByID(ctx, suggestion.TransactionID); err == nil &&
		transaction.Type == entity.TransactionTypeIncome {
		categoryType = entity.CategoryTypeIncome
	}

	category := entity.NewCategory(suggestion.UserID, proposed.Name, proposed.Color, proposed.Icon, categoryType)
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, false, fmt.Errorf("failed to create suggested category: %w", err)
	}
	return category, true, nil
}

// createRuleFromKeyword turns the matched keyword into a category rule so
// future transactions are categorized without the engine. Failure here does
// not fail the approval.
func (uc *ApproveSuggestionUseCase) createRuleFromKeyword(ctx context.Context, userID uuid.UUID, keyword string, categoryID uuid.UUID) bool {
	pattern := regexp.QuoteMeta(keyword)

	exists, err := uc.categoryRuleRepo.ExistsByPatternAndUser(ctx, pattern, userID)
	if err != nil || exists {
		return false
	}

	maxPriority, err := uc.categoryRuleRepo.GetMaxPriorityByUser(ctx, userID)
	if err != nil {
		maxPriority = 0
	}

	rule := entity.NewCategoryRule(userID, pattern, categoryID, maxPriority+1)
	if err := uc.categoryRuleRepo.Create(ctx, rule); err != nil {
		slog.Warn("Failed to create rule from approved suggestion",
			"userID", userID,
			"pattern", pattern,
			"error", err,
		)
		return false
	}
	return true
}
