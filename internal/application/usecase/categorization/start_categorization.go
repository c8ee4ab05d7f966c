package categorization

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
)

const (
	// UncategorizedLimit caps how many transactions one run looks at.
	UncategorizedLimit = 500

	// TrainingSampleLimit caps how much categorized history the statistical
	// providers train on.
	TrainingSampleLimit = 1000

	// RunTimeout bounds one background run end to end.
	RunTimeout = 5 * time.Minute
)

// StartCategorizationInput represents the input for starting a suggestion run.
type StartCategorizationInput struct {
	UserID uuid.UUID
}

// StartCategorizationOutput represents the output of starting a suggestion run.
type StartCategorizationOutput struct {
	JobID   string
	Message string
}

// StartCategorizationUseCase kicks off a background run of the layered
// suggestion engine: rules first, then the classifier, then the LLM for
// whatever is still uncovered.
type StartCategorizationUseCase struct {
	transactionRepo adapter.TransactionRepository
	categoryRepo    adapter.CategoryRepository
	suggestionRepo  adapter.SuggestionRepository
	providers       []adapter.SuggestionProvider
	tracker         ProcessingTracker
}

// NewStartCategorizationUseCase creates a new StartCategorizationUseCase instance.
func NewStartCategorizationUseCase(
	transactionRepo adapter.TransactionRepository,
	categoryRepo adapter.CategoryRepository,
	suggestionRepo adapter.SuggestionRepository,
	providers []adapter.SuggestionProvider,
	tracker ProcessingTracker,
) *StartCategorizationUseCase {
	return &StartCategorizationUseCase{
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		suggestionRepo:  suggestionRepo,
		providers:       providers,
		tracker:         tracker,
	}
}

// Execute starts the suggestion run.
func (uc *StartCategorizationUseCase) Execute(ctx context.Context, input StartCategorizationInput) (*StartCategorizationOutput, error) {
	transactions, err := uc.transactionRepo.FindUncategorizedByUser(ctx, input.UserID, UncategorizedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load uncategorized transactions: %w", err)
	}
	if len(transactions) == 0 {
		return nil, domainerror.NewCategorizationError(
			domainerror.ErrCodeNoUncategorized,
			"no uncategorized transactions found",
			domainerror.ErrNoUncategorized,
		)
	}

	jobID := uuid.New().String()
	if !uc.tracker.TryStart(input.UserID, jobID) {
		return nil, domainerror.NewCategorizationError(
			domainerror.ErrCodeCategorizationRunning,
			"a categorization run is already in progress",
			domainerror.ErrCategorizationRunning,
		)
	}

	// The run outlives the HTTP request
	go uc.run(context.Background(), input.UserID, jobID, transactions)

	return &StartCategorizationOutput{
		JobID:   jobID,
		Message: fmt.Sprintf("categorization started for %d transactions", len(transactions)),
	}, nil
}

// run executes the provider layers and stores the resulting suggestions.
func (uc *StartCategorizationUseCase) run(ctx context.Context, userID uuid.UUID, jobID string, transactions []*entity.Transaction) {
	started := time.Now()
	logger := slog.Default().With("jobID", jobID, "userID", userID, "transactionCount", len(transactions))
	logger.Info("Categorization run started")

	ctx, cancel := context.WithTimeout(ctx, RunTimeout)
	defer cancel()
	defer func() {
		uc.tracker.Finish(userID)
		logger.Info("Categorization run finished", "duration", time.Since(started).String())
	}()

	categories, err := uc.categoryRepo.FindByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to load categories", "error", err)
		uc.tracker.SetError(userID, classifyRunError(err))
		return
	}

	training, err := uc.transactionRepo.FindCategorizedByUser(ctx, userID, TrainingSampleLimit)
	if err != nil {
		logger.Warn("Failed to load training samples", "error", err)
		training = nil
	}

	remaining := transactions
	var proposals []adapter.ProviderSuggestion
	for _, provider := range uc.providers {
		if len(remaining) == 0 {
			break
		}

		cc := adapter.CategorizationContext{
			UserID:             userID,
			Transactions:       remaining,
			ExistingCategories: categories,
			TrainingSamples:    training,
		}
		batch, err := provider.Suggest(ctx, cc)
		if err != nil {
			// A failing layer does not invalidate what earlier layers found
			logger.Warn("Suggestion provider failed", "error", err)
			uc.tracker.SetError(userID, classifyRunError(err))
			continue
		}
		proposals = append(proposals, batch...)
		remaining = uncovered(remaining, batch)
	}

	suggestions := uc.toSuggestions(userID, proposals, logger)
	if len(suggestions) == 0 {
		logger.Info("No suggestions generated")
		return
	}

	if err := uc.suggestionRepo.CreateBatch(ctx, suggestions); err != nil {
		logger.Error("Failed to save suggestions", "error", err, "suggestionCount", len(suggestions))
		uc.tracker.SetError(userID, classifyRunError(err))
		return
	}
	logger.Info("Saved suggestions", "suggestionCount", len(suggestions))
}

// uncovered filters out transactions already covered by the proposals.
func uncovered(transactions []*entity.Transaction, proposals []adapter.ProviderSuggestion) []*entity.Transaction {
	covered := make(map[string]bool)
	for _, p := range proposals {
		covered[p.TransactionID] = true
		for _, id := range p.AffectedTransactionIDs {
			covered[id] = true
		}
	}

	var rest []*entity.Transaction
	for _, txn := range transactions {
		if !covered[txn.ID.String()] {
			rest = append(rest, txn)
		}
	}
	return rest
}

// toSuggestions converts provider proposals into persistable suggestions,
// dropping any with unparseable IDs.
func (uc *StartCategorizationUseCase) toSuggestions(
	userID uuid.UUID,
	proposals []adapter.ProviderSuggestion,
	logger *slog.Logger,
) []*entity.CategorySuggestion {
	suggestions := make([]*entity.CategorySuggestion, 0, len(proposals))
	for _, p := range proposals {
		transactionID, err := uuid.Parse(p.TransactionID)
		if err != nil {
			logger.Warn("Provider returned invalid transaction id", "id", p.TransactionID)
			continue
		}

		affected := make([]uuid.UUID, 0, len(p.AffectedTransactionIDs))
		for _, raw := range p.AffectedTransactionIDs {
			id, err := uuid.Parse(raw)
			if err != nil || id == transactionID {
				continue
			}
			affected = append(affected, id)
		}

		switch {
		case p.CategoryID != nil:
			categoryID, err := uuid.Parse(*p.CategoryID)
			if err != nil {
				logger.Warn("Provider returned invalid category id", "id", *p.CategoryID)
				continue
			}
			suggestions = append(suggestions, entity.NewCategorySuggestion(
				userID, transactionID, categoryID,
				p.MatchType, p.MatchKeyword, affected,
				p.Confidence, p.Source, p.Reasoning,
			))

		case p.SuggestedNew != nil:
			suggestions = append(suggestions, entity.NewCategorySuggestionWithNewCategory(
				userID, transactionID, *p.SuggestedNew,
				p.MatchType, p.MatchKeyword, affected,
				p.Confidence, p.Source, p.Reasoning,
			))
		}
	}
	return suggestions
}
