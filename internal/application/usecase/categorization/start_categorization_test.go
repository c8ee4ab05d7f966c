package categorization

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
)

// fakeTxnRepo embeds the interface and overrides what the engine touches.
type fakeTxnRepo struct {
	adapter.TransactionRepository

	uncategorized []*entity.Transaction
	categorized   []*entity.Transaction
	byID          map[uuid.UUID]*entity.Transaction
}

func (r *fakeTxnRepo) FindUncategorizedByUser(_ context.Context, _ uuid.UUID, _ int) ([]*entity.Transaction, error) {
	return r.uncategorized, nil
}

func (r *fakeTxnRepo) FindCategorizedByUser(_ context.Context, _ uuid.UUID, _ int) ([]*entity.Transaction, error) {
	return r.categorized, nil
}

type fakeCategoryRepo struct {
	adapter.CategoryRepository

	categories []*entity.Category
}

func (r *fakeCategoryRepo) FindByUser(_ context.Context, _ uuid.UUID) ([]*entity.Category, error) {
	return r.categories, nil
}

// fakeSuggestionRepo captures batches and signals when one lands.
type fakeSuggestionRepo struct {
	adapter.SuggestionRepository

	mu          sync.Mutex
	batches     [][]*entity.CategorySuggestion
	saved       chan struct{}
	suggestions map[uuid.UUID]*entity.CategorySuggestion
}

func newFakeSuggestionRepo() *fakeSuggestionRepo {
	return &fakeSuggestionRepo{saved: make(chan struct{}, 1)}
}

func (r *fakeSuggestionRepo) CreateBatch(_ context.Context, suggestions []*entity.CategorySuggestion) error {
	r.mu.Lock()
	r.batches = append(r.batches, suggestions)
	r.mu.Unlock()
	select {
	case r.saved <- struct{}{}:
	default:
	}
	return nil
}

func (r *fakeSuggestionRepo) lastBatch() []*entity.CategorySuggestion {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.batches) == 0 {
		return nil
	}
	return r.batches[len(r.batches)-1]
}

// scriptedProvider returns fixed proposals and records what it was asked.
type scriptedProvider struct {
	mu        sync.Mutex
	proposals []adapter.ProviderSuggestion
	err       error
	seen      [][]*entity.Transaction
}

func (p *scriptedProvider) Suggest(_ context.Context, cc adapter.CategorizationContext) ([]adapter.ProviderSuggestion, error) {
	p.mu.Lock()
	p.seen = append(p.seen, cc.Transactions)
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return p.proposals, nil
}

func (p *scriptedProvider) lastSeen() []*entity.Transaction {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.seen) == 0 {
		return nil
	}
	return p.seen[len(p.seen)-1]
}

func uncategorizedTxn(userID uuid.UUID, description string) *entity.Transaction {
	return entity.NewTransaction(
		userID,
		nil,
		time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
		description,
		decimal.NewFromFloat(-10),
		entity.TransactionTypeExpense,
		nil,
		"",
	)
}

func proposalFor(txn *entity.Transaction, categoryID uuid.UUID, source entity.SuggestionSource) adapter.ProviderSuggestion {
	id := categoryID.String()
	return adapter.ProviderSuggestion{
		TransactionID: txn.ID.String(),
		CategoryID:    &id,
		MatchType:     entity.MatchTypeContains,
		MatchKeyword:  "keyword",
		Confidence:    0.9,
		Source:        source,
	}
}

func waitForSave(t *testing.T, repo *fakeSuggestionRepo) {
	t.Helper()
	select {
	case <-repo.saved:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for suggestions to be saved")
	}
}

func TestStartCategorization(t *testing.T) {
	ctx := context.Background()

	t.Run("fails when nothing is uncategorized", func(t *testing.T) {
		useCase := NewStartCategorizationUseCase(
			&fakeTxnRepo{},
			&fakeCategoryRepo{},
			newFakeSuggestionRepo(),
			nil,
			NewInMemoryTracker(),
		)

		_, err := useCase.Execute(ctx, StartCategorizationInput{UserID: uuid.New()})
		if !errors.Is(err, domainerror.ErrNoUncategorized) {
			t.Fatalf("expected ErrNoUncategorized, got %v", err)
		}
	})

	t.Run("refuses a second run while one is in flight", func(t *testing.T) {
		userID := uuid.New()
		tracker := NewInMemoryTracker()
		tracker.TryStart(userID, "running")

		useCase := NewStartCategorizationUseCase(
			&fakeTxnRepo{uncategorized: []*entity.Transaction{uncategorizedTxn(userID, "COFFEE")}},
			&fakeCategoryRepo{},
			newFakeSuggestionRepo(),
			nil,
			tracker,
		)

		_, err := useCase.Execute(ctx, StartCategorizationInput{UserID: userID})
		if !errors.Is(err, domainerror.ErrCategorizationRunning) {
			t.Fatalf("expected ErrCategorizationRunning, got %v", err)
		}
	})

	t.Run("persists proposals from the first provider", func(t *testing.T) {
		userID := uuid.New()
		txn := uncategorizedTxn(userID, "COFFEE SHOP")
		categoryID := uuid.New()
		provider := &scriptedProvider{
			proposals: []adapter.ProviderSuggestion{proposalFor(txn, categoryID, entity.SuggestionSourceRule)},
		}
		repo := newFakeSuggestionRepo()

		useCase := NewStartCategorizationUseCase(
			&fakeTxnRepo{uncategorized: []*entity.Transaction{txn}},
			&fakeCategoryRepo{},
			repo,
			[]adapter.SuggestionProvider{provider},
			NewInMemoryTracker(),
		)

		output, err := useCase.Execute(ctx, StartCategorizationInput{UserID: userID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.JobID == "" {
			t.Error("expected a job id")
		}

		waitForSave(t, repo)
		batch := repo.lastBatch()
		if len(batch) != 1 {
			t.Fatalf("expected 1 suggestion, got %d", len(batch))
		}
		if batch[0].SuggestedCategoryID == nil || *batch[0].SuggestedCategoryID != categoryID {
			t.Error("expected the proposed category to be persisted")
		}
		if batch[0].Source != entity.SuggestionSourceRule {
			t.Errorf("expected rule source, got %s", batch[0].Source)
		}
	})

	t.Run("later layers only see uncovered transactions", func(t *testing.T) {
		userID := uuid.New()
		covered := uncategorizedTxn(userID, "COFFEE SHOP")
		leftover := uncategorizedTxn(userID, "MYSTERY CHARGE")
		categoryID := uuid.New()

		first := &scriptedProvider{
			proposals: []adapter.ProviderSuggestion{proposalFor(covered, categoryID, entity.SuggestionSourceRule)},
		}
		second := &scriptedProvider{
			proposals: []adapter.ProviderSuggestion{proposalFor(leftover, categoryID, entity.SuggestionSourceClassifier)},
		}
		repo := newFakeSuggestionRepo()

		useCase := NewStartCategorizationUseCase(
			&fakeTxnRepo{uncategorized: []*entity.Transaction{covered, leftover}},
			&fakeCategoryRepo{},
			repo,
			[]adapter.SuggestionProvider{first, second},
			NewInMemoryTracker(),
		)

		if _, err := useCase.Execute(ctx, StartCategorizationInput{UserID: userID}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		waitForSave(t, repo)

		seen := second.lastSeen()
		if len(seen) != 1 || seen[0].ID != leftover.ID {
			t.Errorf("expected the second layer to only see the uncovered transaction, got %d", len(seen))
		}
		if len(repo.lastBatch()) != 2 {
			t.Errorf("expected both layers' suggestions saved, got %d", len(repo.lastBatch()))
		}
	})

	t.Run("a failing layer does not discard earlier results", func(t *testing.T) {
		userID := uuid.New()
		txn := uncategorizedTxn(userID, "COFFEE SHOP")
		other := uncategorizedTxn(userID, "MYSTERY CHARGE")
		categoryID := uuid.New()

		first := &scriptedProvider{
			proposals: []adapter.ProviderSuggestion{proposalFor(txn, categoryID, entity.SuggestionSourceRule)},
		}
		second := &scriptedProvider{err: errors.New("rate limit exceeded")}
		repo := newFakeSuggestionRepo()
		tracker := NewInMemoryTracker()

		useCase := NewStartCategorizationUseCase(
			&fakeTxnRepo{uncategorized: []*entity.Transaction{txn, other}},
			&fakeCategoryRepo{},
			repo,
			[]adapter.SuggestionProvider{first, second},
			tracker,
		)

		if _, err := useCase.Execute(ctx, StartCategorizationInput{UserID: userID}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		waitForSave(t, repo)

		if len(repo.lastBatch()) != 1 {
			t.Errorf("expected the rule suggestion to survive, got %d", len(repo.lastBatch()))
		}
		status := tracker.Status(userID)
		if status.LastError == nil || status.LastError.Code != RunErrCodeRateLimited {
			t.Errorf("expected a rate limit run error, got %+v", status.LastError)
		}
	})
}
