package plaid

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/domain/entity"
	domainerror "github.com/isakbosman/manna/internal/domain/error"
)

// fakeItemRepo is an in-memory ItemRepository.
type fakeItemRepo struct {
	items          map[uuid.UUID]*entity.PlaidItem
	cursorConflict bool
	statusUpdates  []entity.ItemStatus
	tokenUpdates   []string
}

func newFakeItemRepo(items ...*entity.PlaidItem) *fakeItemRepo {
	r := &fakeItemRepo{items: make(map[uuid.UUID]*entity.PlaidItem)}
	for _, item := range items {
		r.items[item.ID] = item
	}
	return r
}

func (r *fakeItemRepo) Create(_ context.Context, item *entity.PlaidItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *fakeItemRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.PlaidItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, domainerror.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeItemRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*entity.PlaidItem, error) {
	var out []*entity.PlaidItem
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) FindByPlaidItemID(_ context.Context, plaidItemID string) (*entity.PlaidItem, error) {
	for _, item := range r.items {
		if item.PlaidItemID == plaidItemID {
			return item, nil
		}
	}
	return nil, domainerror.ErrItemNotFound
}

func (r *fakeItemRepo) Update(_ context.Context, item *entity.PlaidItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *fakeItemRepo) UpdateSyncCursor(_ context.Context, itemID uuid.UUID, cursor string, expectedVersion int64) error {
	item, ok := r.items[itemID]
	if !ok {
		return domainerror.ErrItemNotFound
	}
	if r.cursorConflict || item.Version != expectedVersion {
		return domainerror.NewPlaidError(
			domainerror.ErrCodeItemVersionConflict,
			domainerror.ErrItemVersionConflict.Error(),
			domainerror.ErrItemVersionConflict,
		)
	}
	item.SyncCursor = cursor
	item.Version++
	return nil
}

func (r *fakeItemRepo) UpdateStatus(_ context.Context, itemID uuid.UUID, status entity.ItemStatus, syncError string) error {
	item, ok := r.items[itemID]
	if !ok {
		return domainerror.ErrItemNotFound
	}
	item.Status = status
	item.LastSyncError = syncError
	r.statusUpdates = append(r.statusUpdates, status)
	return nil
}

func (r *fakeItemRepo) UpdateEncryptedAccessToken(_ context.Context, itemID uuid.UUID, encryptedToken string) error {
	item, ok := r.items[itemID]
	if !ok {
		return domainerror.ErrItemNotFound
	}
	item.EncryptedAccessToken = encryptedToken
	r.tokenUpdates = append(r.tokenUpdates, encryptedToken)
	return nil
}

func (r *fakeItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

// fakeAccountRepo records upserts.
type fakeAccountRepo struct {
	upserts []*entity.Account
}

func (r *fakeAccountRepo) Create(_ context.Context, _ *entity.Account) error { return nil }
func (r *fakeAccountRepo) FindByID(_ context.Context, _ uuid.UUID) (*entity.Account, error) {
	return nil, domainerror.ErrAccountNotFound
}
func (r *fakeAccountRepo) FindByUser(_ context.Context, _ uuid.UUID) ([]*entity.Account, error) {
	return nil, nil
}
func (r *fakeAccountRepo) FindByItem(_ context.Context, _ uuid.UUID) ([]*entity.Account, error) {
	return nil, nil
}
func (r *fakeAccountRepo) FindByPlaidAccountID(_ context.Context, _ uuid.UUID, _ string) (*entity.Account, error) {
	return nil, domainerror.ErrAccountNotFound
}
func (r *fakeAccountRepo) Update(_ context.Context, _ *entity.Account) error { return nil }
func (r *fakeAccountRepo) UpsertPlaidAccount(_ context.Context, account *entity.Account) error {
	r.upserts = append(r.upserts, account)
	return nil
}
func (r *fakeAccountRepo) Delete(_ context.Context, _ uuid.UUID) error       { return nil }
func (r *fakeAccountRepo) DeleteByItem(_ context.Context, _ uuid.UUID) error { return nil }

// fakeTransactionRepo records Plaid upserts and deletions.
type fakeTransactionRepo struct {
	adapter.TransactionRepository

	upserts   []*entity.Transaction
	deleted   []string
	byPlaidID map[string]*entity.Transaction
}

func (r *fakeTransactionRepo) UpsertPlaidTransaction(_ context.Context, transaction *entity.Transaction) error {
	r.upserts = append(r.upserts, transaction)
	return nil
}

func (r *fakeTransactionRepo) FindByPlaidID(_ context.Context, _ uuid.UUID, plaidTransactionID string) (*entity.Transaction, error) {
	txn, ok := r.byPlaidID[plaidTransactionID]
	if !ok {
		return nil, domainerror.ErrTransactionNotFound
	}
	return txn, nil
}

func (r *fakeTransactionRepo) DeleteByPlaidID(_ context.Context, _ uuid.UUID, plaidTransactionID string) error {
	r.deleted = append(r.deleted, plaidTransactionID)
	return nil
}

// fakeCategoryRepo serves a fixed category set.
type fakeCategoryRepo struct {
	adapter.CategoryRepository

	categories []*entity.Category
}

func (r *fakeCategoryRepo) FindByUser(_ context.Context, _ uuid.UUID) ([]*entity.Category, error) {
	return r.categories, nil
}

// fakeJournalRepo records derived journal entries.
type fakeJournalRepo struct {
	adapter.JournalRepository

	upserts []*entity.JournalEntry
	deleted []uuid.UUID
}

func (r *fakeJournalRepo) Upsert(_ context.Context, entry *entity.JournalEntry) error {
	r.upserts = append(r.upserts, entry)
	return nil
}

func (r *fakeJournalRepo) DeleteByTransaction(_ context.Context, transactionID uuid.UUID) error {
	r.deleted = append(r.deleted, transactionID)
	return nil
}

// fakeRuleRepo serves a fixed active rule set.
type fakeRuleRepo struct {
	adapter.CategoryRuleRepository

	rules []*entity.CategoryRule
}

func (r *fakeRuleRepo) FindActiveByUser(_ context.Context, _ uuid.UUID) ([]*entity.CategoryRule, error) {
	return r.rules, nil
}

// fakeUserRepo serves a single user.
type fakeUserRepo struct {
	adapter.UserRepository

	user *entity.User
}

func (r *fakeUserRepo) FindByID(_ context.Context, _ uuid.UUID) (*entity.User, error) {
	return r.user, nil
}

// fakePlaidClient pages through scripted sync responses.
type fakePlaidClient struct {
	accounts []adapter.PlaidAccount
	pages    []*adapter.SyncPage
	syncErr  error
	calls    int
	cursors  []string
}

func (c *fakePlaidClient) CreateLinkToken(_ context.Context, _ string) (string, error) {
	return "link-sandbox-token", nil
}
func (c *fakePlaidClient) ExchangePublicToken(_ context.Context, _ string) (*adapter.ExchangeResult, error) {
	return &adapter.ExchangeResult{AccessToken: "access-token", ItemID: "item-abc"}, nil
}
func (c *fakePlaidClient) GetItemInstitution(_ context.Context, _ string) (*adapter.Institution, error) {
	return &adapter.Institution{ID: "ins_1", Name: "First Platypus Bank"}, nil
}
func (c *fakePlaidClient) GetAccounts(_ context.Context, _ string) ([]adapter.PlaidAccount, error) {
	return c.accounts, nil
}
func (c *fakePlaidClient) SyncTransactions(_ context.Context, _ string, cursor string) (*adapter.SyncPage, error) {
	if c.syncErr != nil {
		return nil, c.syncErr
	}
	c.cursors = append(c.cursors, cursor)
	if c.calls >= len(c.pages) {
		return &adapter.SyncPage{NextCursor: cursor, HasMore: false}, nil
	}
	page := c.pages[c.calls]
	c.calls++
	return page, nil
}
func (c *fakePlaidClient) RemoveItem(_ context.Context, _ string) error { return nil }

// fakeCipher prefixes plaintext to simulate encryption. Values carrying the
// legacy prefix report needing rotation.
type fakeCipher struct{}

func (fakeCipher) Encrypt(plaintext string) (string, error) { return "v2:" + plaintext, nil }
func (fakeCipher) Decrypt(ciphertext string) (string, error) {
	if rest, ok := strings.CutPrefix(ciphertext, "v2:"); ok {
		return rest, nil
	}
	if rest, ok := strings.CutPrefix(ciphertext, "v1:"); ok {
		return rest, nil
	}
	return "", domainerror.NewPlaidError(
		domainerror.ErrCodeTokenDecryptFailed,
		domainerror.ErrTokenDecryptFailed.Error(),
		domainerror.ErrTokenDecryptFailed,
	)
}
func (fakeCipher) NeedsRotation(ciphertext string) bool {
	return strings.HasPrefix(ciphertext, "v1:")
}

// fakeLock and fakeLocker implement the sync lock ports.
type fakeLock struct {
	released bool
	extends  int
}

func (l *fakeLock) Release(_ context.Context) error { l.released = true; return nil }
func (l *fakeLock) Extend(_ context.Context, _ time.Duration) error {
	l.extends++
	return nil
}

type fakeLocker struct {
	lock *fakeLock
	held bool
	keys []string
}

func (l *fakeLocker) Acquire(_ context.Context, key string, _, _ time.Duration) (adapter.SyncLock, error) {
	l.keys = append(l.keys, key)
	if l.held {
		return nil, domainerror.ErrSyncInProgress
	}
	if l.lock == nil {
		l.lock = &fakeLock{}
	}
	return l.lock, nil
}

// fakeEmailService records queued sync failure emails.
type fakeEmailService struct {
	syncFailed []adapter.QueueSyncFailedInput
}

func (s *fakeEmailService) QueuePasswordResetEmail(_ context.Context, _ adapter.QueuePasswordResetInput) error {
	return nil
}
func (s *fakeEmailService) QueueSyncFailedEmail(_ context.Context, input adapter.QueueSyncFailedInput) error {
	s.syncFailed = append(s.syncFailed, input)
	return nil
}

type syncFixture struct {
	useCase    *SyncTransactionsUseCase
	item       *entity.PlaidItem
	user       *entity.User
	items      *fakeItemRepo
	accounts   *fakeAccountRepo
	txns       *fakeTransactionRepo
	categories *fakeCategoryRepo
	journal    *fakeJournalRepo
	client     *fakePlaidClient
	locker     *fakeLocker
	emails     *fakeEmailService
	rules      *fakeRuleRepo
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()

	user := entity.NewUser("jo@example.com", "Jo", "hash", time.Now().UTC())
	item := entity.NewPlaidItem(user.ID, "item-abc", "ins_1", "First Platypus Bank", "v2:access-token")

	f := &syncFixture{
		item:       item,
		user:       user,
		items:      newFakeItemRepo(item),
		accounts:   &fakeAccountRepo{},
		txns:       &fakeTransactionRepo{},
		categories: &fakeCategoryRepo{},
		journal:    &fakeJournalRepo{},
		client: &fakePlaidClient{
			accounts: []adapter.PlaidAccount{
				{
					PlaidAccountID: "acc-1",
					Name:           "Checking",
					Type:           "depository",
					Subtype:        "checking",
					CurrentBalance: decimal.NewFromFloat(1250.50),
					Currency:       "USD",
				},
			},
		},
		locker: &fakeLocker{},
		emails: &fakeEmailService{},
		rules:  &fakeRuleRepo{},
	}

	f.useCase = NewSyncTransactionsUseCase(
		f.items,
		f.accounts,
		f.txns,
		f.categories,
		f.rules,
		f.journal,
		&fakeUserRepo{user: user},
		f.client,
		fakeCipher{},
		f.locker,
		f.emails,
		90*time.Second,
		5*time.Second,
		50,
	)
	return f
}

func plaidTxn(id, accountID, description string, amount float64) adapter.PlaidTransaction {
	return adapter.PlaidTransaction{
		PlaidTransactionID: id,
		PlaidAccountID:     accountID,
		Date:               time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Description:        description,
		Amount:             decimal.NewFromFloat(amount),
		Currency:           "USD",
	}
}

func TestSyncTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("applies added, modified and removed across pages", func(t *testing.T) {
		f := newSyncFixture(t)
		f.client.pages = []*adapter.SyncPage{
			{
				Added:      []adapter.PlaidTransaction{plaidTxn("p-1", "acc-1", "COFFEE SHOP", 4.50)},
				NextCursor: "cursor-1",
				HasMore:    true,
			},
			{
				Added:      []adapter.PlaidTransaction{plaidTxn("p-2", "acc-1", "PAYROLL", 2000)},
				Modified:   []adapter.PlaidTransaction{plaidTxn("p-1", "acc-1", "COFFEE SHOP #42", 4.50)},
				Removed:    []string{"p-0"},
				NextCursor: "cursor-2",
				HasMore:    false,
			},
		}

		initialVersion := f.item.Version

		output, err := f.useCase.Execute(ctx, SyncTransactionsInput{ItemID: f.item.ID, UserID: f.user.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		result := output.Result
		if result.Added != 2 || result.Modified != 1 || result.Removed != 1 {
			t.Errorf("got added=%d modified=%d removed=%d, want 2/1/1",
				result.Added, result.Modified, result.Removed)
		}
		if result.Pages != 2 {
			t.Errorf("expected 2 pages, got %d", result.Pages)
		}
		if result.NextCursor != "cursor-2" {
			t.Errorf("expected cursor-2, got %q", result.NextCursor)
		}

		stored := f.items.items[f.item.ID]
		if stored.SyncCursor != "cursor-2" {
			t.Errorf("cursor not persisted, got %q", stored.SyncCursor)
		}
		if stored.Version != initialVersion+1 {
			t.Errorf("version not advanced, got %d", stored.Version)
		}
		if len(f.txns.deleted) != 1 || f.txns.deleted[0] != "p-0" {
			t.Errorf("expected p-0 deleted, got %v", f.txns.deleted)
		}
		if !f.locker.lock.released {
			t.Error("lock was not released")
		}
	})

	t.Run("fails fast when another sync holds the lock", func(t *testing.T) {
		f := newSyncFixture(t)
		f.locker.held = true

		_, err := f.useCase.Execute(ctx, SyncTransactionsInput{ItemID: f.item.ID, UserID: f.user.ID})
		if !errors.Is(err, domainerror.ErrSyncInProgress) {
			t.Fatalf("expected ErrSyncInProgress, got %v", err)
		}

		var plaidErr *domainerror.PlaidError
		if !errors.As(err, &plaidErr) || plaidErr.Code != domainerror.ErrCodeSyncInProgress {
			t.Errorf("expected code %s, got %+v", domainerror.ErrCodeSyncInProgress, err)
		}
	})

	t.Run("locks are keyed per item", func(t *testing.T) {
		f := newSyncFixture(t)

		_, err := f.useCase.Execute(ctx, SyncTransactionsInput{ItemID: f.item.ID, UserID: f.user.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "sync:item:" + f.item.ID.String()
		if len(f.locker.keys) != 1 || f.locker.keys[0] != want {
			t.Errorf("expected lock key %q, got %v", want, f.locker.keys)
		}
	})

	t.Run("surfaces a version conflict from the cursor update", func(t *testing.T) {
		f := newSyncFixture(t)
		f.items.cursorConflict = true

		_, err := f.useCase.Execute(ctx, SyncTransactionsInput{ItemID: f.item.ID, UserID: f.user.ID})
		if !errors.Is(err, domainerror.ErrItemVersionConflict) {
			t.Fatalf("expected ErrItemVersionConflict, got %v", err)
		}
	})

	t.Run("rejects a user who does not own the item", func(t *testing.T) {
		f := newSyncFixture(t)

		_, err := f.useCase.Execute(ctx, SyncTransactionsInput{ItemID: f.item.ID, UserID: uuid.New()})
		if !errors.Is(err, domainerror.ErrNotAuthorizedItem) {
			t.Fatalf("expected ErrNotAuthorizedItem, got %v", err)
		}
	})

	t.Run("re-encrypts tokens stored under the legacy scheme", func(t *testing.T) {
		f := newSyncFixture(t)
		f.items.items[f.item.ID].EncryptedAccessToken = "v1:access-token"

		_, err := f.useCase.Execute(ctx, SyncTransactionsInput{ItemID: f.item.ID, UserID: f.user.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.items.tokenUpdates) != 1 || f.items.tokenUpdates[0] != "v2:access-token" {
			t.Errorf("expected token rotated to v2, got %v", f.items.tokenUpdates)
		}
	})

	t.Run("marks login_error and queues an email when the bank requires re-auth", func(t *testing.T) {
		f := newSyncFixture(t)
		f.client.syncErr = domainerror.NewPlaidError(
			domainerror.ErrCodeItemLoginRequired,
			"the login details of this item have changed",
			domainerror.ErrItemLoginRequired,
		)

		_, err := f.useCase.Execute(ctx, SyncTransactionsInput{ItemID: f.item.ID, UserID: f.user.ID})
		if !errors.Is(err, domainerror.ErrItemLoginRequired) {
			t.Fatalf("expected ErrItemLoginRequired, got %v", err)
		}

		stored := f.items.items[f.item.ID]
		if stored.Status != entity.ItemStatusLoginError {
			t.Errorf("expected status login_error, got %s", stored.Status)
		}
		if len(f.emails.syncFailed) != 1 {
			t.Fatalf("expected 1 sync failure email, got %d", len(f.emails.syncFailed))
		}
		if f.emails.syncFailed[0].InstitutionName != "First Platypus Bank" {
			t.Errorf("unexpected institution in email: %q", f.emails.syncFailed[0].InstitutionName)
		}
	})

	t.Run("does not email again while already in login_error", func(t *testing.T) {
		f := newSyncFixture(t)
		f.items.items[f.item.ID].Status = entity.ItemStatusLoginError
		f.client.syncErr = domainerror.NewPlaidError(
			domainerror.ErrCodeItemLoginRequired,
			"still broken",
			domainerror.ErrItemLoginRequired,
		)

		_, _ = f.useCase.Execute(ctx, SyncTransactionsInput{ItemID: f.item.ID, UserID: f.user.ID})
		if len(f.emails.syncFailed) != 0 {
			t.Errorf("expected no email on repeat failure, got %d", len(f.emails.syncFailed))
		}
	})

	t.Run("seeds categories from matching rules on ingest", func(t *testing.T) {
		f := newSyncFixture(t)
		categoryID := uuid.New()
		f.rules.rules = []*entity.CategoryRule{
			entity.NewCategoryRule(f.user.ID, "coffee", categoryID, 1),
		}
		f.client.pages = []*adapter.SyncPage{
			{
				Added: []adapter.PlaidTransaction{
					plaidTxn("p-1", "acc-1", "COFFEE SHOP", 4.50),
					plaidTxn("p-2", "acc-1", "HARDWARE STORE", 25),
				},
				NextCursor: "cursor-1",
				HasMore:    false,
			},
		}

		_, err := f.useCase.Execute(ctx, SyncTransactionsInput{ItemID: f.item.ID, UserID: f.user.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.txns.upserts) != 2 {
			t.Fatalf("expected 2 upserts, got %d", len(f.txns.upserts))
		}
		if f.txns.upserts[0].CategoryID == nil || *f.txns.upserts[0].CategoryID != categoryID {
			t.Error("expected coffee transaction to be categorized")
		}
		if f.txns.upserts[1].CategoryID != nil {
			t.Error("expected hardware transaction to stay uncategorized")
		}
	})

	t.Run("derives a journal entry for every synced transaction", func(t *testing.T) {
		f := newSyncFixture(t)
		category := entity.NewCategory(f.user.ID, "Coffee", "#6f4e37", "coffee", entity.CategoryTypeExpense)
		f.categories.categories = []*entity.Category{category}
		f.rules.rules = []*entity.CategoryRule{
			entity.NewCategoryRule(f.user.ID, "coffee", category.ID, 1),
		}
		f.client.pages = []*adapter.SyncPage{
			{
				Added: []adapter.PlaidTransaction{
					plaidTxn("p-1", "acc-1", "COFFEE SHOP", 4.50),
					plaidTxn("p-2", "acc-1", "PAYROLL", -2000),
				},
				NextCursor: "cursor-1",
				HasMore:    false,
			},
		}

		_, err := f.useCase.Execute(ctx, SyncTransactionsInput{ItemID: f.item.ID, UserID: f.user.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.journal.upserts) != 2 {
			t.Fatalf("expected 2 journal entries, got %d", len(f.journal.upserts))
		}

		expense := f.journal.upserts[0]
		if expense.DebitAccount != "Expenses:Coffee" || expense.CreditAccount != "Assets:Cash" {
			t.Errorf("expense posted to %s / %s", expense.DebitAccount, expense.CreditAccount)
		}
		if !expense.Amount.Equal(decimal.NewFromFloat(4.50)) {
			t.Errorf("expected amount 4.50, got %s", expense.Amount)
		}
		if expense.TransactionID != f.txns.upserts[0].ID {
			t.Error("journal entry not keyed to the upserted transaction")
		}

		income := f.journal.upserts[1]
		if income.DebitAccount != "Assets:Cash" || income.CreditAccount != "Income:Uncategorized" {
			t.Errorf("income posted to %s / %s", income.DebitAccount, income.CreditAccount)
		}
	})

	t.Run("drops the journal entry of a removed transaction", func(t *testing.T) {
		f := newSyncFixture(t)
		stored := entity.NewPlaidTransaction(
			f.user.ID, uuid.New(), "p-0",
			time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			"OLD PURCHASE", "", decimal.NewFromFloat(-12), false,
		)
		f.txns.byPlaidID = map[string]*entity.Transaction{"p-0": stored}
		f.client.pages = []*adapter.SyncPage{
			{Removed: []string{"p-0"}, NextCursor: "cursor-1", HasMore: false},
		}

		_, err := f.useCase.Execute(ctx, SyncTransactionsInput{ItemID: f.item.ID, UserID: f.user.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.journal.deleted) != 1 || f.journal.deleted[0] != stored.ID {
			t.Errorf("expected journal entry for %s deleted, got %v", stored.ID, f.journal.deleted)
		}
		if len(f.txns.deleted) != 1 || f.txns.deleted[0] != "p-0" {
			t.Errorf("expected p-0 deleted, got %v", f.txns.deleted)
		}
	})

	t.Run("stops at the page budget and keeps the cursor resumable", func(t *testing.T) {
		f := newSyncFixture(t)
		f.useCase.maxPages = 1
		f.client.pages = []*adapter.SyncPage{
			{
				Added:      []adapter.PlaidTransaction{plaidTxn("p-1", "acc-1", "ONE", 1)},
				NextCursor: "cursor-1",
				HasMore:    true,
			},
			{
				Added:      []adapter.PlaidTransaction{plaidTxn("p-2", "acc-1", "TWO", 2)},
				NextCursor: "cursor-2",
				HasMore:    false,
			},
		}

		output, err := f.useCase.Execute(ctx, SyncTransactionsInput{ItemID: f.item.ID, UserID: f.user.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Result.Pages != 1 {
			t.Errorf("expected 1 page, got %d", output.Result.Pages)
		}
		if f.items.items[f.item.ID].SyncCursor != "cursor-1" {
			t.Errorf("expected resumable cursor-1, got %q", f.items.items[f.item.ID].SyncCursor)
		}
	})
}
