// Package dependency wires repositories, adapters, use cases and
// controllers into a ready-to-serve router.
package dependency

import (
	"fmt"
	"log/slog"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/isakbosman/manna/config"
	"github.com/isakbosman/manna/internal/application/adapter"
	"github.com/isakbosman/manna/internal/application/usecase/account"
	"github.com/isakbosman/manna/internal/application/usecase/auth"
	"github.com/isakbosman/manna/internal/application/usecase/categorization"
	"github.com/isakbosman/manna/internal/application/usecase/category"
	categoryrule "github.com/isakbosman/manna/internal/application/usecase/category_rule"
	"github.com/isakbosman/manna/internal/application/usecase/journal"
	"github.com/isakbosman/manna/internal/application/usecase/plaid"
	"github.com/isakbosman/manna/internal/application/usecase/reconciliation"
	"github.com/isakbosman/manna/internal/application/usecase/reports"
	"github.com/isakbosman/manna/internal/application/usecase/transaction"
	"github.com/isakbosman/manna/internal/infra/lock"
	"github.com/isakbosman/manna/internal/infra/server/router"
	"github.com/isakbosman/manna/internal/integration/adapters"
	"github.com/isakbosman/manna/internal/integration/email"
	"github.com/isakbosman/manna/internal/integration/email/templates"
	"github.com/isakbosman/manna/internal/integration/entrypoint/controller"
	"github.com/isakbosman/manna/internal/integration/entrypoint/middleware"
	"github.com/isakbosman/manna/internal/integration/persistence"
	"github.com/isakbosman/manna/internal/integration/plaidapi"
)

// Injector holds the wired application graph.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Router *router.Router

	// EmailWorker is nil when the worker is disabled by configuration.
	EmailWorker *email.Worker
}

// NewInjector builds the full dependency graph. The redis client may be
// nil, in which case bank sync endpoints are not registered because they
// need the distributed sync lock.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redislib.Client) (*Injector, error) {
	// Repositories
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db)
	accountRepo := persistence.NewAccountRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)
	categoryRuleRepo := persistence.NewCategoryRuleRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	itemRepo := persistence.NewItemRepository(db)
	suggestionRepo := persistence.NewSuggestionRepository(db)
	reconciliationRepo := persistence.NewReconciliationRepository(db)
	journalRepo := persistence.NewJournalRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)
	reportsRepo := persistence.NewReportRepository(db)

	// Adapters and services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, tokenRepo)
	resetTokenService := adapters.NewPasswordResetTokenService(tokenRepo)

	cipher, err := adapters.NewEnvelopeCipher(
		cfg.Encryption.Key,
		cfg.Encryption.LegacySecret,
		cfg.Encryption.LegacySalt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secret cipher: %w", err)
	}

	plaidClient := plaidapi.NewClient(&cfg.Plaid)
	emailService := email.NewService(emailQueueRepo, cfg.Email.AppBaseURL)

	emailWorker, err := buildEmailWorker(cfg, emailQueueRepo)
	if err != nil {
		return nil, err
	}

	// Health
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	})

	// Auth
	authController := controller.NewAuthController(
		auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService),
		auth.NewLoginUserUseCase(userRepo, passwordService, tokenService),
		auth.NewRefreshTokenUseCase(tokenService),
		auth.NewLogoutUserUseCase(tokenService),
		auth.NewForgotPasswordUseCase(userRepo, resetTokenService, emailService, cfg.Email.AppBaseURL),
		auth.NewResetPasswordUseCase(userRepo, passwordService, resetTokenService),
	)
	userController := controller.NewUserController(
		auth.NewDeleteAccountUseCase(userRepo, passwordService, tokenService),
	)

	// Accounts
	accountController := controller.NewAccountController(
		account.NewListAccountsUseCase(accountRepo),
		account.NewGetAccountUseCase(accountRepo),
		account.NewCreateAccountUseCase(accountRepo),
		account.NewUpdateAccountUseCase(accountRepo),
		account.NewDeleteAccountUseCase(accountRepo),
	)

	// Categories
	categoryController := controller.NewCategoryController(
		category.NewListCategoriesUseCase(categoryRepo),
		category.NewCreateCategoryUseCase(categoryRepo),
		category.NewUpdateCategoryUseCase(categoryRepo),
		category.NewDeleteCategoryUseCase(categoryRepo),
	)

	// Transactions
	transactionController := controller.NewTransactionController(
		transaction.NewListTransactionsUseCase(transactionRepo),
		transaction.NewCreateTransactionUseCase(transactionRepo, categoryRepo, categoryRuleRepo, accountRepo, journalRepo),
		transaction.NewUpdateTransactionUseCase(transactionRepo, categoryRepo, journalRepo),
		transaction.NewDeleteTransactionUseCase(transactionRepo, journalRepo),
		transaction.NewBulkDeleteTransactionsUseCase(transactionRepo, journalRepo),
		transaction.NewBulkCategorizeTransactionsUseCase(transactionRepo, categoryRepo, journalRepo),
	)

	// Category rules
	categoryRuleController := controller.NewCategoryRuleController(
		categoryrule.NewListCategoryRulesUseCase(categoryRuleRepo),
		categoryrule.NewCreateCategoryRuleUseCase(categoryRuleRepo, categoryRepo, transactionRepo),
		categoryrule.NewUpdateCategoryRuleUseCase(categoryRuleRepo, categoryRepo),
		categoryrule.NewDeleteCategoryRuleUseCase(categoryRuleRepo),
		categoryrule.NewReorderCategoryRulesUseCase(categoryRuleRepo),
		categoryrule.NewTestPatternUseCase(categoryRuleRepo),
	)

	// Bank linking and sync. The sync use case serializes runs per item
	// through a Redis lock, so the whole group stays off without Redis.
	var plaidController *controller.PlaidController
	if redisClient != nil {
		locker := lock.NewRedisLocker(redisClient)
		plaidController = controller.NewPlaidController(
			plaid.NewCreateLinkTokenUseCase(plaidClient),
			plaid.NewExchangePublicTokenUseCase(plaidClient, itemRepo, accountRepo, cipher),
			plaid.NewListItemsUseCase(itemRepo),
			plaid.NewSyncTransactionsUseCase(
				itemRepo,
				accountRepo,
				transactionRepo,
				categoryRepo,
				categoryRuleRepo,
				journalRepo,
				userRepo,
				plaidClient,
				cipher,
				locker,
				emailService,
				cfg.Sync.LockTTL,
				cfg.Sync.LockWait,
				cfg.Sync.MaxSyncPages,
			),
			plaid.NewRemoveItemUseCase(itemRepo, accountRepo, plaidClient, cipher),
		)
	} else {
		slog.Warn("Redis unavailable, bank sync endpoints disabled")
	}

	// Reconciliation
	reconciliationController := controller.NewReconciliationController(
		reconciliation.NewGetPendingUseCase(transactionRepo, reconciliationRepo),
		reconciliation.NewGetLinkedUseCase(reconciliationRepo),
		reconciliation.NewGetSummaryUseCase(transactionRepo, reconciliationRepo),
		reconciliation.NewTriggerReconciliationUseCase(transactionRepo, reconciliationRepo),
		reconciliation.NewManualLinkUseCase(transactionRepo, reconciliationRepo),
		reconciliation.NewUnlinkUseCase(reconciliationRepo),
	)

	// Categorization suggestions
	providers := []adapter.SuggestionProvider{
		adapters.NewRuleProvider(categoryRuleRepo),
		adapters.NewClassifierProvider(),
	}
	if cfg.Gemini.APIKey != "" {
		providers = append(providers, adapters.NewGeminiProvider(cfg.Gemini.APIKey))
	}
	tracker := categorization.NewInMemoryTracker()
	categorizationController := controller.NewCategorizationController(
		categorization.NewStartCategorizationUseCase(transactionRepo, categoryRepo, suggestionRepo, providers, tracker),
		categorization.NewGetStatusUseCase(suggestionRepo, tracker),
		categorization.NewGetSuggestionsUseCase(suggestionRepo),
		categorization.NewApproveSuggestionUseCase(suggestionRepo, transactionRepo, categoryRepo, categoryRuleRepo, journalRepo),
		categorization.NewRejectSuggestionUseCase(suggestionRepo),
		categorization.NewClearSuggestionsUseCase(suggestionRepo),
	)

	// Journal and reports
	journalController := controller.NewJournalController(
		journal.NewListEntriesUseCase(journalRepo),
		journal.NewGetTrialBalanceUseCase(journalRepo),
	)
	reportsController := controller.NewReportsController(
		reports.NewGetTrendsUseCase(reportsRepo),
		reports.NewGetCategoryBreakdownUseCase(reportsRepo),
		reports.NewGetCategoryTrendsUseCase(transactionRepo),
		reports.NewGetCashFlowUseCase(reportsRepo),
		reports.NewGetDataRangeUseCase(reportsRepo),
	)

	// Middleware
	var loginRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "e2e" || cfg.Server.Environment == "test" {
		loginRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		loginRateLimiter = middleware.NewRateLimiter()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	r := router.NewRouter(
		healthController,
		authController,
		userController,
		accountController,
		categoryController,
		transactionController,
		categoryRuleController,
		plaidController,
		reconciliationController,
		categorizationController,
		journalController,
		reportsController,
		loginRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config:      cfg,
		DB:          db,
		Router:      r,
		EmailWorker: emailWorker,
	}, nil
}

// buildEmailWorker assembles the background email worker, or returns nil
// when it is disabled by configuration. Without a Resend API key the
// worker logs deliveries instead of sending them.
func buildEmailWorker(cfg *config.Config, queue adapter.EmailQueueRepository) (*email.Worker, error) {
	if !cfg.Email.WorkerEnabled {
		return nil, nil
	}

	var sender adapter.EmailSender
	if cfg.Email.ResendAPIKey != "" {
		sender = email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
	} else {
		slog.Warn("No email API key configured, using mock sender")
		sender = email.NewMockEmailSender()
	}

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email templates: %w", err)
	}

	return email.NewWorker(queue, sender, renderer, email.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
	}), nil
}
