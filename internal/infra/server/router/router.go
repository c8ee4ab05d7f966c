// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/isakbosman/manna/internal/integration/entrypoint/controller"
	"github.com/isakbosman/manna/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                   *gin.Engine
	healthController         *controller.HealthController
	authController           *controller.AuthController
	userController           *controller.UserController
	accountController        *controller.AccountController
	categoryController       *controller.CategoryController
	transactionController    *controller.TransactionController
	categoryRuleController   *controller.CategoryRuleController
	plaidController          *controller.PlaidController
	reconciliationController *controller.ReconciliationController
	categorizationController *controller.CategorizationController
	journalController        *controller.JournalController
	reportsController        *controller.ReportsController
	loginRateLimiter         *middleware.RateLimiter
	authMiddleware           *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	userController *controller.UserController,
	accountController *controller.AccountController,
	categoryController *controller.CategoryController,
	transactionController *controller.TransactionController,
	categoryRuleController *controller.CategoryRuleController,
	plaidController *controller.PlaidController,
	reconciliationController *controller.ReconciliationController,
	categorizationController *controller.CategorizationController,
	journalController *controller.JournalController,
	reportsController *controller.ReportsController,
	loginRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:         healthController,
		authController:           authController,
		userController:           userController,
		accountController:        accountController,
		categoryController:       categoryController,
		transactionController:    transactionController,
		categoryRuleController:   categoryRuleController,
		plaidController:          plaidController,
		reconciliationController: reconciliationController,
		categorizationController: categorizationController,
		journalController:        journalController,
		reportsController:        reportsController,
		loginRateLimiter:         loginRateLimiter,
		authMiddleware:           authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	// Setup routes
	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	// API v1 group
	v1 := r.engine.Group("/api/v1")
	{
		// Auth routes (only setup if auth controller is available)
		if r.authController != nil && r.loginRateLimiter != nil {
			auth := v1.Group("/auth")
			{
				auth.POST("/register", r.authController.Register)
				auth.POST("/login", r.loginRateLimiter.Middleware(), r.authController.Login)
				auth.POST("/refresh", r.authController.RefreshToken)
				auth.POST("/logout", r.authController.Logout)
				auth.POST("/forgot-password", r.authController.ForgotPassword)
				auth.POST("/reset-password", r.authController.ResetPassword)
			}
		}

		// User routes (require authentication)
		if r.userController != nil && r.authMiddleware != nil {
			users := v1.Group("/users")
			users.Use(r.authMiddleware.Authenticate())
			{
				users.DELETE("/me", r.userController.DeleteAccount)
			}
		}

		// Account routes (require authentication)
		if r.accountController != nil && r.authMiddleware != nil {
			accounts := v1.Group("/accounts")
			accounts.Use(r.authMiddleware.Authenticate())
			{
				accounts.GET("", r.accountController.List)
				accounts.GET("/:id", r.accountController.Get)
				accounts.POST("", r.accountController.Create)
				accounts.PATCH("/:id", r.accountController.Update)
				accounts.DELETE("/:id", r.accountController.Delete)
			}
		}

		// Category routes (require authentication)
		if r.categoryController != nil && r.authMiddleware != nil {
			categories := v1.Group("/categories")
			categories.Use(r.authMiddleware.Authenticate())
			{
				categories.GET("", r.categoryController.List)
				categories.POST("", r.categoryController.Create)
				categories.PATCH("/:id", r.categoryController.Update)
				categories.DELETE("/:id", r.categoryController.Delete)
			}
		}

		// Transaction routes (require authentication)
		if r.transactionController != nil && r.authMiddleware != nil {
			transactions := v1.Group("/transactions")
			transactions.Use(r.authMiddleware.Authenticate())
			{
				transactions.GET("", r.transactionController.List)
				transactions.POST("", r.transactionController.Create)
				transactions.PATCH("/:id", r.transactionController.Update)
				transactions.DELETE("/:id", r.transactionController.Delete)
				transactions.POST("/bulk-delete", r.transactionController.BulkDelete)
				transactions.POST("/bulk-categorize", r.transactionController.BulkCategorize)
			}
		}

		// Category rule routes (require authentication)
		if r.categoryRuleController != nil && r.authMiddleware != nil {
			categoryRules := v1.Group("/category-rules")
			categoryRules.Use(r.authMiddleware.Authenticate())
			{
				categoryRules.GET("", r.categoryRuleController.List)
				categoryRules.POST("", r.categoryRuleController.Create)
				categoryRules.POST("/test", r.categoryRuleController.TestPattern)
				categoryRules.PATCH("/reorder", r.categoryRuleController.Reorder)
				categoryRules.PATCH("/:id", r.categoryRuleController.Update)
				categoryRules.DELETE("/:id", r.categoryRuleController.Delete)
			}
		}

		// Bank linking and sync routes (require authentication)
		if r.plaidController != nil && r.authMiddleware != nil {
			plaid := v1.Group("/plaid")
			plaid.Use(r.authMiddleware.Authenticate())
			{
				plaid.POST("/link-token", r.plaidController.CreateLinkToken)
				plaid.POST("/exchange", r.plaidController.ExchangePublicToken)
				plaid.GET("/items", r.plaidController.ListItems)
				plaid.POST("/items/:id/sync", r.plaidController.Sync)
				plaid.DELETE("/items/:id", r.plaidController.RemoveItem)
			}
		}

		// Reconciliation routes (require authentication)
		if r.reconciliationController != nil && r.authMiddleware != nil {
			reconciliation := v1.Group("/reconciliation")
			reconciliation.Use(r.authMiddleware.Authenticate())
			{
				reconciliation.GET("/pending", r.reconciliationController.GetPending)
				reconciliation.GET("/linked", r.reconciliationController.GetLinked)
				reconciliation.GET("/summary", r.reconciliationController.GetSummary)
				reconciliation.POST("/link", r.reconciliationController.Link)
				reconciliation.POST("/unlink", r.reconciliationController.Unlink)
				reconciliation.POST("/trigger", r.reconciliationController.Trigger)
			}
		}

		// Categorization suggestion routes (require authentication)
		if r.categorizationController != nil && r.authMiddleware != nil {
			categorization := v1.Group("/categorization")
			categorization.Use(r.authMiddleware.Authenticate())
			{
				categorization.GET("/status", r.categorizationController.GetStatus)
				categorization.POST("/start", r.categorizationController.Start)
				categorization.GET("/suggestions", r.categorizationController.GetSuggestions)
				categorization.POST("/suggestions/:id/approve", r.categorizationController.Approve)
				categorization.POST("/suggestions/:id/reject", r.categorizationController.Reject)
				categorization.DELETE("/suggestions", r.categorizationController.Clear)
			}
		}

		// Journal routes (require authentication)
		if r.journalController != nil && r.authMiddleware != nil {
			journal := v1.Group("/journal")
			journal.Use(r.authMiddleware.Authenticate())
			{
				journal.GET("/entries", r.journalController.ListEntries)
				journal.GET("/trial-balance", r.journalController.GetTrialBalance)
			}
		}

		// Report routes (require authentication)
		if r.reportsController != nil && r.authMiddleware != nil {
			reports := v1.Group("/reports")
			reports.Use(r.authMiddleware.Authenticate())
			{
				reports.GET("/trends", r.reportsController.GetTrends)
				reports.GET("/category-breakdown", r.reportsController.GetCategoryBreakdown)
				reports.GET("/category-trends", r.reportsController.GetCategoryTrends)
				reports.GET("/cash-flow", r.reportsController.GetCashFlow)
				reports.GET("/data-range", r.reportsController.GetDataRange)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
