// Package main is the entry point for the Manna API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redislib "github.com/redis/go-redis/v9"

	"github.com/isakbosman/manna/config"
	"github.com/isakbosman/manna/internal/infra/db"
	"github.com/isakbosman/manna/internal/infra/dependency"
	"github.com/isakbosman/manna/internal/infra/redis"
	"github.com/isakbosman/manna/internal/infra/server/router"
	"github.com/isakbosman/manna/internal/integration/entrypoint/controller"
	"github.com/isakbosman/manna/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	slog.Info("Starting Manna API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Initialize database connection
	database, err := db.NewPostgresConnection(&cfg.Database)
	if err != nil {
		slog.Warn("Database connection failed, serving health endpoint only",
			"error", err,
		)
		serveHealthOnly(cfg)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	// Run database migrations
	if err := database.AutoMigrate(
		&model.UserModel{},
		&model.RefreshTokenModel{},
		&model.PasswordResetTokenModel{},
		&model.AccountModel{},
		&model.CategoryModel{},
		&model.CategoryRuleModel{},
		&model.TransactionModel{},
		&model.PlaidItemModel{},
		&model.CategorySuggestionModel{},
		&model.ReconciliationLinkModel{},
		&model.JournalEntryModel{},
		&model.EmailQueueModel{},
	); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed successfully")

	// Initialize Redis connection (used for the per-item sync lock)
	var redisClient *redislib.Client
	redisClient, err = redis.NewClient(&cfg.Redis)
	if err != nil {
		slog.Warn("Redis connection failed, continuing without it", "error", err)
		redisClient = nil
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				slog.Error("Failed to close Redis connection", "error", err)
			}
		}()
	}

	// Wire the application graph
	injector, err := dependency.NewInjector(cfg, database.DB(), redisClient)
	if err != nil {
		slog.Error("Failed to wire dependencies", "error", err)
		os.Exit(1)
	}

	// Start the background email worker
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	if injector.EmailWorker != nil {
		go injector.EmailWorker.Start(workerCtx)
	}

	engine := injector.Router.Setup(cfg.Server.Environment)
	runServer(cfg, engine)
}

// serveHealthOnly runs a router with only the health endpoint registered,
// so orchestration can still observe the process while the database is down.
func serveHealthOnly(cfg *config.Config) {
	healthController := controller.NewHealthController(func() bool { return false })
	r := router.NewRouter(
		healthController,
		nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil,
		nil, nil,
	)
	runServer(cfg, r.Setup(cfg.Server.Environment))
}

// runServer starts the HTTP server and blocks until shutdown completes.
func runServer(cfg *config.Config, handler http.Handler) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}
