package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ledgerUseCase "github.com/eventpay/wallet-ledger/internal/domain/usecase/ledger"
	outboxUseCase "github.com/eventpay/wallet-ledger/internal/domain/usecase/outbox"
	walletUseCase "github.com/eventpay/wallet-ledger/internal/domain/usecase/wallet"
	webhookUseCase "github.com/eventpay/wallet-ledger/internal/domain/usecase/webhook"

	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/api/routes"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/database"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/database/migration"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/idgen"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/logger"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/publisher"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/repository"
	timeProvider "github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/time"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	defer func() { _ = appLogger.Flush() }()

	// Setup database configuration
	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Logger.Level,
	}

	// Initialize time provider and id generator
	tp := timeProvider.NewRealTimeProvider()
	ids := idgen.NewUUIDGenerator()

	// Connect to the database
	conn, err := database.NewConnection(dbConfig)
	if err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	// Run migrations
	migrationMgr := migration.NewMigrationManager(conn.DB, appLogger)
	if err := migrationMgr.MigrateAll(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Initialize repositories
	balanceRepo := repository.NewBalanceRepository(conn.DB, appLogger)
	ledgerRepo := repository.NewLedgerRepository(conn.DB, appLogger)
	activityRepo := repository.NewWebhookActivityRepository(conn.DB, appLogger)
	outboxRepo := repository.NewOutboxRepository(conn.DB, appLogger, tp)

	// Unit of work (transaction manager)
	uow := database.NewUnitOfWork(conn.DB, appLogger, tp)

	// Initialize use cases
	walletService := walletUseCase.NewUseCase(balanceRepo, tp, appLogger, cfg.Wallet.DefaultCurrency)
	reconciler := walletUseCase.NewReconciler(balanceRepo, ledgerRepo, tp, appLogger)
	ledgerService := ledgerUseCase.NewService(uow, ledgerRepo, ids, tp, appLogger, cfg.Wallet.DefaultCurrency)
	activityLogger := webhookUseCase.NewActivityLogger(activityRepo, ids, tp, appLogger)
	ingestor := webhookUseCase.NewIngestor(activityLogger, ledgerService, tp, appLogger)

	// Outbox dispatcher drains staged events in the background
	eventPublisher := publisher.NewLogPublisher(appLogger)
	dispatcher := outboxUseCase.NewDispatcher(outboxRepo, eventPublisher, appLogger).
		WithPollInterval(cfg.Outbox.PollInterval).
		WithMaxAttempts(cfg.Outbox.MaxAttempts)

	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	go dispatcher.Run(dispatcherCtx)

	// Initialize API handlers
	walletHandler := handler.NewWalletHandler(walletService, appLogger)
	ledgerHandler := handler.NewLedgerHandler(ledgerService, appLogger, cfg.Wallet.DefaultCurrency)
	webhookHandler := handler.NewWebhookHandler(ingestor, appLogger)
	metricsHandler := handler.NewMetricsHandler(reconciler, dispatcher, appLogger)

	// Initialize Gin router
	router := gin.New()

	// Setup middlewares
	routes.SetupMiddlewares(router, appLogger)

	// Setup routes
	routes.SetupRoutes(router, walletHandler, ledgerHandler, webhookHandler, metricsHandler)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	// Stop the dispatcher before closing the database
	stopDispatcher()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}
