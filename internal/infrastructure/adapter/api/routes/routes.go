package routes

import (
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slok/go-http-metrics/metrics/prometheus"
	httpmetrics "github.com/slok/go-http-metrics/middleware"
	ginmiddleware "github.com/slok/go-http-metrics/middleware/gin"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	walletHandler *handler.WalletHandler,
	ledgerHandler *handler.LedgerHandler,
	webhookHandler *handler.WebhookHandler,
	metricsHandler *handler.MetricsHandler,
) {
	// Wallet routes
	walletRoutes := router.Group("/wallet")
	{
		// GET /wallet/:userId/balance
		walletRoutes.GET("/:userId/balance", walletHandler.GetBalance)

		// POST /wallet/:userId/transactions
		walletRoutes.POST("/:userId/transactions", ledgerHandler.RecordTransaction)

		// GET /wallet/:userId/transactions
		walletRoutes.GET("/:userId/transactions", ledgerHandler.ListTransactions)
	}

	// POST /transactions/:transactionId/refund
	router.POST("/transactions/:transactionId/refund", ledgerHandler.RefundTransaction)

	// POST /webhooks/:provider
	router.POST("/webhooks/:provider", webhookHandler.HandleEvent)

	// Ledger diagnostics
	diagnostics := router.Group("/api/metrics")
	{
		diagnostics.GET("/ledger-invariants", metricsHandler.LedgerInvariants)
		diagnostics.GET("/outbox", metricsHandler.OutboxStats)
	}

	// Prometheus scrape target
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	// Apply middlewares in the correct order
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())

	mw := httpmetrics.New(httpmetrics.Config{
		Recorder: prometheus.NewRecorder(prometheus.Config{}),
	})
	router.Use(ginmiddleware.Handler("", mw))
}
