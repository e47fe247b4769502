package handler

import (
	"net/http"

	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
	outboxUseCase "github.com/eventpay/wallet-ledger/internal/domain/usecase/outbox"
	walletUseCase "github.com/eventpay/wallet-ledger/internal/domain/usecase/wallet"
	"github.com/gin-gonic/gin"
)

// MetricsHandler serves the ledger diagnostics endpoints. These are cheap
// health probes for operators, distinct from the Prometheus scrape target.
type MetricsHandler struct {
	reconciler *walletUseCase.Reconciler
	dispatcher *outboxUseCase.Dispatcher
	logger     coreport.Logger
}

// NewMetricsHandler creates a new metrics handler instance
func NewMetricsHandler(
	reconciler *walletUseCase.Reconciler,
	dispatcher *outboxUseCase.Dispatcher,
	logger coreport.Logger,
) *MetricsHandler {
	return &MetricsHandler{
		reconciler: reconciler,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// LedgerInvariants handles the GET /api/metrics/ledger-invariants endpoint.
// It returns 503 when the sweep itself could not run; a sweep that ran and
// found violations still returns 200 with ok=false.
func (h *MetricsHandler) LedgerInvariants(c *gin.Context) {
	report, err := h.reconciler.CheckInvariants(c.Request.Context())
	if err != nil {
		h.logger.Error("Ledger invariant sweep failed", map[string]any{
			"error": err.Error(),
		})
		c.Status(http.StatusServiceUnavailable)
		return
	}

	c.JSON(http.StatusOK, report)
}

// OutboxStats handles the GET /api/metrics/outbox endpoint
func (h *MetricsHandler) OutboxStats(c *gin.Context) {
	stats, err := h.dispatcher.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("Outbox stats query failed", map[string]any{
			"error": err.Error(),
		})
		c.Status(http.StatusServiceUnavailable)
		return
	}

	c.JSON(http.StatusOK, stats)
}
