package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	domainerr "github.com/eventpay/wallet-ledger/internal/domain/error"
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
	webhookUseCase "github.com/eventpay/wallet-ledger/internal/domain/usecase/webhook"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// WebhookHandler handles inbound payment-provider events
type WebhookHandler struct {
	ingestor *webhookUseCase.Ingestor
	logger   coreport.Logger
}

// NewWebhookHandler creates a new webhook handler instance
func NewWebhookHandler(ingestor *webhookUseCase.Ingestor, logger coreport.Logger) *WebhookHandler {
	return &WebhookHandler{
		ingestor: ingestor,
		logger:   logger,
	}
}

// HandleEvent handles the POST /webhooks/{provider} endpoint. A processing
// failure returns a 4xx/5xx so the provider redelivers; audit log failures
// never affect the response.
func (h *WebhookHandler) HandleEvent(c *gin.Context) {
	provider := strings.TrimSpace(c.Param("provider"))
	if provider == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Missing provider name",
		})
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Could not read request body",
		})
		return
	}

	var req dto.WebhookEventRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		h.logger.Error("Invalid webhook payload", map[string]any{
			"provider": provider,
			"error":    err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid payload format: " + err.Error(),
		})
		return
	}
	if req.EventType == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Missing required field: eventType",
		})
		return
	}

	err = h.ingestor.IngestEvent(c.Request.Context(), provider, webhookUseCase.ProviderEvent{
		EventType:       req.EventType,
		UserID:          req.UserID,
		TransactionType: entity.TransactionType(req.Type),
		Amount:          req.Amount,
		Currency:        req.Currency,
		Description:     req.Description,
		Reference:       req.Reference,
		Metadata:        req.Metadata,
		IdempotencyKey:  req.IdempotencyKey,
		RawPayload:      raw,
	})
	if err != nil {
		h.logger.Error("Error processing webhook event", map[string]any{
			"provider":   provider,
			"event_type": req.EventType,
			"error":      err.Error(),
		})
		c.JSON(statusFromError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.WebhookAckResponse{Received: true})
}
