package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/eventpay/wallet-ledger/internal/domain/entity"
	domainerr "github.com/eventpay/wallet-ledger/internal/domain/error"
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
	ledgerUseCase "github.com/eventpay/wallet-ledger/internal/domain/usecase/ledger"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// LedgerHandler handles transaction ledger HTTP requests
type LedgerHandler struct {
	ledgerService   *ledgerUseCase.Service
	logger          coreport.Logger
	defaultCurrency string
}

// NewLedgerHandler creates a new ledger handler instance
func NewLedgerHandler(ledgerService *ledgerUseCase.Service, logger coreport.Logger, defaultCurrency string) *LedgerHandler {
	if defaultCurrency == "" {
		defaultCurrency = entity.DefaultCurrency
	}
	return &LedgerHandler{
		ledgerService:   ledgerService,
		logger:          logger,
		defaultCurrency: defaultCurrency,
	}
}

// RecordTransaction handles the POST /wallet/{userId}/transactions endpoint
func (h *LedgerHandler) RecordTransaction(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
			Message: "Invalid user ID format",
		})
		return
	}

	var req dto.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid transaction request format", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	magnitude := req.Amount.MinorUnits
	if req.Amount.Major != "" {
		currency := req.Currency
		if currency == "" {
			currency = h.defaultCurrency
		}
		parsed, err := entity.ParseMajorUnits(req.Amount.Major, currency)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    domainerr.ErrorCode(err),
				Message: "Invalid amount: " + err.Error(),
			})
			return
		}
		magnitude = parsed
	}

	transaction, err := h.ledgerService.RecordTransaction(c.Request.Context(), ledgerUseCase.RecordRequest{
		UserID:          userID,
		Type:            entity.TransactionType(req.Type),
		Amount:          magnitude,
		Currency:        req.Currency,
		Description:     req.Description,
		Metadata:        req.Metadata,
		PaymentMethodID: req.PaymentMethodID,
		IdempotencyKey:  req.IdempotencyKey,
	})
	if err != nil {
		h.logger.Error("Error recording transaction", map[string]any{
			"user_id": userID,
			"type":    req.Type,
			"error":   err.Error(),
		})
		c.JSON(statusFromError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, toTransactionResponse(transaction))
}

// ListTransactions handles the GET /wallet/{userId}/transactions endpoint
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
			Message: "Invalid user ID format",
		})
		return
	}

	var query dto.ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid query parameters: " + err.Error(),
		})
		return
	}

	filter := entity.TransactionFilter{
		MinMagnitude: query.MinAmount,
		MaxMagnitude: query.MaxAmount,
		From:         query.From,
		To:           query.To,
		Search:       query.Search,
		Limit:        query.Limit,
	}
	for _, t := range query.Types {
		filter.Types = append(filter.Types, entity.TransactionType(t))
	}
	for _, s := range query.Statuses {
		filter.Statuses = append(filter.Statuses, entity.TransactionStatus(s))
	}

	transactions, err := h.ledgerService.ListTransactions(c.Request.Context(), userID, filter)
	if err != nil {
		h.logger.Error("Error listing transactions", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		c.JSON(statusFromError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	responses := make([]dto.TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		responses = append(responses, toTransactionResponse(transaction))
	}

	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		UserID:       userID,
		Transactions: responses,
		Count:        len(responses),
	})
}

// RefundTransaction handles the POST /transactions/{transactionId}/refund endpoint
func (h *LedgerHandler) RefundTransaction(c *gin.Context) {
	transactionID := strings.TrimSpace(c.Param("transactionId"))
	if transactionID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid transaction ID format",
		})
		return
	}

	// An empty body is a full refund.
	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	refund, err := h.ledgerService.RefundTransaction(c.Request.Context(), transactionID, req.Amount)
	if err != nil {
		h.logger.Error("Error refunding transaction", map[string]any{
			"transaction_id": transactionID,
			"error":          err.Error(),
		})
		c.JSON(statusFromError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, toTransactionResponse(refund))
}

// toTransactionResponse builds the API view of a ledger entry
func toTransactionResponse(transaction *entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:                   transaction.ID,
		UserID:               transaction.UserID,
		Type:                 string(transaction.Type),
		Amount:               transaction.Amount,
		FormattedAmount:      entity.FormatMinorUnits(transaction.Amount, transaction.Currency),
		Currency:             transaction.Currency,
		Description:          transaction.Description,
		Status:               string(transaction.Status),
		Bucket:               string(transaction.Bucket),
		CreatedAt:            transaction.CreatedAt,
		ProcessedAt:          transaction.ProcessedAt,
		Metadata:             transaction.Metadata,
		PaymentMethodID:      transaction.PaymentMethodID,
		RelatedTransactionID: transaction.RelatedTransactionID,
	}
}
