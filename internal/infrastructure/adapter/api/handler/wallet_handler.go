package handler

import (
	"net/http"
	"strings"

	domainerr "github.com/eventpay/wallet-ledger/internal/domain/error"
	coreport "github.com/eventpay/wallet-ledger/internal/domain/port/core"
	walletUseCase "github.com/eventpay/wallet-ledger/internal/domain/usecase/wallet"
	"github.com/eventpay/wallet-ledger/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// WalletHandler handles wallet balance HTTP requests
type WalletHandler struct {
	walletUseCase *walletUseCase.UseCase
	logger        coreport.Logger
}

// NewWalletHandler creates a new wallet handler instance
func NewWalletHandler(walletUseCase *walletUseCase.UseCase, logger coreport.Logger) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
		logger:        logger,
	}
}

// GetBalance handles the GET /wallet/{userId}/balance endpoint. A user
// without a balance row gets a zero balance, never a 404.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("userId"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidUserID),
			Message: "Invalid user ID format",
		})
		return
	}

	view, err := h.walletUseCase.GetFormattedBalance(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("Error getting wallet balance", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		c.JSON(statusFromError(err), dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Could not load wallet balance",
		})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		UserID:           view.UserID,
		Available:        view.Available,
		Pending:          view.Pending,
		PlatformCredit:   view.PlatformCredit,
		ReferralEarnings: view.ReferralEarnings,
		Total:            view.Total,
		Currency:         view.Currency,
	})
}
