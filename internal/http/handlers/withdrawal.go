package handlers

import (
	"errors"
	"net/http"

	"mining_webapp/internal/http/middleware"
	"mining_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type withdrawalRequest struct {
	Amount        float64 `json:"amount" binding:"required"`
	WalletAddress string  `json:"wallet_address" binding:"required"`
}

// RequestWithdrawal escrows USD plus the diamond fee and opens a pending
// withdrawal for admin review.
func (h *Handler) RequestWithdrawal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req withdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount and wallet_address are required"})
		return
	}

	w, err := h.Withdrawals.Request(c.Request.Context(), userID, req.Amount, req.WalletAddress)
	middleware.CountOp("withdrawal_request", err)
	switch {
	case errors.Is(err, service.ErrAmountOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount out of allowed range"})
	case errors.Is(err, service.ErrInvalidAddress):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet address"})
	case errors.Is(err, service.ErrInsufficientUSD):
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient USD balance"})
	case errors.Is(err, service.ErrInsufficientDiamond):
		c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient diamonds for the fee"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit withdrawal"})
	default:
		c.JSON(http.StatusOK, gin.H{"withdrawal": w})
	}
}

// WithdrawalHistory lists the caller's withdrawals, newest first.
func (h *Handler) WithdrawalHistory(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := parseLimit(c.Query("limit"), 50)
	list, err := h.Withdrawals.History(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load withdrawals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list})
}
