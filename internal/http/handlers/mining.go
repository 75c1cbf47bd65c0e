package handlers

import (
	"errors"
	"net/http"

	"mining_webapp/internal/http/middleware"
	"mining_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// StartMining opens a mining session for the user.
func (h *Handler) StartMining(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	err := h.Mining.Start(c.Request.Context(), userID)
	middleware.CountOp("mining_start", err)
	if errors.Is(err, service.ErrSessionActive) {
		c.JSON(http.StatusConflict, gin.H{"error": "mining session already active"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start mining"})
		return
	}

	status, err := h.Mining.Status(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load mining status"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// ClaimMining settles the user's finished session and starts the next one.
func (h *Handler) ClaimMining(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.Mining.ClaimAndRestart(c.Request.Context(), userID)
	middleware.CountOp("mining_claim", err)
	if errors.Is(err, service.ErrNoActiveSession) {
		c.JSON(http.StatusConflict, gin.H{"error": "no active mining session"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to claim mining reward"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// MiningStatus reports the state of the user's current session.
func (h *Handler) MiningStatus(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status, err := h.Mining.Status(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load mining status"})
		return
	}
	c.JSON(http.StatusOK, status)
}
