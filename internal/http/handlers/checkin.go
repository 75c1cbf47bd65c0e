package handlers

import (
	"net/http"

	"mining_webapp/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// DailyCheckin claims the once-per-day login bonus. Repeated calls on the
// same day are a no-op reported to the client.
func (h *Handler) DailyCheckin(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	claimed, err := h.Checkin.Claim(c.Request.Context(), userID)
	middleware.CountOp("daily_checkin", err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process check-in"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"claimed": claimed})
}
