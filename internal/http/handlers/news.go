package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListNews returns published announcements, newest first.
func (h *Handler) ListNews(c *gin.Context) {
	limit := parseLimit(c.Query("limit"), 20)
	items, err := h.NewsRepo.List(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load news"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"news": items})
}
