package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Leaderboard ranks users by total team size.
func (h *Handler) Leaderboard(c *gin.Context) {
	limit := parseLimit(c.Query("limit"), 20)
	users, err := h.UserRepo.TopByTeamSize(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}

	type entry struct {
		Rank     int     `json:"rank"`
		Username string  `json:"username"`
		TeamSize int     `json:"team_size"`
		Coin     float64 `json:"coin"`
	}
	entries := make([]entry, 0, len(users))
	for i, u := range users {
		entries = append(entries, entry{
			Rank:     i + 1,
			Username: u.Username,
			TeamSize: u.TotalTeamSize,
			Coin:     u.Coin,
		})
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}
