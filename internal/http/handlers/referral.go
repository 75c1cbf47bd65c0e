package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReferralStats returns the user's direct referral count and the size of the
// full downline the team counter tracks.
func (h *Handler) ReferralStats(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.UserRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	downline, err := h.Referrals.DownlineCount(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count downline"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_referrals": user.TotalReferrals,
		"total_team_size": user.TotalTeamSize,
		"downline_count":  downline,
	})
}

// DirectReferrals lists the users recruited directly by the caller.
func (h *Handler) DirectReferrals(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := parseLimit(c.Query("limit"), 50)
	refs, err := h.Referrals.DirectReferrals(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load referrals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"referrals": refs})
}
