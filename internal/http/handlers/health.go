package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports service liveness and database reachability.
func (h *Handler) Health(c *gin.Context) {
	if err := h.DB.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// AppSettings exposes the client-facing slice of the runtime configuration.
func (h *Handler) AppSettings(c *gin.Context) {
	cfg, err := h.AppConfig.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"coin_name":              cfg.CoinName,
		"coin_logo":              cfg.CoinLogo,
		"mining_session_minutes": cfg.MiningSessionMinutes,
		"min_withdrawal":         cfg.MinWithdrawal,
		"max_withdrawal":         cfg.MaxWithdrawal,
		"withdrawal_fee_per_usd": cfg.WithdrawalFeePerUSD,
		"social_links":           cfg.SocialLinks,
		"airdrop":                cfg.Airdrop,
	})
}
