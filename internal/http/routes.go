package http

import (
	"time"

	"mining_webapp/internal/config"
	"mining_webapp/internal/http/handlers"
	"mining_webapp/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the full API surface onto the engine.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, cfg *config.Config) {
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.APIRateLimit, time.Duration(cfg.APIRateWindow)*time.Second))

	// Auth gets a tighter window since init data validation is the only
	// unauthenticated write path.
	api.POST("/auth/telegram", middleware.RateLimit(cfg.AuthRateLimit, time.Duration(cfg.AuthRateWindow)*time.Second), h.TelegramAuth)

	api.GET("/settings", h.AppSettings)
	api.GET("/news", h.ListNews)
	api.GET("/top", h.Leaderboard)
	api.GET("/ws", h.WebSocket)

	user := api.Group("")
	user.Use(middleware.JWT())
	{
		user.GET("/me", h.Me)
		user.GET("/me/logs", h.MyLogs)

		user.POST("/mining/start", h.StartMining)
		user.POST("/mining/claim", h.ClaimMining)
		user.GET("/mining/status", h.MiningStatus)

		user.POST("/checkin", h.DailyCheckin)

		user.GET("/tasks", h.ListTasks)
		user.POST("/tasks/:id/complete", h.CompleteTask)

		user.GET("/referrals", h.ReferralStats)
		user.GET("/referrals/direct", h.DirectReferrals)

		user.POST("/withdrawals", h.RequestWithdrawal)
		user.GET("/withdrawals", h.WithdrawalHistory)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(), middleware.Admin(h.DB, cfg.AdminTelegramIDs))
	{
		admin.GET("/stats", h.AdminStats)
		admin.GET("/users", h.AdminListUsers)
		admin.POST("/users", h.AdminCreateUser)
		admin.POST("/users/:id/credit", h.AdminCreditUser)

		admin.GET("/config", h.AdminGetConfig)
		admin.PUT("/config", h.AdminUpdateConfig)

		admin.GET("/withdrawals", h.AdminPendingWithdrawals)
		admin.POST("/withdrawals/:id/finalize", h.AdminFinalizeWithdrawal)

		admin.POST("/tasks", h.AdminCreateTask)
		admin.PATCH("/tasks/:id", h.AdminSetTaskActive)

		admin.POST("/news", h.AdminCreateNews)
		admin.DELETE("/news/:id", h.AdminDeleteNews)
	}
}
