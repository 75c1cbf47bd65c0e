package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"mining_webapp/internal/domain"
	"mining_webapp/internal/http/middleware"
	"mining_webapp/internal/repository"
	"mining_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminStats returns aggregate platform counters.
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.Admin.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AdminListUsers pages through registered users, newest first.
func (h *Handler) AdminListUsers(c *gin.Context) {
	limit := parseLimit(c.Query("limit"), 50)
	offset, _ := strconv.Atoi(c.Query("offset"))
	if offset < 0 {
		offset = 0
	}

	users, err := h.UserRepo.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// AdminCreateUser registers a user manually, with the same welcome bonus and
// referral distribution as a Telegram signup.
func (h *Handler) AdminCreateUser(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil || in.TgID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tg_id is required"})
		return
	}
	in.IPAddress = c.ClientIP()

	user, err := h.Referrals.Register(c.Request.Context(), in)
	middleware.CountOp("admin_register", err)
	if errors.Is(err, service.ErrUserExists) {
		c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// AdminGetConfig returns the full runtime rule set.
func (h *Handler) AdminGetConfig(c *gin.Context) {
	cfg, err := h.AppConfig.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load config"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// AdminUpdateConfig replaces the runtime rule set wholesale.
func (h *Handler) AdminUpdateConfig(c *gin.Context) {
	var cfg domain.AppConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid config payload"})
		return
	}

	if err := h.AppConfig.Update(c.Request.Context(), cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update config"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// AdminPendingWithdrawals lists withdrawals awaiting review.
func (h *Handler) AdminPendingWithdrawals(c *gin.Context) {
	limit := parseLimit(c.Query("limit"), 100)
	list, err := h.Withdrawals.Pending(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load withdrawals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list})
}

type finalizeRequest struct {
	Decision string `json:"decision" binding:"required"`
	Remarks  string `json:"remarks"`
}

// AdminFinalizeWithdrawal approves or rejects a pending withdrawal. A
// rejection refunds both the USD amount and the diamond fee.
func (h *Handler) AdminFinalizeWithdrawal(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal id"})
		return
	}

	var req finalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "decision is required"})
		return
	}

	w, err := h.Withdrawals.Finalize(c.Request.Context(), id, domain.WithdrawalStatus(req.Decision), req.Remarks)
	middleware.CountOp("withdrawal_finalize", err)
	switch {
	case errors.Is(err, service.ErrInvalidDecision):
		c.JSON(http.StatusBadRequest, gin.H{"error": "decision must be APPROVED or REJECTED"})
	case errors.Is(err, repository.ErrWithdrawalNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "withdrawal not found"})
	case errors.Is(err, service.ErrAlreadyFinalized):
		c.JSON(http.StatusConflict, gin.H{"error": "withdrawal already finalized"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to finalize withdrawal"})
	default:
		c.JSON(http.StatusOK, gin.H{"withdrawal": w})
	}
}

// AdminCreateTask publishes a new rewardable task.
func (h *Handler) AdminCreateTask(c *gin.Context) {
	var task domain.Task
	if err := c.ShouldBindJSON(&task); err != nil || task.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	task.IsActive = true

	if err := h.TaskRepo.Create(c.Request.Context(), &task); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
}

type taskActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// AdminSetTaskActive toggles a task's visibility without deleting history.
func (h *Handler) AdminSetTaskActive(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req taskActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_active is required"})
		return
	}

	if err := h.TaskRepo.SetActive(c.Request.Context(), id, *req.IsActive); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "is_active": *req.IsActive})
}

// AdminCreateNews publishes an announcement.
func (h *Handler) AdminCreateNews(c *gin.Context) {
	var n domain.News
	if err := c.ShouldBindJSON(&n); err != nil || n.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	if err := h.NewsRepo.Create(c.Request.Context(), &n); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create news"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"news": n})
}

// AdminDeleteNews removes an announcement.
func (h *Handler) AdminDeleteNews(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid news id"})
		return
	}

	if err := h.NewsRepo.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete news"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// AdminCreditUser adjusts a user's balance manually, with a ledger entry.
func (h *Handler) AdminCreditUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req struct {
		Currency string  `json:"currency" binding:"required"`
		Amount   float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "currency and amount are required"})
		return
	}

	err = h.Balance.Credit(c.Request.Context(), id, domain.Currency(req.Currency), req.Amount, "Admin Adjustment")
	middleware.CountOp("admin_credit", err)
	switch {
	case errors.Is(err, service.ErrInvalidCurrency):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown currency"})
	case errors.Is(err, service.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to credit user"})
	default:
		c.JSON(http.StatusOK, gin.H{"user_id": id, "currency": req.Currency, "amount": req.Amount})
	}
}
