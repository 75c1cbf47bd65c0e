package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"mining_webapp/internal/logger"
	"mining_webapp/internal/repository"
	"mining_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type authRequest struct {
	InitData string `json:"init_data" binding:"required"`
}

// TelegramAuth validates WebApp init data, registers the user on first
// contact (honoring the start_param sponsor reference) and returns a JWT.
func (h *Handler) TelegramAuth(c *gin.Context) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "init_data is required"})
		return
	}

	values, ok := service.ValidateTelegramInitData(req.InitData, h.Cfg.BotToken)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid init data"})
		return
	}

	tgUser, err := service.ParseInitDataUser(values)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid init data user"})
		return
	}

	user, err := h.UserRepo.GetByTgID(c.Request.Context(), tgUser.ID)
	if errors.Is(err, repository.ErrUserNotFound) {
		in := service.RegisterInput{
			TgID:      tgUser.ID,
			Username:  tgUser.Username,
			FullName:  tgUser.FullName(),
			IPAddress: c.ClientIP(),
		}
		if ref := values.Get("start_param"); ref != "" {
			if sponsorRef, perr := strconv.ParseInt(ref, 10, 64); perr == nil {
				in.SponsorRef = &sponsorRef
			}
		}

		user, err = h.Referrals.Register(c.Request.Context(), in)
		if errors.Is(err, service.ErrUserExists) {
			// Lost the race against a concurrent first login.
			user, err = h.UserRepo.GetByTgID(c.Request.Context(), tgUser.ID)
		}
	}
	if err != nil {
		logger.Error("auth failed", "tg_id", tgUser.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
		return
	}

	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		logger.Error("jwt generation failed", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
