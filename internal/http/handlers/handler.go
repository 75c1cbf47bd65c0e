package handlers

import (
	"mining_webapp/internal/config"
	"mining_webapp/internal/repository"
	"mining_webapp/internal/service"
	"mining_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB  *pgxpool.Pool
	Cfg *config.Config
	Hub *ws.Hub

	Balance     *service.BalanceService
	Mining      *service.MiningService
	Checkin     *service.CheckinService
	Tasks       *service.TaskService
	Referrals   *service.ReferralService
	Withdrawals *service.WithdrawalService
	AppConfig   *service.ConfigService
	Admin       *service.AdminService

	UserRepo *repository.UserRepository
	NewsRepo *repository.NewsRepository
	TaskRepo *repository.TaskRepository
}

func NewHandler(db *pgxpool.Pool, cfg *config.Config, hub *ws.Hub) *Handler {
	balance := service.NewBalanceService(db)
	balance.SetNotifier(hub)
	appConfig := service.NewConfigService(db)

	return &Handler{
		DB:          db,
		Cfg:         cfg,
		Hub:         hub,
		Balance:     balance,
		Mining:      service.NewMiningService(db, balance, appConfig),
		Checkin:     service.NewCheckinService(db, balance),
		Tasks:       service.NewTaskService(db, balance),
		Referrals:   service.NewReferralService(db, balance, appConfig),
		Withdrawals: service.NewWithdrawalService(db, balance, appConfig),
		AppConfig:   appConfig,
		Admin:       service.NewAdminService(db),
		UserRepo:    repository.NewUserRepository(db),
		NewsRepo:    repository.NewNewsRepository(db),
		TaskRepo:    repository.NewTaskRepository(db),
	}
}

// getUserID extracts the authenticated user id set by the JWT middleware.
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
