package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminService provides platform-wide statistics for the admin surface and
// the admin bot.
type AdminService struct {
	db *pgxpool.Pool
}

func NewAdminService(db *pgxpool.Pool) *AdminService {
	return &AdminService{db: db}
}

// Stats is a snapshot of platform totals.
type Stats struct {
	TotalUsers    int64 `json:"total_users"`
	UsersToday    int64 `json:"users_today"`
	UsersWeek     int64 `json:"users_week"`
	ActiveMiners  int64 `json:"active_miners"`
	DailyLogins   int64 `json:"daily_logins_total"`
	TasksComplete int64 `json:"tasks_completed_total"`

	// Currency in circulation
	TotalCoin    float64 `json:"total_coin"`
	TotalUSD     float64 `json:"total_usd"`
	TotalDiamond float64 `json:"total_diamond"`
	TotalStar    float64 `json:"total_star"`

	PendingWithdrawals int64   `json:"pending_withdrawals"`
	ApprovedUSD        float64 `json:"approved_usd"`
}

// GetStats collects platform statistics. Individual query failures leave the
// corresponding field at zero.
func (s *AdminService) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	weekAgo := today.Add(-7 * 24 * time.Hour)

	_ = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.TotalUsers)
	_ = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE created_at >= $1`, today).Scan(&stats.UsersToday)
	_ = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE created_at >= $1`, weekAgo).Scan(&stats.UsersWeek)
	_ = s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE mining_active = true`).Scan(&stats.ActiveMiners)
	_ = s.db.QueryRow(ctx, `SELECT COALESCE(SUM(daily_logins), 0) FROM users`).Scan(&stats.DailyLogins)
	_ = s.db.QueryRow(ctx, `SELECT COALESCE(SUM(tasks_completed), 0) FROM users`).Scan(&stats.TasksComplete)

	_ = s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(coin), 0), COALESCE(SUM(usd), 0), COALESCE(SUM(diamond), 0), COALESCE(SUM(star), 0) FROM users`,
	).Scan(&stats.TotalCoin, &stats.TotalUSD, &stats.TotalDiamond, &stats.TotalStar)

	_ = s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM withdrawals WHERE status = 'PENDING'`).Scan(&stats.PendingWithdrawals)
	_ = s.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount_usd), 0) FROM withdrawals WHERE status = 'APPROVED'`).Scan(&stats.ApprovedUSD)

	return stats, nil
}
