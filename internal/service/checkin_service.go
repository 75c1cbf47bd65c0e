package service

import (
	"context"
	"errors"
	"time"

	"mining_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DailyLoginReward is the STAR amount granted per check-in day.
const DailyLoginReward = 1

// CheckinService grants the once-per-day login bonus. Days are keyed by the
// UTC calendar date.
type CheckinService struct {
	db      *pgxpool.Pool
	balance *BalanceService

	now func() time.Time
}

func NewCheckinService(db *pgxpool.Pool, balance *BalanceService) *CheckinService {
	return &CheckinService{db: db, balance: balance, now: time.Now}
}

// Claim grants today's bonus. A repeated call on the same day is a no-op and
// returns claimed=false.
func (s *CheckinService) Claim(ctx context.Context, userID int64) (claimed bool, err error) {
	today := domain.DayString(s.now())

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var last *string
	err = tx.QueryRow(ctx,
		`SELECT last_daily_login FROM users WHERE id = $1 FOR UPDATE`, userID,
	).Scan(&last)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrUserNotFound
		}
		return false, err
	}

	if last != nil && *last == today {
		return false, nil
	}

	_, err = tx.Exec(ctx,
		`UPDATE users
		 SET star = star + $2, daily_logins = daily_logins + 1, last_daily_login = $3
		 WHERE id = $1`,
		userID, float64(DailyLoginReward), today)
	if err != nil {
		return false, err
	}

	if err := s.balance.ledger.AppendWithTx(ctx, tx, &domain.Transaction{
		UserID:      userID,
		Currency:    domain.CurrencyStar,
		Amount:      DailyLoginReward,
		Type:        domain.TxCredit,
		Description: "Daily Login Bonus",
	}); err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}

	s.balance.NotifyUser(ctx, userID)
	return true, nil
}
