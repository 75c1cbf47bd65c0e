package service

import (
	"context"
	"errors"
	"time"

	"mining_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrSessionActive   = errors.New("mining session already active")
	ErrNoActiveSession = errors.New("no active mining session")
)

// MiningService runs the timed mining session state machine.
type MiningService struct {
	db      *pgxpool.Pool
	balance *BalanceService
	config  *ConfigService

	now func() time.Time
}

func NewMiningService(db *pgxpool.Pool, balance *BalanceService, config *ConfigService) *MiningService {
	return &MiningService{db: db, balance: balance, config: config, now: time.Now}
}

// ClaimResult reports one claim's outcome.
type ClaimResult struct {
	Mined      float64   `json:"mined"`
	NewBalance float64   `json:"new_balance"`
	RestartAt  time.Time `json:"restart_at"`
}

// MiningStatus is the derived read-side view of a session.
type MiningStatus struct {
	Active         bool       `json:"active"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	ElapsedSeconds float64    `json:"elapsed_seconds"`
	Progress       float64    `json:"progress"`
	// Accrued is what a claim right now would credit.
	Accrued        float64 `json:"accrued"`
	SessionMinutes int     `json:"session_minutes"`
	MiningSpeed    float64 `json:"mining_speed"`
}

// Start begins a session. Starting while one is active is rejected.
func (s *MiningService) Start(ctx context.Context, userID int64) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var active bool
	err = tx.QueryRow(ctx,
		`SELECT mining_active FROM users WHERE id = $1 FOR UPDATE`, userID,
	).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	if active {
		return ErrSessionActive
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET mining_active = true, mining_started_at = $2 WHERE id = $1`,
		userID, s.now().UTC())
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ClaimAndRestart credits the coins accrued since the session started, capped
// at one full session, and restarts the session clock. Claiming twice in
// quick succession simply yields a near-zero second claim.
func (s *MiningService) ClaimAndRestart(ctx context.Context, userID int64) (*ClaimResult, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		active    bool
		startedAt *time.Time
		speed     float64
	)
	err = tx.QueryRow(ctx,
		`SELECT mining_active, mining_started_at, mining_speed FROM users WHERE id = $1 FOR UPDATE`,
		userID,
	).Scan(&active, &startedAt, &speed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !active || startedAt == nil {
		return nil, ErrNoActiveSession
	}

	now := s.now().UTC()
	mined := domain.MinedAmount(now.Sub(*startedAt), speed, cfg.MiningSessionMinutes)

	var newBalance float64
	err = tx.QueryRow(ctx,
		`UPDATE users
		 SET coin = coin + $2, mining_started_at = $3, last_mined_amount = $2
		 WHERE id = $1
		 RETURNING coin`,
		userID, mined, now,
	).Scan(&newBalance)
	if err != nil {
		return nil, err
	}

	if err := s.balance.ledger.AppendWithTx(ctx, tx, &domain.Transaction{
		UserID:      userID,
		Currency:    domain.CurrencyCoin,
		Amount:      mined,
		Type:        domain.TxCredit,
		Description: "Mining Claim",
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.balance.NotifyUser(ctx, userID)
	return &ClaimResult{Mined: mined, NewBalance: newBalance, RestartAt: now}, nil
}

// Status derives the current session view without mutating anything.
func (s *MiningService) Status(ctx context.Context, userID int64) (*MiningStatus, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return nil, err
	}

	var (
		active    bool
		startedAt *time.Time
		speed     float64
	)
	err = s.db.QueryRow(ctx,
		`SELECT mining_active, mining_started_at, mining_speed FROM users WHERE id = $1`,
		userID,
	).Scan(&active, &startedAt, &speed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	st := &MiningStatus{
		Active:         active,
		StartedAt:      startedAt,
		SessionMinutes: cfg.MiningSessionMinutes,
		MiningSpeed:    speed,
	}
	if active && startedAt != nil {
		elapsed := s.now().UTC().Sub(*startedAt)
		st.ElapsedSeconds = elapsed.Seconds()
		st.Progress = domain.MiningProgress(elapsed, cfg.MiningSessionMinutes)
		st.Accrued = domain.MinedAmount(elapsed, speed, cfg.MiningSessionMinutes)
	}
	return st, nil
}
