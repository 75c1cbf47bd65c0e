package service

import (
	"context"
	"errors"
	"strings"

	"mining_webapp/internal/domain"
	"mining_webapp/internal/logger"
	"mining_webapp/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrAmountOutOfRange    = errors.New("withdrawal amount out of range")
	ErrInsufficientUSD     = errors.New("insufficient USD balance")
	ErrInsufficientDiamond = errors.New("insufficient DIAMOND balance for fee")
	ErrInvalidAddress      = errors.New("invalid TON wallet address")
	ErrAlreadyFinalized    = errors.New("withdrawal already finalized")
	ErrInvalidDecision     = errors.New("invalid withdrawal decision")
)

// WithdrawalNotifyFunc is called after a withdrawal request is created, e.g.
// to ping admins over Telegram.
type WithdrawalNotifyFunc func(w *domain.Withdrawal)

// WithdrawalService runs the request/approve/reject lifecycle with escrow:
// funds leave the spendable balance at request time and come back only on
// rejection.
type WithdrawalService struct {
	db          *pgxpool.Pool
	withdrawals *repository.WithdrawalRepository
	balance     *BalanceService
	config      *ConfigService

	OnRequest WithdrawalNotifyFunc
}

func NewWithdrawalService(db *pgxpool.Pool, balance *BalanceService, config *ConfigService) *WithdrawalService {
	return &WithdrawalService{
		db:          db,
		withdrawals: repository.NewWithdrawalRepository(db),
		balance:     balance,
		config:      config,
	}
}

// ValidWalletAddress checks the TON address convention used by the app.
func ValidWalletAddress(addr string) bool {
	return addr != "" && strings.HasPrefix(addr, "U")
}

// Request validates and creates a PENDING withdrawal, debiting the USD amount
// and the DIAMOND fee immediately. Each validation fails independently with
// its own error and no mutation.
func (s *WithdrawalService) Request(ctx context.Context, userID int64, amountUSD float64, walletAddress string) (*domain.Withdrawal, error) {
	cfg, err := s.config.Get(ctx)
	if err != nil {
		return nil, err
	}

	if amountUSD < cfg.MinWithdrawal || amountUSD > cfg.MaxWithdrawal {
		return nil, ErrAmountOutOfRange
	}
	if !ValidWalletAddress(walletAddress) {
		return nil, ErrInvalidAddress
	}
	fee := amountUSD * cfg.WithdrawalFeePerUSD

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var usd, diamond float64
	err = tx.QueryRow(ctx,
		`SELECT usd, diamond FROM users WHERE id = $1 FOR UPDATE`, userID,
	).Scan(&usd, &diamond)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if usd < amountUSD {
		return nil, ErrInsufficientUSD
	}
	if diamond < fee {
		return nil, ErrInsufficientDiamond
	}

	if err := s.balance.DebitWithTx(ctx, tx, userID, domain.CurrencyUSD, amountUSD, "Withdrawal Request"); err != nil {
		return nil, err
	}
	if fee > 0 {
		if err := s.balance.DebitWithTx(ctx, tx, userID, domain.CurrencyDiamond, fee, "Withdrawal Fee"); err != nil {
			return nil, err
		}
	}

	w := &domain.Withdrawal{
		UserID:        userID,
		AmountUSD:     amountUSD,
		FeeDiamond:    fee,
		WalletAddress: walletAddress,
		Status:        domain.WithdrawalPending,
	}
	if err := s.withdrawals.CreateWithTx(ctx, tx, w); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.balance.NotifyUser(ctx, userID)
	if s.OnRequest != nil {
		s.OnRequest(w)
	}
	logger.Info("withdrawal requested",
		"withdrawal_id", w.ID, "user_id", userID, "amount_usd", amountUSD, "fee_diamond", fee)
	return w, nil
}

// Finalize moves a PENDING withdrawal to APPROVED or REJECTED exactly once.
// Rejection refunds the escrowed USD and the DIAMOND fee; approval leaves
// balances untouched since the funds are already debited.
func (s *WithdrawalService) Finalize(ctx context.Context, id int64, decision domain.WithdrawalStatus, remarks string) (*domain.Withdrawal, error) {
	if !decision.Terminal() {
		return nil, ErrInvalidDecision
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	w, err := s.withdrawals.GetByIDForUpdate(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if w.Status.Terminal() {
		return nil, ErrAlreadyFinalized
	}

	if err := s.withdrawals.FinalizeWithTx(ctx, tx, id, decision, remarks); err != nil {
		return nil, err
	}

	if decision == domain.WithdrawalRejected {
		if err := s.balance.CreditWithTx(ctx, tx, w.UserID, domain.CurrencyUSD, w.AmountUSD, "Withdrawal Refund (Rejected)"); err != nil {
			return nil, err
		}
		if w.FeeDiamond > 0 {
			if err := s.balance.CreditWithTx(ctx, tx, w.UserID, domain.CurrencyDiamond, w.FeeDiamond, "Withdrawal Fee Refund (Rejected)"); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.balance.NotifyUser(ctx, w.UserID)
	logger.Info("withdrawal finalized",
		"withdrawal_id", id, "decision", decision, "user_id", w.UserID)
	return s.withdrawals.GetByID(ctx, id)
}

// History returns a user's withdrawals, newest first.
func (s *WithdrawalService) History(ctx context.Context, userID int64, limit int) ([]*domain.Withdrawal, error) {
	return s.withdrawals.GetByUserID(ctx, userID, limit)
}

// Pending returns withdrawals awaiting an admin decision, oldest first.
func (s *WithdrawalService) Pending(ctx context.Context, limit int) ([]*domain.Withdrawal, error) {
	return s.withdrawals.ListByStatus(ctx, domain.WithdrawalPending, limit)
}
