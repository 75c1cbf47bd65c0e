package service

import (
	"context"
	"errors"
	"fmt"

	"mining_webapp/internal/domain"
	"mining_webapp/internal/logger"
	"mining_webapp/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidCurrency   = errors.New("invalid currency")
)

// BalanceNotifier pushes balance changes to connected clients. Replaces the
// ad hoc "refresh the active viewer" side effects with an explicit
// subscription mechanism.
type BalanceNotifier interface {
	NotifyBalance(userID int64, balances map[domain.Currency]float64)
}

// BalanceService applies all balance mutations. Every mutation locks the user
// row, writes the new amount and appends a log entry in one transaction.
type BalanceService struct {
	db       *pgxpool.Pool
	ledger   *repository.LedgerRepository
	notifier BalanceNotifier
}

func NewBalanceService(db *pgxpool.Pool) *BalanceService {
	return &BalanceService{
		db:     db,
		ledger: repository.NewLedgerRepository(db),
	}
}

// SetNotifier wires an optional balance push channel.
func (s *BalanceService) SetNotifier(n BalanceNotifier) {
	s.notifier = n
}

// balanceColumn maps a currency onto its users column. Only these four names
// ever reach a query.
func balanceColumn(c domain.Currency) (string, error) {
	switch c {
	case domain.CurrencyCoin:
		return "coin", nil
	case domain.CurrencyUSD:
		return "usd", nil
	case domain.CurrencyDiamond:
		return "diamond", nil
	case domain.CurrencyStar:
		return "star", nil
	}
	return "", ErrInvalidCurrency
}

// CreditWithTx adds amount to one currency inside an existing transaction and
// appends a CREDIT log entry.
func (s *BalanceService) CreditWithTx(ctx context.Context, dbTx pgx.Tx, userID int64, c domain.Currency, amount float64, description string) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	col, err := balanceColumn(c)
	if err != nil {
		return err
	}

	tag, err := dbTx.Exec(ctx,
		fmt.Sprintf(`UPDATE users SET %s = %s + $1 WHERE id = $2`, col, col),
		amount, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return s.ledger.AppendWithTx(ctx, dbTx, &domain.Transaction{
		UserID:      userID,
		Currency:    c,
		Amount:      amount,
		Type:        domain.TxCredit,
		Description: description,
	})
}

// DebitWithTx removes amount from one currency inside an existing transaction
// and appends a DEBIT log entry. Fails without mutation when the balance is
// too low.
func (s *BalanceService) DebitWithTx(ctx context.Context, dbTx pgx.Tx, userID int64, c domain.Currency, amount float64, description string) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	col, err := balanceColumn(c)
	if err != nil {
		return err
	}

	tag, err := dbTx.Exec(ctx,
		fmt.Sprintf(`UPDATE users SET %s = %s - $1 WHERE id = $2 AND %s >= $1`, col, col, col),
		amount, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		_ = dbTx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists)
		if !exists {
			return ErrUserNotFound
		}
		return ErrInsufficientFunds
	}

	return s.ledger.AppendWithTx(ctx, dbTx, &domain.Transaction{
		UserID:      userID,
		Currency:    c,
		Amount:      amount,
		Type:        domain.TxDebit,
		Description: description,
	})
}

// Credit is the standalone single-user form of CreditWithTx.
func (s *BalanceService) Credit(ctx context.Context, userID int64, c domain.Currency, amount float64, description string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.CreditWithTx(ctx, tx, userID, c, amount, description); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.NotifyUser(ctx, userID)
	return nil
}

// GetBalances reads all four balances of a user.
func (s *BalanceService) GetBalances(ctx context.Context, userID int64) (map[domain.Currency]float64, error) {
	var coin, usd, diamond, star float64
	err := s.db.QueryRow(ctx,
		`SELECT coin, usd, diamond, star FROM users WHERE id = $1`, userID,
	).Scan(&coin, &usd, &diamond, &star)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return map[domain.Currency]float64{
		domain.CurrencyCoin:    coin,
		domain.CurrencyUSD:     usd,
		domain.CurrencyDiamond: diamond,
		domain.CurrencyStar:    star,
	}, nil
}

// NotifyUser pushes a user's current balances to their connected clients.
// Best effort; failures are logged only.
func (s *BalanceService) NotifyUser(ctx context.Context, userID int64) {
	if s.notifier == nil {
		return
	}
	balances, err := s.GetBalances(ctx, userID)
	if err != nil {
		logger.Warn("balance notify read failed", "user_id", userID, "error", err)
		return
	}
	s.notifier.NotifyBalance(userID, balances)
}

// Logs returns a user's transaction log, newest first.
func (s *BalanceService) Logs(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	return s.ledger.GetByUserID(ctx, userID, limit)
}
