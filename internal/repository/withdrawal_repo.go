package repository

import (
	"context"
	"errors"

	"mining_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrWithdrawalNotFound = errors.New("withdrawal not found")

const withdrawalColumns = `id, user_id, amount_usd, fee_diamond, wallet_address, status,
	COALESCE(remarks, ''), created_at, resolved_at`

type WithdrawalRepository struct {
	db *pgxpool.Pool
}

func NewWithdrawalRepository(db *pgxpool.Pool) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	err := row.Scan(&w.ID, &w.UserID, &w.AmountUSD, &w.FeeDiamond, &w.WalletAddress,
		&w.Status, &w.Remarks, &w.CreatedAt, &w.ResolvedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *WithdrawalRepository) GetByID(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	return scanWithdrawal(r.db.QueryRow(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`, id))
}

// GetByIDForUpdate locks the withdrawal row inside an existing transaction so
// finalization happens exactly once.
func (r *WithdrawalRepository) GetByIDForUpdate(ctx context.Context, dbTx pgx.Tx, id int64) (*domain.Withdrawal, error) {
	return scanWithdrawal(dbTx.QueryRow(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1 FOR UPDATE`, id))
}

func (r *WithdrawalRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.Withdrawal, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWithdrawals(rows)
}

// ListByStatus returns withdrawals in a given state, oldest pending first.
func (r *WithdrawalRepository) ListByStatus(ctx context.Context, status domain.WithdrawalStatus, limit int) ([]*domain.Withdrawal, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals
		 WHERE status = $1
		 ORDER BY created_at ASC, id ASC
		 LIMIT $2`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWithdrawals(rows)
}

func collectWithdrawals(rows pgx.Rows) ([]*domain.Withdrawal, error) {
	var result []*domain.Withdrawal
	for rows.Next() {
		w, err := scanWithdrawal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// CreateWithTx inserts a PENDING withdrawal inside an existing transaction.
func (r *WithdrawalRepository) CreateWithTx(ctx context.Context, dbTx pgx.Tx, w *domain.Withdrawal) error {
	return dbTx.QueryRow(ctx,
		`INSERT INTO withdrawals (user_id, amount_usd, fee_diamond, wallet_address, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		w.UserID, w.AmountUSD, w.FeeDiamond, w.WalletAddress, w.Status,
	).Scan(&w.ID, &w.CreatedAt)
}

// FinalizeWithTx moves a withdrawal to a terminal state.
func (r *WithdrawalRepository) FinalizeWithTx(ctx context.Context, dbTx pgx.Tx, id int64, status domain.WithdrawalStatus, remarks string) error {
	tag, err := dbTx.Exec(ctx,
		`UPDATE withdrawals SET status = $2, remarks = $3, resolved_at = NOW()
		 WHERE id = $1 AND status = 'PENDING'`,
		id, status, remarks)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWithdrawalNotFound
	}
	return nil
}

// CountPending returns the number of withdrawals awaiting an admin decision.
func (r *WithdrawalRepository) CountPending(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM withdrawals WHERE status = 'PENDING'`).Scan(&n)
	return n, err
}
