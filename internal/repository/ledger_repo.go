package repository

import (
	"context"

	"mining_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LedgerRepository stores the per-user transaction log. Every append prunes
// the log to the most recent domain.MaxUserLogEntries rows.
type LedgerRepository struct {
	db *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// AppendWithTx inserts a log entry inside an existing database transaction
// and prunes old entries for the same user.
func (r *LedgerRepository) AppendWithTx(ctx context.Context, dbTx pgx.Tx, t *domain.Transaction) error {
	err := dbTx.QueryRow(ctx,
		`INSERT INTO transactions (user_id, currency, amount, type, description)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		t.UserID, t.Currency, t.Amount, t.Type, t.Description,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return err
	}

	_, err = dbTx.Exec(ctx,
		`DELETE FROM transactions
		 WHERE user_id = $1 AND id NOT IN (
		     SELECT id FROM transactions
		     WHERE user_id = $1
		     ORDER BY created_at DESC, id DESC
		     LIMIT $2
		 )`,
		t.UserID, domain.MaxUserLogEntries,
	)
	return err
}

// GetByUserID returns a user's log entries, newest first.
func (r *LedgerRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	if limit <= 0 || limit > domain.MaxUserLogEntries {
		limit = domain.MaxUserLogEntries
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, currency, amount, type, description, created_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Currency, &t.Amount, &t.Type, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &t)
	}
	return result, rows.Err()
}

// CountByUserID returns the number of retained log entries for a user.
func (r *LedgerRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE user_id = $1`, userID,
	).Scan(&n)
	return n, err
}
