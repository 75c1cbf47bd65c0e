package domain

import "time"

// Transaction types.
const (
	TxCredit = "CREDIT"
	TxDebit  = "DEBIT"
)

// MaxUserLogEntries bounds the per-user transaction log. Older entries are
// pruned whenever a new one is written.
const MaxUserLogEntries = 50

// Transaction is one immutable entry in a user's transaction log. Amount is
// always a positive magnitude; Type says which way the balance moved.
type Transaction struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Currency    Currency  `db:"currency" json:"currency"`
	Amount      float64   `db:"amount" json:"amount"`
	Type        string    `db:"type" json:"type"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
