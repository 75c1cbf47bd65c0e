package domain

import "time"

// WithdrawalStatus is the lifecycle state of a withdrawal request.
// PENDING transitions exactly once to APPROVED or REJECTED.
type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "PENDING"
	WithdrawalApproved WithdrawalStatus = "APPROVED"
	WithdrawalRejected WithdrawalStatus = "REJECTED"
)

// Terminal reports whether the status admits no further transition.
func (s WithdrawalStatus) Terminal() bool {
	return s == WithdrawalApproved || s == WithdrawalRejected
}

// Withdrawal is a USD payout request. The USD amount and the DIAMOND fee are
// debited at request time (escrow) and refunded only on rejection.
type Withdrawal struct {
	ID            int64            `db:"id" json:"id"`
	UserID        int64            `db:"user_id" json:"user_id"`
	AmountUSD     float64          `db:"amount_usd" json:"amount_usd"`
	FeeDiamond    float64          `db:"fee_diamond" json:"fee_diamond"`
	WalletAddress string           `db:"wallet_address" json:"wallet_address"`
	Status        WithdrawalStatus `db:"status" json:"status"`
	Remarks       string           `db:"remarks" json:"remarks,omitempty"`
	CreatedAt     time.Time        `db:"created_at" json:"created_at"`
	ResolvedAt    *time.Time       `db:"resolved_at" json:"resolved_at,omitempty"`
}
