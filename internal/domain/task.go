package domain

import "time"

// Task is a one-shot reward offer shared by all users. Completion is tracked
// per user in user_tasks.
type Task struct {
	ID          int64  `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	Link        string `db:"link" json:"link"`

	RewardCoin    float64 `db:"reward_coin" json:"reward_coin"`
	RewardUSD     float64 `db:"reward_usd" json:"reward_usd"`
	RewardDiamond float64 `db:"reward_diamond" json:"reward_diamond"`
	RewardStar    float64 `db:"reward_star" json:"reward_star"`
	// RewardSpeed raises the user's mining speed; it has no currency and is
	// not logged.
	RewardSpeed float64 `db:"reward_speed" json:"reward_speed"`

	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// CurrencyRewards returns the non-zero currency rewards in payout order.
func (t *Task) CurrencyRewards() []CurrencyAmount {
	var out []CurrencyAmount
	for _, ca := range []CurrencyAmount{
		{CurrencyCoin, t.RewardCoin},
		{CurrencyUSD, t.RewardUSD},
		{CurrencyDiamond, t.RewardDiamond},
		{CurrencyStar, t.RewardStar},
	} {
		if ca.Amount > 0 {
			out = append(out, ca)
		}
	}
	return out
}

// TaskWithStatus is a task together with the requesting user's completion
// state, for API responses.
type TaskWithStatus struct {
	Task
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
