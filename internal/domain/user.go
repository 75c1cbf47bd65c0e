package domain

import "time"

type User struct {
	ID        int64  `db:"id" json:"id"`
	TgID      int64  `db:"tg_id" json:"tg_id"`
	Username  string `db:"username" json:"username"`
	FullName  string `db:"full_name" json:"full_name"`
	IPAddress string `db:"ip_address" json:"-"`
	// SponsorID is a weak reference to the recruiting user, matched against
	// either that user's tg_id or internal id.
	SponsorID *int64 `db:"sponsor_id" json:"sponsor_id,omitempty"`

	Coin    float64 `db:"coin" json:"coin"`
	USD     float64 `db:"usd" json:"usd"`
	Diamond float64 `db:"diamond" json:"diamond"`
	Star    float64 `db:"star" json:"star"`

	// MiningSpeed is coins earned per hour of mining.
	MiningSpeed float64 `db:"mining_speed" json:"mining_speed"`

	MiningActive    bool       `db:"mining_active" json:"mining_active"`
	MiningStartedAt *time.Time `db:"mining_started_at" json:"mining_started_at,omitempty"`
	LastMinedAmount float64    `db:"last_mined_amount" json:"last_mined_amount"`

	TotalReferrals int `db:"total_referrals" json:"total_referrals"`
	TotalTeamSize  int `db:"total_team_size" json:"total_team_size"`
	DailyLogins    int `db:"daily_logins" json:"daily_logins"`
	TasksCompleted int `db:"tasks_completed" json:"tasks_completed"`

	// LastDailyLogin is a YYYY-MM-DD day string in UTC, nil until the first
	// check-in.
	LastDailyLogin *string   `db:"last_daily_login" json:"last_daily_login,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Balance returns the amount held in the given currency.
func (u *User) Balance(c Currency) float64 {
	switch c {
	case CurrencyCoin:
		return u.Coin
	case CurrencyUSD:
		return u.USD
	case CurrencyDiamond:
		return u.Diamond
	case CurrencyStar:
		return u.Star
	}
	return 0
}

// Balances returns all four balances keyed by currency.
func (u *User) Balances() map[Currency]float64 {
	return map[Currency]float64{
		CurrencyCoin:    u.Coin,
		CurrencyUSD:     u.USD,
		CurrencyDiamond: u.Diamond,
		CurrencyStar:    u.Star,
	}
}

// DayString formats t as the UTC calendar-day key used for daily check-ins.
func DayString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
