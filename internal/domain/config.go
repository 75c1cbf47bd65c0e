package domain

// ReferralReward is the payout tuple credited to one sponsor in the upline.
type ReferralReward struct {
	Coin    float64 `json:"coin"`
	Speed   float64 `json:"speed"`
	USD     float64 `json:"usd"`
	Diamond float64 `json:"diamond"`
}

// CurrencyRewards returns the non-zero currency components in payout order.
// The speed component is applied to mining speed separately.
func (r ReferralReward) CurrencyRewards() []CurrencyAmount {
	var out []CurrencyAmount
	for _, ca := range []CurrencyAmount{
		{CurrencyCoin, r.Coin},
		{CurrencyUSD, r.USD},
		{CurrencyDiamond, r.Diamond},
	} {
		if ca.Amount > 0 {
			out = append(out, ca)
		}
	}
	return out
}

// ReferralRewards holds the five-level payout table. Level 1 is distinct;
// levels 2 through 5 share one tuple.
type ReferralRewards struct {
	Lev1    ReferralReward `json:"lev1"`
	Lev2to5 ReferralReward `json:"lev2to5"`
}

// MaxReferralLevels bounds the upline walk on registration.
const MaxReferralLevels = 5

// DownlineDepthLimit bounds recursive downline counting so a corrupted sponsor
// graph cannot loop forever.
const DownlineDepthLimit = 10

// ForLevel returns the reward tuple for an upline level, 1-based.
func (r ReferralRewards) ForLevel(level int) ReferralReward {
	if level == 1 {
		return r.Lev1
	}
	return r.Lev2to5
}

type WelcomeBonus struct {
	Coin  float64 `json:"coin"`
	Speed float64 `json:"speed"`
}

type SocialLinks struct {
	Telegram string `json:"telegram"`
	Facebook string `json:"facebook"`
	YouTube  string `json:"youtube"`
	Twitter  string `json:"twitter"`
}

type AirdropItem struct {
	Label       string `json:"label"`
	IsCompleted bool   `json:"is_completed"`
}

type AirdropConfig struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Phase       string        `json:"phase"`
	Countdown   string        `json:"countdown"`
	Items       []AirdropItem `json:"items"`
}

// AppConfig is the process-wide rule set read by every engine operation.
// Stored as a single jsonb row and replaced wholesale by admins.
type AppConfig struct {
	CoinName string `json:"coin_name"`
	CoinLogo string `json:"coin_logo"`

	WelcomeBonus    WelcomeBonus    `json:"welcome_bonus"`
	ReferralRewards ReferralRewards `json:"referral_rewards"`

	MiningSessionMinutes int `json:"mining_session_minutes"`

	MinWithdrawal float64 `json:"min_withdrawal"`
	MaxWithdrawal float64 `json:"max_withdrawal"`
	// WithdrawalFeePerUSD is charged in DIAMOND per withdrawn USD.
	WithdrawalFeePerUSD float64 `json:"withdrawal_fee_per_usd"`

	SocialLinks SocialLinks   `json:"social_links"`
	Airdrop     AirdropConfig `json:"airdrop"`
}

// DefaultAppConfig is the rule set a fresh deployment starts with.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		CoinName:     "GYK Coin",
		CoinLogo:     "https://picsum.photos/seed/gyk/200/200",
		WelcomeBonus: WelcomeBonus{Coin: 50, Speed: 1},
		ReferralRewards: ReferralRewards{
			Lev1:    ReferralReward{Coin: 50, Speed: 0.1, USD: 0.02, Diamond: 1},
			Lev2to5: ReferralReward{Coin: 50, Speed: 0.1, USD: 0.02, Diamond: 1},
		},
		MiningSessionMinutes: 5,
		MinWithdrawal:        1,
		MaxWithdrawal:        100,
		WithdrawalFeePerUSD:  1,
		SocialLinks: SocialLinks{
			Telegram: "https://t.me/gyk_mining",
			Facebook: "https://facebook.com/gyk_mining",
			YouTube:  "https://youtube.com/@gyk_mining",
			Twitter:  "https://x.com/gyk_mining",
		},
		Airdrop: AirdropConfig{
			Title:       "AIRDROP LIVE SOON",
			Description: "We are currently in the mining phase. Coins will be converted to tradable tokens upon listing.",
			Phase:       "Pre-Listing",
			Countdown:   "Q4 2024",
			Items: []AirdropItem{
				{Label: "Minimum 500 Coins", IsCompleted: true},
				{Label: "At least 5 Referrals", IsCompleted: false},
				{Label: "Connect TON Wallet", IsCompleted: true},
				{Label: "Hold 10+ Stars", IsCompleted: false},
			},
		},
	}
}
