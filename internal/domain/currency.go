package domain

// Currency identifies one of the four balances every user holds.
type Currency string

const (
	// CurrencyCoin is the mined in-app token.
	CurrencyCoin Currency = "COIN"
	// CurrencyUSD is the withdrawable cash balance.
	CurrencyUSD Currency = "USD"
	// CurrencyDiamond pays withdrawal fees.
	CurrencyDiamond Currency = "DIAMOND"
	// CurrencyStar is earned through daily check-ins.
	CurrencyStar Currency = "STAR"
)

// AllCurrencies lists every currency in canonical order.
var AllCurrencies = []Currency{CurrencyCoin, CurrencyUSD, CurrencyDiamond, CurrencyStar}

// Valid reports whether c is one of the four known currencies.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyCoin, CurrencyUSD, CurrencyDiamond, CurrencyStar:
		return true
	}
	return false
}

// CurrencyAmount pairs a currency with a positive amount, used for reward
// tables and payout lists.
type CurrencyAmount struct {
	Currency Currency `json:"currency"`
	Amount   float64  `json:"amount"`
}
