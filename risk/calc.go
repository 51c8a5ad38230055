// Package risk sizes positions from a stop distance and gates trade
// intents against account level limits.
package risk

import (
	"math"

	"github.com/rustyeddy/dealbook/market"
)

// PlannedRisk is the account currency loss if the stop is hit.
func PlannedRisk(volume, entry, stop, contractSize, quoteToAccount float64) float64 {
	return volume * contractSize * math.Abs(entry-stop) * quoteToAccount
}

func RR(entry, stop, takeProfit float64) float64 {
	risk := math.Abs(entry - stop)
	if risk == 0 {
		return 0
	}
	return math.Abs(takeProfit-entry) / risk
}

func RiskPct(plannedRisk, equity float64) float64 {
	if equity <= 0 {
		return math.Inf(1)
	}
	return plannedRisk / equity
}

// QuoteToAccount returns the factor turning a quote currency amount into
// the account currency, when it can be derived from the symbol's own
// price.
func QuoteToAccount(c market.SymbolContract, accountCurrency string, price float64) (float64, bool) {
	switch accountCurrency {
	case c.ProfitCurrency:
		return 1, true
	case c.BaseCurrency:
		if price > 0 {
			return 1 / price, true
		}
	}
	return 0, false
}
