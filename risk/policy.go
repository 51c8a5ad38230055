package risk

import (
	"time"

	"github.com/rustyeddy/dealbook/market"
)

// Policy holds the account level limits. Zero fields are not enforced.
type Policy struct {
	MaxRiskPct       float64 // per trade, 0.01 is one percent
	MinRR            float64
	MaxOpenPositions int
	MaxMarginPct     float64 // margin over equity
	MaxDailyLossPct  float64 // realized loss over balance, per UTC day
}

// Intent is a trade about to be sent.
type Intent struct {
	Now            time.Time
	Symbol         string
	Volume         float64
	Entry          float64
	Stop           float64
	TakeProfit     float64
	Contract       market.SymbolContract
	QuoteToAccount float64
}
