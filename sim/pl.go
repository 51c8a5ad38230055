package sim

import (
	"fmt"

	"github.com/rustyeddy/dealbook/broker"
	"github.com/rustyeddy/dealbook/market"
)

// ProfitParams describes a (possibly partial) close of a position.
type ProfitParams struct {
	Contract        market.SymbolContract
	AccountCurrency string
	Type            broker.PositionType
	Volume          float64
	PriceOpen       float64
	PriceClose      float64
	CloseTick       market.Tick
}

// ComputeProfit returns the profit in account currency, rounded to five
// decimals.
func ComputeProfit(p ProfitParams, conv market.CurrencyConverter) (float64, error) {
	c := p.Contract
	if c.TickSize <= 0 {
		return 0, fmt.Errorf("compute profit %s: tick size must be positive", c.Name)
	}

	tickValue := c.ContractSize * p.Volume * c.TickSize
	ticks := (p.PriceClose - p.PriceOpen) / c.TickSize
	if p.Type == broker.PositionTypeSell {
		ticks = -ticks
	}

	switch {
	case p.AccountCurrency == c.BaseCurrency:
		price := p.CloseTick.Bid
		if ticks >= 0 {
			price = p.CloseTick.Ask
		}
		if price == 0 {
			return 0, fmt.Errorf("compute profit %s: close tick has no price", c.Name)
		}
		tickValue /= price
	case p.AccountCurrency != c.ProfitCurrency:
		v, err := conv.Convert(tickValue, c.ProfitCurrency, p.AccountCurrency, p.CloseTick.Time)
		if err != nil {
			return 0, fmt.Errorf("compute profit %s: %w", c.Name, err)
		}
		tickValue = v
	}

	return market.Round(ticks*tickValue, 5), nil
}
