// Package strategies holds the trading logic driven by the backtest
// runner. A strategy sees the candle cursor and trades through a
// broker.TradeGateway, so the same code runs against the ledger and a
// live terminal.
package strategies

import (
	"context"
	"fmt"
	"strings"

	"github.com/rustyeddy/dealbook/broker"
	"github.com/rustyeddy/dealbook/indicators"
	"github.com/rustyeddy/dealbook/market"
	"github.com/rustyeddy/dealbook/risk"
)

// Strategy is called once per closed candle of the driving series.
type Strategy interface {
	Name() string
	OnStep(ctx context.Context, gw broker.TradeGateway, cursor *market.Cursor) error
}

// Params carries every knob a strategy might read from config.
type Params struct {
	Symbol string
	Volume float64
	Side   string // open-once: "buy" or "sell"

	Fast, Slow int
	Kind       string  // sma, ema or lwma
	MinADX     float64 // 0 disables the trend filter
	ADXPeriod  int
	StopATR    float64 // stop distance in ATRs, 0 for none
	ATRPeriod  int
	RiskPct    float64     // size entries by risk; needs StopATR
	Policy     risk.Policy // zero value disables the gate
}

// ByName builds a strategy from its registered name.
func ByName(name string, p Params) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none", "":
		return Noop{}, nil

	case "open-once":
		typ := broker.OrderTypeBuy
		switch strings.ToLower(p.Side) {
		case "", "buy":
		case "sell":
			typ = broker.OrderTypeSell
		default:
			return nil, fmt.Errorf("open-once: unknown side %q", p.Side)
		}
		return &OpenOnce{Symbol: p.Symbol, Type: typ, Volume: p.Volume}, nil

	case "ma-cross", "macross":
		kind, err := indicators.ParseKind(p.Kind)
		if err != nil {
			return nil, err
		}
		return NewMACross(MACrossConfig{
			Symbol:    p.Symbol,
			Fast:      p.Fast,
			Slow:      p.Slow,
			Kind:      kind,
			Volume:    p.Volume,
			MinADX:    p.MinADX,
			ADXPeriod: p.ADXPeriod,
			StopATR:   p.StopATR,
			ATRPeriod: p.ATRPeriod,
			RiskPct:   p.RiskPct,
			Policy:    policyOrNil(p.Policy),
		})

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, open-once, ma-cross)", name)
	}
}

func policyOrNil(p risk.Policy) *risk.Policy {
	if p == (risk.Policy{}) {
		return nil
	}
	return &p
}
