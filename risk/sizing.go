package risk

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/dealbook/market"
)

var ErrBelowMinVolume = errors.New("sized volume below symbol minimum")

type Inputs struct {
	Equity         float64
	RiskPct        float64 // 0.01 is one percent
	Entry          float64
	Stop           float64
	Contract       market.SymbolContract
	QuoteToAccount float64
}

type Result struct {
	Volume     float64
	StopTicks  float64
	RiskAmount float64
}

// Calculate returns the largest volume, on the symbol's volume step,
// whose stop-out loss does not exceed RiskPct of equity. Volumes above
// the symbol maximum are capped.
func Calculate(in Inputs) (Result, error) {
	if in.Equity <= 0 || in.RiskPct <= 0 {
		return Result{}, fmt.Errorf("risk: equity and risk percent must be positive")
	}
	if in.QuoteToAccount <= 0 || in.Contract.ContractSize <= 0 {
		return Result{}, fmt.Errorf("risk: no quote conversion for %s", in.Contract.Name)
	}
	dist := decimal.NewFromFloat(in.Entry).Sub(decimal.NewFromFloat(in.Stop)).Abs()
	if dist.IsZero() {
		return Result{}, fmt.Errorf("risk: stop equals entry")
	}

	amount := decimal.NewFromFloat(in.Equity).Mul(decimal.NewFromFloat(in.RiskPct))
	perLot := dist.
		Mul(decimal.NewFromFloat(in.Contract.ContractSize)).
		Mul(decimal.NewFromFloat(in.QuoteToAccount))
	vol := amount.Div(perLot)
	if step := decimal.NewFromFloat(in.Contract.VolumeStep); step.IsPositive() {
		vol = vol.Div(step).Floor().Mul(step)
	}

	res := Result{
		Volume:     vol.InexactFloat64(),
		RiskAmount: amount.InexactFloat64(),
	}
	if in.Contract.TickSize > 0 {
		res.StopTicks = dist.Div(decimal.NewFromFloat(in.Contract.TickSize)).Round(1).InexactFloat64()
	}
	if in.Contract.VolumeMax > 0 && res.Volume > in.Contract.VolumeMax {
		res.Volume = in.Contract.VolumeMax
	}
	if res.Volume <= 0 || (in.Contract.VolumeMin > 0 && res.Volume < in.Contract.VolumeMin) {
		return res, fmt.Errorf("%w: %v for %s", ErrBelowMinVolume, res.Volume, in.Contract.Name)
	}
	return res, nil
}
