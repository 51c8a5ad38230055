// Package indicators provides technical analysis indicators over closed
// candles, both as batch functions and as streaming state machines.
package indicators

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/dealbook/market"
)

// Indicator computes a single streaming value from candles.
// It is deterministic and safe to use in live and backtest runs.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next *closed* candle and updates internal state.
	Update(c market.Candle)

	// Ready reports whether Value() is meaningful (warmup completed).
	Ready() bool

	// Value returns the current indicator value, or 0 before warmup.
	Value() float64
}

// Kind selects a moving average flavour.
type Kind int

const (
	KindSMA Kind = iota
	KindEMA
	KindLWMA
)

func (k Kind) String() string {
	switch k {
	case KindEMA:
		return "EMA"
	case KindLWMA:
		return "LWMA"
	}
	return "SMA"
}

// ParseKind accepts "sma", "ema" or "lwma" in any case.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sma", "":
		return KindSMA, nil
	case "ema":
		return KindEMA, nil
	case "lwma":
		return KindLWMA, nil
	}
	return 0, fmt.Errorf("unknown moving average kind %q", s)
}

// NewMovingAverage returns a streaming moving average of the given kind.
func NewMovingAverage(kind Kind, period int) (Indicator, error) {
	if period <= 0 {
		return nil, fmt.Errorf("period must be positive, got %d", period)
	}
	switch kind {
	case KindEMA:
		return NewEMA(period), nil
	case KindLWMA:
		return NewLWMA(period), nil
	}
	return NewMA(period), nil
}
