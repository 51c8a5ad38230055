package market

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var ErrPairNotAvailable = errors.New("pair not available")

const usd = "USD"

// FindPair returns the symbol quoting c1 against c2. When several symbols
// contain both codes, the one ending with c2 wins.
func FindPair(symbols []string, c1, c2 string) (string, error) {
	var candidates []string
	for _, s := range symbols {
		if strings.Contains(s, c1) && strings.Contains(s, c2) {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: %s/%s", ErrPairNotAvailable, c1, c2)
	}
	sort.Strings(candidates)
	for _, s := range candidates {
		if strings.HasSuffix(s, c2) {
			return s, nil
		}
	}
	return candidates[0], nil
}

// CurrencyConverter converts an amount between currencies at a point in time.
type CurrencyConverter interface {
	Convert(value float64, from, to string, at time.Time) (float64, error)
}

// Converter prices conversions off the provider's FX ticks. Pairs without
// a USD leg go through USD.
type Converter struct {
	Provider Provider
}

var _ CurrencyConverter = Converter{}

func (c Converter) Convert(value float64, from, to string, at time.Time) (float64, error) {
	if from == to {
		return value, nil
	}
	if from == usd || to == usd {
		return c.direct(value, from, to, at)
	}
	inUSD, err := c.direct(value, from, usd, at)
	if err != nil {
		return 0, err
	}
	return c.direct(inUSD, usd, to, at)
}

func (c Converter) direct(value float64, from, to string, at time.Time) (float64, error) {
	pair, err := FindPair(c.Provider.Symbols(), from, to)
	if err != nil {
		return 0, err
	}
	tick, err := c.Provider.TickAt(pair, at)
	if err != nil {
		return 0, fmt.Errorf("convert %s->%s via %s: %w", from, to, pair, err)
	}

	price := tick.Bid
	if value >= 0 {
		price = tick.Ask
	}
	if price == 0 {
		return 0, fmt.Errorf("convert %s->%s via %s: zero price at %s", from, to, pair, tick.Time)
	}

	if strings.HasSuffix(pair, to) {
		return value * price, nil
	}
	return value / price, nil
}
