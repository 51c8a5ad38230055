package backtest

import (
	"fmt"
	"sort"
	"time"

	"github.com/rustyeddy/dealbook/market"
)

// Dataset names the files a run prices against.
type Dataset struct {
	// Symbol drives the cursor.
	Symbol string
	// Ticks maps each symbol to a tick file (.csv or .parquet). Conversion
	// pairs must be listed here too.
	Ticks map[string]string
	// Candles is the driving candle file. When empty the candles are
	// aggregated from the driving symbol's ticks at Timeframe.
	Candles   string
	Timeframe time.Duration
	From, To  time.Time
}

// Load builds the price series and the driving candles.
func (d Dataset) Load() (*market.Series, []market.Candle, error) {
	if d.Symbol == "" {
		return nil, nil, fmt.Errorf("dataset: symbol is required")
	}
	if _, ok := d.Ticks[d.Symbol]; !ok {
		return nil, nil, fmt.Errorf("dataset: no tick file for %s", d.Symbol)
	}

	series := market.NewSeries()
	symbols := make([]string, 0, len(d.Ticks))
	for sym := range d.Ticks {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	var driving []market.Tick
	for _, sym := range symbols {
		c, ok := market.DefaultContracts[sym]
		if !ok {
			return nil, nil, fmt.Errorf("dataset: %w: %s", market.ErrUnknownSymbol, sym)
		}
		ticks, err := market.LoadTicks(d.Ticks[sym], sym)
		if err != nil {
			return nil, nil, fmt.Errorf("dataset: %w", err)
		}
		series.AddContract(c)
		series.AddTicks(sym, ticks)
		if sym == d.Symbol {
			driving = ticks
		}
	}

	var candles []market.Candle
	if d.Candles != "" {
		var err error
		if candles, err = market.LoadCandles(d.Candles); err != nil {
			return nil, nil, fmt.Errorf("dataset: %w", err)
		}
	} else {
		tf := d.Timeframe
		if tf <= 0 {
			tf = 15 * time.Minute
		}
		sort.SliceStable(driving, func(i, j int) bool { return driving[i].Time.Before(driving[j].Time) })
		candles = market.Aggregate(driving, tf)
	}

	candles = market.Between(candles, d.From, d.To)
	if len(candles) == 0 {
		return nil, nil, fmt.Errorf("dataset: no candles for %s in range", d.Symbol)
	}
	return series, candles, nil
}
