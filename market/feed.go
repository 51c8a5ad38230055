package market

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// LoadTicks reads a tick file, picking the codec from its extension.
func LoadTicks(path, symbol string) ([]Tick, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadTicksCSV(path, symbol)
	case ".parquet":
		return LoadTicksParquet(path, symbol)
	}
	return nil, fmt.Errorf("load ticks %s: unsupported file type", path)
}

// LoadCandles reads a candle file, picking the codec from its extension.
// Semicolon separated text files are read as HistData exports.
func LoadCandles(path string) ([]Candle, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		hd, err := isHistData(path)
		if err != nil {
			return nil, err
		}
		if hd {
			candles, _, err := LoadHistData(path)
			return candles, err
		}
		return LoadCandlesCSV(path)
	case ".parquet":
		return LoadCandlesParquet(path)
	}
	return nil, fmt.Errorf("load candles %s: unsupported file type", path)
}

// Aggregate builds bid candles of the given width from time ordered
// ticks. Candle times are truncated to the width; empty buckets are
// skipped.
func Aggregate(ticks []Tick, width time.Duration) []Candle {
	if width <= 0 {
		return nil
	}
	var out []Candle
	for _, t := range ticks {
		at := t.Time.Truncate(width)
		if n := len(out); n > 0 && out[n-1].Time.Equal(at) {
			c := &out[n-1]
			c.High = max(c.High, t.Bid)
			c.Low = min(c.Low, t.Bid)
			c.Close = t.Bid
			c.Volume += t.Volume
			continue
		}
		out = append(out, Candle{Time: at, Open: t.Bid, High: t.Bid, Low: t.Bid, Close: t.Bid, Volume: t.Volume})
	}
	return out
}

// Between returns the candles with from <= Time < to. Zero bounds are open.
func Between(candles []Candle, from, to time.Time) []Candle {
	var out []Candle
	for _, c := range candles {
		if !from.IsZero() && c.Time.Before(from) {
			continue
		}
		if !to.IsZero() && !c.Time.Before(to) {
			continue
		}
		out = append(out, c)
	}
	return out
}
