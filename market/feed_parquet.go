package market

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"
)

// TickRecord is the Parquet schema for tick files.
type TickRecord struct {
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Bid       float64 `parquet:"bid"`
	Ask       float64 `parquet:"ask"`
	Last      float64 `parquet:"last"`
	Volume    float64 `parquet:"volume"`
}

// CandleRecord is the Parquet schema for bar files.
type CandleRecord struct {
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    float64 `parquet:"volume"`
}

func LoadTicksParquet(path, symbol string) ([]Tick, error) {
	rows, err := parquet.ReadFile[TickRecord](path)
	if err != nil {
		return nil, fmt.Errorf("load ticks %s: %w", path, err)
	}
	out := make([]Tick, len(rows))
	for i, r := range rows {
		out[i] = Tick{
			Symbol: symbol,
			Time:   time.UnixMilli(r.Timestamp).UTC(),
			Bid:    r.Bid,
			Ask:    r.Ask,
			Last:   r.Last,
			Volume: r.Volume,
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

func WriteTicksParquet(path string, ticks []Tick) error {
	rows := make([]TickRecord, len(ticks))
	for i, t := range ticks {
		rows[i] = TickRecord{
			Timestamp: t.Time.UnixMilli(),
			Bid:       t.Bid,
			Ask:       t.Ask,
			Last:      t.Last,
			Volume:    t.Volume,
		}
	}
	return writeParquetFile(path, rows)
}

func LoadCandlesParquet(path string) ([]Candle, error) {
	rows, err := parquet.ReadFile[CandleRecord](path)
	if err != nil {
		return nil, fmt.Errorf("load candles %s: %w", path, err)
	}
	out := make([]Candle, len(rows))
	for i, r := range rows {
		out[i] = Candle{
			Time:   time.UnixMilli(r.Timestamp).UTC(),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

func WriteCandlesParquet(path string, candles []Candle) error {
	rows := make([]CandleRecord, len(candles))
	for i, c := range candles {
		rows[i] = CandleRecord{
			Timestamp: c.Time.UnixMilli(),
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		}
	}
	return writeParquetFile(path, rows)
}

func writeParquetFile[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, records)
}
