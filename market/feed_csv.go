package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// ReadTicksCSV reads tick rows:
//
//	time,bid,ask[,last,volume]
//
// where time is RFC3339 or RFC3339Nano. A single header row ("time,...")
// is allowed and short rows are skipped.
func ReadTicksCSV(r io.Reader, symbol string) ([]Tick, error) {
	var out []Tick
	err := readRows(r, 3, func(row []string) error {
		t, err := parseTime(row[0])
		if err != nil {
			return err
		}
		vals, err := parseFloats(row[1:])
		if err != nil {
			return err
		}
		tick := Tick{Symbol: symbol, Time: t, Bid: vals[0], Ask: vals[1]}
		if len(vals) > 2 {
			tick.Last = vals[2]
		}
		if len(vals) > 3 {
			tick.Volume = vals[3]
		}
		out = append(out, tick)
		return nil
	})
	return out, err
}

// ReadCandlesCSV reads bar rows:
//
//	time,open,high,low,close[,volume]
func ReadCandlesCSV(r io.Reader) ([]Candle, error) {
	var out []Candle
	err := readRows(r, 5, func(row []string) error {
		t, err := parseTime(row[0])
		if err != nil {
			return err
		}
		vals, err := parseFloats(row[1:])
		if err != nil {
			return err
		}
		c := Candle{Time: t, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3]}
		if len(vals) > 4 {
			c.Volume = vals[4]
		}
		out = append(out, c)
		return nil
	})
	return out, err
}

func LoadTicksCSV(path, symbol string) ([]Tick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ticks, err := ReadTicksCSV(f, symbol)
	if err != nil {
		return nil, fmt.Errorf("load ticks %s: %w", path, err)
	}
	return ticks, nil
}

func LoadCandlesCSV(path string) ([]Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	candles, err := ReadCandlesCSV(f)
	if err != nil {
		return nil, fmt.Errorf("load candles %s: %w", path, err)
	}
	return candles, nil
}

func readRows(r io.Reader, minFields int, fn func([]string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	first := true
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if first {
			first = false
			if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}
		if len(row) < minFields || strings.TrimSpace(row[0]) == "" {
			continue
		}
		if err := fn(row); err != nil {
			return err
		}
	}
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339Nano, s)
		if err2 != nil {
			return time.Time{}, fmt.Errorf("bad time %q: %w", s, err)
		}
		t = t2
	}
	return t.UTC(), nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}
