package market

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// HistData ASCII exports stamp bars in EST without daylight saving.
var estNoDST = time.FixedZone("EST", -5*60*60)

const histDataLayout = "20060102 150405"

// IngestStats counts the rows a loader had to drop.
type IngestStats struct {
	Rows       int
	Duplicates int
	BadLines   int
}

// ReadHistData reads semicolon separated bar rows:
//
//	20220103 170000;1.137030;1.137110;1.137000;1.137100;0
//
// Times are converted to UTC. The first row for a timestamp wins and the
// result is time ordered.
func ReadHistData(r io.Reader) ([]Candle, IngestStats, error) {
	var st IngestStats
	seen := make(map[int64]bool)
	var out []Candle

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(strings.ToLower(line), "time;") {
			continue
		}
		c, err := parseHistDataRow(line)
		if err != nil {
			st.BadLines++
			continue
		}
		key := c.Time.Unix()
		if seen[key] {
			st.Duplicates++
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	if err := sc.Err(); err != nil {
		return nil, st, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	st.Rows = len(out)
	return out, st, nil
}

func parseHistDataRow(line string) (Candle, error) {
	parts := strings.Split(line, ";")
	if len(parts) < 5 {
		return Candle{}, fmt.Errorf("short row %q", line)
	}
	t, err := time.ParseInLocation(histDataLayout, strings.TrimSpace(parts[0]), estNoDST)
	if err != nil {
		return Candle{}, err
	}
	var v [5]float64
	for i := 1; i < len(parts) && i <= 5; i++ {
		if v[i-1], err = strconv.ParseFloat(strings.TrimSpace(parts[i]), 64); err != nil {
			return Candle{}, err
		}
	}
	return Candle{Time: t.UTC(), Open: v[0], High: v[1], Low: v[2], Close: v[3], Volume: v[4]}, nil
}

func LoadHistData(path string) ([]Candle, IngestStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, IngestStats{}, err
	}
	defer f.Close()

	candles, st, err := ReadHistData(f)
	if err != nil {
		return nil, st, fmt.Errorf("load histdata %s: %w", path, err)
	}
	return candles, st, nil
}

// isHistData reports whether the file's first line is semicolon separated.
func isHistData(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	return strings.Contains(line, ";"), nil
}
