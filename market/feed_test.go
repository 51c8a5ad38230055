package market

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTicksCSV(t *testing.T) {
	t.Parallel()

	in := strings.Join([]string{
		"time,bid,ask,last,volume",
		"2022-01-03T10:00:00Z,1.1000,1.1002,0,3",
		"",
		"2022-01-03T10:00:01.5Z, 1.1001 , 1.1003",
		"short,row",
	}, "\n")

	ticks, err := ReadTicksCSV(strings.NewReader(in), "EURUSD")
	require.NoError(t, err)
	require.Len(t, ticks, 2)

	assert.Equal(t, "EURUSD", ticks[0].Symbol)
	assert.Equal(t, 1.1002, ticks[0].Ask)
	assert.Equal(t, 3.0, ticks[0].Volume)
	assert.Equal(t, 1.1001, ticks[1].Bid)
	assert.Equal(t, 500_000_000, ticks[1].Time.Nanosecond())
}

func TestReadTicksCSV_BadRow(t *testing.T) {
	t.Parallel()

	_, err := ReadTicksCSV(strings.NewReader("2022-01-03T10:00:00Z,abc,1.1"), "EURUSD")
	assert.Error(t, err)

	_, err = ReadTicksCSV(strings.NewReader("yesterday,1.1,1.1"), "EURUSD")
	assert.Error(t, err)
}

func TestLoadCandlesCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "m15.csv")
	data := "time,open,high,low,close,volume\n" +
		"2022-01-03T10:00:00Z,1.1,1.2,1.0,1.15,100\n" +
		"2022-01-03T10:15:00Z,1.15,1.16,1.14,1.155\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	candles, err := LoadCandlesCSV(path)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	assert.Equal(t, 1.15, candles[0].Close)
	assert.Equal(t, 100.0, candles[0].Volume)
	assert.Equal(t, 0.0, candles[1].Volume)
}

func TestParquetRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	ticks := []Tick{
		{Time: minute(1), Bid: 1.1001, Ask: 1.1003},
		{Time: minute(0), Bid: 1.1000, Ask: 1.1002, Volume: 2},
	}
	tickPath := filepath.Join(dir, "ticks", "EURUSD.parquet")
	require.NoError(t, WriteTicksParquet(tickPath, ticks))

	got, err := LoadTicksParquet(tickPath, "EURUSD")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Time.Equal(minute(0)))
	assert.Equal(t, "EURUSD", got[0].Symbol)
	assert.Equal(t, 2.0, got[0].Volume)

	candles := []Candle{{Time: minute(0), Open: 1, High: 2, Low: 0.5, Close: 1.5}}
	candlePath := filepath.Join(dir, "m15.parquet")
	require.NoError(t, WriteCandlesParquet(candlePath, candles))

	gotCandles, err := LoadCandlesParquet(candlePath)
	require.NoError(t, err)
	require.Len(t, gotCandles, 1)
	assert.Equal(t, 1.5, gotCandles[0].Close)
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	base := time.Date(2022, 1, 3, 10, 0, 0, 0, time.UTC)
	ticks := []Tick{
		{Time: base.Add(1 * time.Minute), Bid: 1.10, Volume: 1},
		{Time: base.Add(5 * time.Minute), Bid: 1.12, Volume: 1},
		{Time: base.Add(9 * time.Minute), Bid: 1.09, Volume: 1},
		{Time: base.Add(14 * time.Minute), Bid: 1.11, Volume: 1},
		{Time: base.Add(31 * time.Minute), Bid: 1.20, Volume: 2},
	}

	candles := Aggregate(ticks, 15*time.Minute)
	require.Len(t, candles, 2)
	assert.Equal(t, Candle{Time: base, Open: 1.10, High: 1.12, Low: 1.09, Close: 1.11, Volume: 4}, candles[0])
	assert.True(t, candles[1].Time.Equal(base.Add(30*time.Minute)))
	assert.Equal(t, 1.20, candles[1].Close)

	assert.Nil(t, Aggregate(ticks, 0))

	between := Between(candles, base.Add(time.Minute), time.Time{})
	require.Len(t, between, 1)
	assert.Len(t, Between(candles, time.Time{}, base.Add(30*time.Minute)), 1)
}

func TestLoadByExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "ticks.csv")
	require.NoError(t, os.WriteFile(path, []byte("time,bid,ask\n2022-01-03T10:00:00Z,1.1,1.1002\n"), 0o644))

	ticks, err := LoadTicks(path, "EURUSD")
	require.NoError(t, err)
	assert.Len(t, ticks, 1)

	_, err = LoadTicks(filepath.Join(dir, "ticks.json"), "EURUSD")
	assert.ErrorContains(t, err, "unsupported file type")
	_, err = LoadCandles(filepath.Join(dir, "candles.xlsx"))
	assert.ErrorContains(t, err, "unsupported file type")
}
