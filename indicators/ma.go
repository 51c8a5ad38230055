package indicators

import (
	"fmt"

	"github.com/rustyeddy/dealbook/market"
)

func checkPeriod(candles []market.Candle, period, need int) error {
	if period <= 0 {
		return fmt.Errorf("period must be positive, got %d", period)
	}
	if len(candles) < need {
		return fmt.Errorf("not enough candles: need %d, got %d", need, len(candles))
	}
	return nil
}

// MA calculates the Simple Moving Average of the last period closes.
func MA(candles []market.Candle, period int) (float64, error) {
	if err := checkPeriod(candles, period, period); err != nil {
		return 0, err
	}

	sum := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		sum += candles[i].Close
	}
	return sum / float64(period), nil
}

// EMA calculates the Exponential Moving Average for the given period,
// seeded with the SMA of the first period closes.
func EMA(candles []market.Candle, period int) (float64, error) {
	if err := checkPeriod(candles, period, period); err != nil {
		return 0, err
	}

	multiplier := 2.0 / float64(period+1)

	sma := 0.0
	for i := 0; i < period; i++ {
		sma += candles[i].Close
	}
	ema := sma / float64(period)

	for i := period; i < len(candles); i++ {
		ema = (candles[i].Close-ema)*multiplier + ema
	}
	return ema, nil
}

// LWMA calculates the Linear Weighted Moving Average of the last period
// closes. The newest close has weight period, the oldest weight 1.
func LWMA(candles []market.Candle, period int) (float64, error) {
	if err := checkPeriod(candles, period, period); err != nil {
		return 0, err
	}

	sum, weights := 0.0, 0.0
	first := len(candles) - period
	for i := first; i < len(candles); i++ {
		w := float64(i - first + 1)
		sum += candles[i].Close * w
		weights += w
	}
	return sum / weights, nil
}

// MovingAverage dispatches to MA, EMA or LWMA.
func MovingAverage(kind Kind, candles []market.Candle, period int) (float64, error) {
	switch kind {
	case KindEMA:
		return EMA(candles, period)
	case KindLWMA:
		return LWMA(candles, period)
	}
	return MA(candles, period)
}
