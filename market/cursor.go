package market

import "time"

// Cursor walks the driving candle series one bar at a time. The current
// bar is the newest candle the strategy is allowed to see.
type Cursor struct {
	Symbol  string
	Candles []Candle
	pos     int
}

// NewCursor positions a cursor at index start (clamped to the series).
func NewCursor(symbol string, candles []Candle, start int) *Cursor {
	if start < 0 {
		start = 0
	}
	if start > len(candles)-1 {
		start = len(candles) - 1
	}
	return &Cursor{Symbol: symbol, Candles: candles, pos: start}
}

func (c *Cursor) Index() int { return c.pos }

// Prefix returns every candle up to and including the current one.
func (c *Cursor) Prefix() []Candle {
	if len(c.Candles) == 0 {
		return nil
	}
	return c.Candles[:c.pos+1]
}

func (c *Cursor) Current() Candle {
	if len(c.Candles) == 0 {
		return Candle{}
	}
	return c.Candles[c.pos]
}

// Time is the simulated now.
func (c *Cursor) Time() time.Time {
	return c.Current().Time
}

// Step is the bar width: the spacing from the previous candle, or to the
// next one on the first bar. A lone candle has no width.
func (c *Cursor) Step() time.Duration {
	if len(c.Candles) < 2 {
		return 0
	}
	if c.pos == 0 {
		return c.Candles[1].Time.Sub(c.Candles[0].Time)
	}
	return c.Candles[c.pos].Time.Sub(c.Candles[c.pos-1].Time)
}

// Done reports whether the cursor sits on the final candle.
func (c *Cursor) Done() bool {
	return c.pos >= len(c.Candles)-1
}

// Advance moves to the next candle. It returns false at the end.
func (c *Cursor) Advance() bool {
	if c.Done() {
		return false
	}
	c.pos++
	return true
}
