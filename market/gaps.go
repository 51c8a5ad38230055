package market

import "time"

type GapKind string

const (
	GapMinor      GapKind = "minor"
	GapWeekend    GapKind = "weekend"
	GapSuspicious GapKind = "suspicious"
)

// Gap is a run of missing bars between two present ones.
type Gap struct {
	Start time.Time // first missing bar
	Bars  int
	Kind  GapKind
}

type GapStats struct {
	TotalBars      int
	PresentBars    int
	MissingBars    int
	GapCount       int
	WeekendGaps    int
	SuspiciousGaps int
	LongestGap     int
	LongestGapKind GapKind
}

// FindGaps walks time ordered candles of the given width and reports the
// holes between them.
func FindGaps(candles []Candle, width time.Duration) []Gap {
	if width <= 0 {
		return nil
	}
	var gaps []Gap
	for i := 1; i < len(candles); i++ {
		missing := int(candles[i].Time.Sub(candles[i-1].Time)/width) - 1
		if missing <= 0 {
			continue
		}
		start := candles[i-1].Time.Add(width)
		gaps = append(gaps, Gap{
			Start: start,
			Bars:  missing,
			Kind:  classifyGap(start, time.Duration(missing)*width),
		})
	}
	return gaps
}

// A day or more starting Friday to Sunday is the market closing for the
// weekend. Any other day long hole, or one of ten minutes or more, is
// suspicious.
func classifyGap(start time.Time, span time.Duration) GapKind {
	if span >= 24*time.Hour {
		switch start.UTC().Weekday() {
		case time.Friday, time.Saturday, time.Sunday:
			return GapWeekend
		}
		return GapSuspicious
	}
	if span >= 10*time.Minute {
		return GapSuspicious
	}
	return GapMinor
}

func SummarizeGaps(candles []Candle, width time.Duration) GapStats {
	s := GapStats{PresentBars: len(candles)}
	for _, g := range FindGaps(candles, width) {
		s.GapCount++
		s.MissingBars += g.Bars
		if g.Bars > s.LongestGap {
			s.LongestGap = g.Bars
			s.LongestGapKind = g.Kind
		}
		switch g.Kind {
		case GapWeekend:
			s.WeekendGaps++
		case GapSuspicious:
			s.SuspiciousGaps++
		}
	}
	s.TotalBars = s.PresentBars + s.MissingBars
	return s
}
