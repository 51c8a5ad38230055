package market

import (
	"fmt"
	"strings"
	"time"
)

var timeframes = map[string]time.Duration{
	"M1":  time.Minute,
	"M5":  5 * time.Minute,
	"M15": 15 * time.Minute,
	"M30": 30 * time.Minute,
	"H1":  time.Hour,
	"H4":  4 * time.Hour,
	"D1":  24 * time.Hour,
	"W1":  7 * 24 * time.Hour,
}

// ParseTimeframe accepts terminal names (M15, H1, D1) or Go durations
// ("15m", "1h").
func ParseTimeframe(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, ok := timeframes[strings.ToUpper(s)]; ok {
		return d, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("unsupported timeframe %q", s)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeframe must be positive, got %s", s)
	}
	return d, nil
}

// TimeframeName maps a width back to its terminal name.
func TimeframeName(d time.Duration) (string, error) {
	switch {
	case d <= 0:
		return "", fmt.Errorf("invalid timeframe: %s", d)
	case d == 7*24*time.Hour:
		return "W1", nil
	case d < time.Hour && d%time.Minute == 0:
		return fmt.Sprintf("M%d", d/time.Minute), nil
	case d < 24*time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("H%d", d/time.Hour), nil
	case d%(24*time.Hour) == 0:
		return fmt.Sprintf("D%d", d/(24*time.Hour)), nil
	}
	return "", fmt.Errorf("cannot name timeframe %s", d)
}
