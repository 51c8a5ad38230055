package market

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var ErrNoTicks = errors.New("no ticks")

// Provider is the read-only market data source the ledger prices against.
type Provider interface {
	SymbolContract(symbol string) (SymbolContract, error)
	Symbols() []string
	// TicksInRange returns ticks with from <= Time < to, oldest first.
	TicksInRange(symbol string, from, to time.Time) ([]Tick, error)
	// TickAt returns the most recent tick at or before at. It never
	// looks forward; ErrNoTicks when none precedes at.
	TickAt(symbol string, at time.Time) (Tick, error)
}

// Series is an in-memory Provider over preloaded tick streams.
type Series struct {
	contracts map[string]SymbolContract
	ticks     map[string][]Tick
}

var _ Provider = (*Series)(nil)

func NewSeries() *Series {
	return &Series{
		contracts: make(map[string]SymbolContract),
		ticks:     make(map[string][]Tick),
	}
}

func (s *Series) AddContract(c SymbolContract) {
	s.contracts[c.Name] = c
}

// AddTicks appends ticks for symbol and keeps the stream time ordered.
func (s *Series) AddTicks(symbol string, ticks []Tick) {
	all := append(s.ticks[symbol], ticks...)
	for i := range all {
		all[i].Symbol = symbol
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Time.Before(all[j].Time) })
	s.ticks[symbol] = all
}

func (s *Series) SymbolContract(symbol string) (SymbolContract, error) {
	c, ok := s.contracts[symbol]
	if !ok {
		return SymbolContract{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return c, nil
}

// Symbols lists every symbol with a contract, sorted by name.
func (s *Series) Symbols() []string {
	out := make([]string, 0, len(s.contracts))
	for name := range s.contracts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *Series) TicksInRange(symbol string, from, to time.Time) ([]Tick, error) {
	ticks, ok := s.ticks[symbol]
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoTicks, symbol)
	}
	lo := sort.Search(len(ticks), func(i int) bool { return !ticks[i].Time.Before(from) })
	hi := sort.Search(len(ticks), func(i int) bool { return !ticks[i].Time.Before(to) })
	if hi <= lo {
		return nil, nil
	}
	out := make([]Tick, hi-lo)
	copy(out, ticks[lo:hi])
	return out, nil
}

func (s *Series) TickAt(symbol string, at time.Time) (Tick, error) {
	ticks := s.ticks[symbol]
	if len(ticks) == 0 {
		return Tick{}, fmt.Errorf("%w for %s", ErrNoTicks, symbol)
	}
	i := sort.Search(len(ticks), func(i int) bool { return ticks[i].Time.After(at) })
	if i == 0 {
		return Tick{}, fmt.Errorf("%w for %s at or before %s", ErrNoTicks, symbol, at.Format(time.RFC3339))
	}
	return ticks[i-1], nil
}

// LastTick returns the closing tick of the bar opened at at: the last
// tick inside [at, at+step). An empty window falls back to the nearest
// earlier tick. With no step only ticks at or before at qualify.
func LastTick(p Provider, symbol string, at time.Time, step time.Duration) (Tick, error) {
	if step <= 0 {
		return p.TickAt(symbol, at)
	}
	end := at.Add(step)
	ticks, err := p.TicksInRange(symbol, at, end)
	if err != nil {
		return Tick{}, fmt.Errorf("last tick %s: %w", symbol, err)
	}
	if len(ticks) > 0 {
		return ticks[len(ticks)-1], nil
	}
	return p.TickAt(symbol, end.Add(-time.Nanosecond))
}
