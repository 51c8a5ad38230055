package strategies

import (
	"context"
	"errors"
	"fmt"

	"github.com/rustyeddy/dealbook/broker"
	"github.com/rustyeddy/dealbook/indicators"
	"github.com/rustyeddy/dealbook/market"
	"github.com/rustyeddy/dealbook/risk"
)

type MACrossConfig struct {
	Symbol string
	Fast   int
	Slow   int
	Kind   indicators.Kind
	Volume float64

	// MinADX skips crosses while ADX(ADXPeriod) is below it.
	MinADX    float64
	ADXPeriod int

	// StopATR places the stop-loss StopATR * ATR(ATRPeriod) away from
	// the signal close.
	StopATR   float64
	ATRPeriod int

	// RiskPct sizes each entry so that hitting the ATR stop loses this
	// fraction of equity. Needs StopATR; Volume is used otherwise.
	RiskPct float64
	// Policy vetoes entries that break account limits. Nil disables it.
	Policy *risk.Policy
}

// MACross trades a fast/slow moving average crossover on one symbol.
//   - Enters only on a cross
//   - Reverses on the opposite cross
//   - In netting mode the reversal is a single INOUT deal
type MACross struct {
	MACrossConfig

	fast indicators.Indicator
	slow indicators.Indicator
	adx  *indicators.ADX
	atr  *indicators.ATR

	lastDiff     float64
	haveLastDiff bool
	lastIndex    int
	vetoed       int
}

func NewMACross(cfg MACrossConfig) (*MACross, error) {
	if cfg.Fast <= 0 || cfg.Slow <= 0 {
		return nil, fmt.Errorf("ma-cross: periods must be positive, got %d/%d", cfg.Fast, cfg.Slow)
	}
	if cfg.Fast >= cfg.Slow {
		return nil, fmt.Errorf("ma-cross: fast period %d must be below slow period %d", cfg.Fast, cfg.Slow)
	}
	if cfg.Volume <= 0 {
		return nil, fmt.Errorf("ma-cross: volume must be positive, got %v", cfg.Volume)
	}
	if cfg.RiskPct < 0 || cfg.RiskPct >= 1 {
		return nil, fmt.Errorf("ma-cross: risk percent must be in [0, 1), got %v", cfg.RiskPct)
	}
	if cfg.ADXPeriod <= 0 {
		cfg.ADXPeriod = 14
	}
	if cfg.ATRPeriod <= 0 {
		cfg.ATRPeriod = 14
	}

	fast, err := indicators.NewMovingAverage(cfg.Kind, cfg.Fast)
	if err != nil {
		return nil, err
	}
	slow, err := indicators.NewMovingAverage(cfg.Kind, cfg.Slow)
	if err != nil {
		return nil, err
	}
	return &MACross{
		MACrossConfig: cfg,
		fast:          fast,
		slow:          slow,
		adx:           indicators.NewADX(cfg.ADXPeriod),
		atr:           indicators.NewATR(cfg.ATRPeriod),
		lastIndex:     -1,
	}, nil
}

func (s *MACross) Name() string {
	return fmt.Sprintf("ma-cross(%s %d/%d)", s.Kind, s.Fast, s.Slow)
}

func (s *MACross) OnStep(ctx context.Context, gw broker.TradeGateway, cursor *market.Cursor) error {
	// Feed every candle up to the cursor exactly once.
	prefix := cursor.Prefix()
	for i := s.lastIndex + 1; i < len(prefix); i++ {
		c := prefix[i]
		s.fast.Update(c)
		s.slow.Update(c)
		s.adx.Update(c)
		s.atr.Update(c)
	}
	s.lastIndex = len(prefix) - 1

	if !s.fast.Ready() || !s.slow.Ready() {
		return nil
	}

	diff := s.fast.Value() - s.slow.Value()
	if !s.haveLastDiff {
		s.lastDiff = diff
		s.haveLastDiff = true
		return nil
	}

	bullCross := diff > 0 && s.lastDiff <= 0
	bearCross := diff < 0 && s.lastDiff >= 0
	s.lastDiff = diff

	if s.MinADX > 0 && (!s.adx.Ready() || s.adx.Value() < s.MinADX) {
		return nil
	}

	switch {
	case bullCross:
		return s.onSignal(ctx, gw, cursor.Current(), broker.OrderTypeBuy)
	case bearCross:
		return s.onSignal(ctx, gw, cursor.Current(), broker.OrderTypeSell)
	}
	return nil
}

// onSignal exits any opposite exposure and enters in the signal's
// direction. Exits always go out; the new leg may be resized or dropped
// by the risk settings.
func (s *MACross) onSignal(ctx context.Context, gw broker.TradeGateway, c market.Candle, typ broker.OrderType) error {
	acct, err := gw.Account(ctx)
	if err != nil {
		return fmt.Errorf("ma-cross: %w", err)
	}

	want := broker.PositionTypeBuy
	if typ == broker.OrderTypeSell {
		want = broker.PositionTypeSell
	}

	var closing float64
	closed := false
	for _, pos := range acct.PositionsBySymbol(s.Symbol) {
		if pos.Type == want {
			return nil
		}
		if acct.MarginMode == broker.MarginModeNetting {
			closing += pos.Volume
			continue
		}
		if _, err := gw.ClosePosition(ctx, pos.Ticket, "ma-cross exit"); err != nil {
			return fmt.Errorf("ma-cross: %w", err)
		}
		closed = true
	}
	if closed {
		if acct, err = gw.Account(ctx); err != nil {
			return fmt.Errorf("ma-cross: %w", err)
		}
	}

	var stop float64
	if s.StopATR > 0 && s.atr.Ready() {
		dist := s.StopATR * s.atr.Value()
		if typ == broker.OrderTypeBuy {
			stop = c.Close - dist
		} else {
			stop = c.Close + dist
		}
	}

	entry, err := s.entryVolume(acct, c, stop)
	if err != nil {
		return err
	}
	volume := market.RoundVolume(entry + closing)
	if volume <= 0 {
		return nil
	}

	req := broker.MarketOrderRequest{Symbol: s.Symbol, Type: typ, Volume: volume, Comment: s.Name()}
	if entry > 0 {
		req.StopLoss = stop
	}
	if _, err := gw.OpenPosition(ctx, req); err != nil {
		return fmt.Errorf("ma-cross: %w", err)
	}
	return nil
}

// entryVolume sizes the new leg. Zero means the risk settings vetoed it.
func (s *MACross) entryVolume(acct *broker.Account, c market.Candle, stop float64) (float64, error) {
	volume := s.Volume
	contract, known := market.DefaultContracts[s.Symbol]
	q2a, convertible := risk.QuoteToAccount(contract, acct.Currency, c.Close)

	if s.RiskPct > 0 && stop != 0 && known && convertible {
		res, err := risk.Calculate(risk.Inputs{
			Equity:         acct.Equity,
			RiskPct:        s.RiskPct,
			Entry:          c.Close,
			Stop:           stop,
			Contract:       contract,
			QuoteToAccount: q2a,
		})
		if errors.Is(err, risk.ErrBelowMinVolume) {
			s.vetoed++
			return 0, nil
		}
		if err != nil {
			return 0, fmt.Errorf("ma-cross: %w", err)
		}
		volume = res.Volume
	}

	if s.Policy != nil {
		d := risk.Evaluate(*s.Policy, risk.Intent{
			Now:            c.Time,
			Symbol:         s.Symbol,
			Volume:         volume,
			Entry:          c.Close,
			Stop:           stop,
			Contract:       contract,
			QuoteToAccount: q2a,
		}, acct)
		if !d.Allowed {
			s.vetoed++
			return 0, nil
		}
	}
	return volume, nil
}

// Vetoed counts entries dropped by risk sizing or the policy.
func (s *MACross) Vetoed() int { return s.vetoed }
