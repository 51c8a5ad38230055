package strategies

import (
	"context"
	"fmt"

	"github.com/rustyeddy/dealbook/broker"
	"github.com/rustyeddy/dealbook/market"
)

// OpenOnce opens a single market position on the first step and then
// holds it.
type OpenOnce struct {
	Symbol string
	Type   broker.OrderType
	Volume float64

	opened bool
}

func (s *OpenOnce) Name() string { return "open-once" }

func (s *OpenOnce) OnStep(ctx context.Context, gw broker.TradeGateway, cursor *market.Cursor) error {
	if s.opened {
		return nil
	}
	if s.Volume <= 0 {
		return fmt.Errorf("open-once: volume must be positive, got %v", s.Volume)
	}
	if !s.Type.IsMarket() {
		return fmt.Errorf("open-once: %s is not a market order", s.Type)
	}

	req := broker.MarketOrderRequest{Symbol: s.Symbol, Type: s.Type, Volume: s.Volume, Comment: "open-once"}
	if _, err := gw.OpenPosition(ctx, req); err != nil {
		return fmt.Errorf("open-once: %w", err)
	}
	s.opened = true
	return nil
}
