package strategies

import (
	"context"

	"github.com/rustyeddy/dealbook/broker"
	"github.com/rustyeddy/dealbook/market"
)

// Noop does nothing.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) OnStep(ctx context.Context, gw broker.TradeGateway, cursor *market.Cursor) error {
	return nil
}
