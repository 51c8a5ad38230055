package sim

import (
	"context"

	"github.com/rustyeddy/dealbook/broker"
)

// BacktestGateway exposes an Engine as a broker.TradeGateway.
type BacktestGateway struct {
	Engine *Engine
}

var _ broker.TradeGateway = (*BacktestGateway)(nil)

func NewBacktestGateway(e *Engine) *BacktestGateway {
	return &BacktestGateway{Engine: e}
}

func (g *BacktestGateway) Account(ctx context.Context) (*broker.Account, error) {
	return g.Engine.Account(), nil
}

// OpenPosition reports true whenever a deal was booked, even if the
// journal then failed.
func (g *BacktestGateway) OpenPosition(ctx context.Context, req broker.MarketOrderRequest) (bool, error) {
	d, err := g.Engine.OpenPosition(req)
	return d.Ticket != 0, err
}

func (g *BacktestGateway) OpenPendingOrder(ctx context.Context, req broker.PendingOrderRequest) (bool, error) {
	if _, err := g.Engine.OpenPendingOrder(req); err != nil {
		return false, err
	}
	return true, nil
}

func (g *BacktestGateway) ModifyPosition(ctx context.Context, req broker.ModifyPositionRequest) (bool, error) {
	if err := g.Engine.ModifyPosition(req); err != nil {
		return false, err
	}
	return true, nil
}

func (g *BacktestGateway) ModifyPendingOrder(ctx context.Context, req broker.ModifyOrderRequest) (bool, error) {
	if err := g.Engine.ModifyPendingOrder(req); err != nil {
		return false, err
	}
	return true, nil
}

func (g *BacktestGateway) ClosePosition(ctx context.Context, ticket int64, comment string) (bool, error) {
	d, err := g.Engine.ClosePosition(ticket, comment)
	return d.Ticket != 0, err
}

func (g *BacktestGateway) CloseAllPositions(ctx context.Context, comment string) (bool, error) {
	if _, err := g.Engine.CloseAllPositions(comment); err != nil {
		return false, err
	}
	return true, nil
}

func (g *BacktestGateway) CancelPendingOrder(ctx context.Context, ticket int64) (bool, error) {
	if err := g.Engine.CancelPendingOrder(ticket); err != nil {
		return false, err
	}
	return true, nil
}
