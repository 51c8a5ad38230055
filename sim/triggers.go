package sim

import "github.com/rustyeddy/dealbook/broker"

func hitStopLoss(p *broker.Position, price float64) bool {
	if p.StopLoss == 0 {
		return false
	}
	if p.Type == broker.PositionTypeBuy {
		return price <= p.StopLoss
	}
	return price >= p.StopLoss
}

func hitTakeProfit(p *broker.Position, price float64) bool {
	if p.TakeProfit == 0 {
		return false
	}
	if p.Type == broker.PositionTypeBuy {
		return price >= p.TakeProfit
	}
	return price <= p.TakeProfit
}

// EnforceStops closes positions whose stop-loss or take-profit was
// touched by the current closing tick. Fills happen at the tick, not at
// the stop level.
func (e *Engine) EnforceStops() ([]broker.Deal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	open := make([]*broker.Position, len(e.acct.Positions))
	copy(open, e.acct.Positions)

	var out []broker.Deal
	for _, pos := range open {
		tick, err := e.lastTick(pos.Symbol)
		if err != nil {
			return out, err
		}
		price := tick.Ask
		if pos.Type == broker.PositionTypeBuy {
			price = tick.Bid
		}

		reason := broker.DealReasonExpert
		switch {
		case hitStopLoss(pos, price):
			reason = broker.DealReasonSL
		case hitTakeProfit(pos, price):
			reason = broker.DealReasonTP
		default:
			continue
		}

		d, err := e.closeLocked(pos, pos.Type.Opposite(), price, tick, reason.String(), reason)
		if err != nil {
			e.summarizeLocked()
			return out, err
		}
		out = append(out, d)
	}
	if len(out) > 0 {
		e.summarizeLocked()
	}
	return out, nil
}
