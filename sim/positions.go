package sim

import (
	"fmt"

	"github.com/rustyeddy/dealbook/broker"
	"github.com/rustyeddy/dealbook/market"
)

// fill is a validated market intent priced at the current tick.
type fill struct {
	req   broker.MarketOrderRequest
	tick  market.Tick
	price float64
}

// OpenPosition executes a market order at the current step's closing
// tick: buys at the ask, sells at the bid. It returns the booked deal.
func (e *Engine) OpenPosition(req broker.MarketOrderRequest) (broker.Deal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	f, err := e.prepareFillLocked(req)
	if err != nil {
		return broker.Deal{}, err
	}

	var d broker.Deal
	if e.acct.MarginMode == broker.MarginModeHedging {
		d, err = e.openNewLocked(f)
	} else {
		d, err = e.openNettingLocked(f)
	}
	// A journal failure still leaves the deal booked.
	e.summarizeLocked()
	return d, err
}

func (e *Engine) prepareFillLocked(req broker.MarketOrderRequest) (fill, error) {
	if err := broker.ValidateOrderType(broker.TradeActionDeal, req.Type); err != nil {
		return fill{}, fmt.Errorf("open position: %w", err)
	}
	contract, err := e.provider.SymbolContract(req.Symbol)
	if err != nil {
		return fill{}, fmt.Errorf("open position: %w", err)
	}
	req.Volume = market.RoundVolume(req.Volume)
	if err := contract.ValidateVolume(req.Volume); err != nil {
		return fill{}, fmt.Errorf("open position: %w: %v", broker.ErrInvalidVolume, err)
	}

	tick, err := e.lastTick(req.Symbol)
	if err != nil {
		return fill{}, fmt.Errorf("open position: %w", err)
	}
	price := tick.Bid
	if req.Type == broker.OrderTypeBuy {
		price = tick.Ask
	}
	if err := broker.ValidatePrices(price, req.Type, req.StopLoss, req.TakeProfit, 0); err != nil {
		return fill{}, fmt.Errorf("open position: %w", err)
	}
	return fill{req: req, tick: tick, price: price}, nil
}

// openNewLocked creates a fresh position and its IN deal. The position
// ticket doubles as its identifier.
func (e *Engine) openNewLocked(f fill) (broker.Deal, error) {
	ticket := e.seq.Next(f.tick.Time)

	d, err := e.deals.Create(DealParams{
		Symbol:     f.req.Symbol,
		Type:       f.req.Type,
		Volume:     f.req.Volume,
		Price:      f.price,
		PositionID: ticket,
		Order:      ticket,
		Time:       f.tick.Time,
		Comment:    f.req.Comment,
		CloseTick:  f.tick,
	})
	if err != nil {
		return broker.Deal{}, fmt.Errorf("open position: %w", err)
	}

	e.acct.Positions = append(e.acct.Positions, e.newPosition(ticket, f, f.req.Volume))
	return d, e.bookLocked(d)
}

func (e *Engine) newPosition(ticket int64, f fill, volume float64) *broker.Position {
	return &broker.Position{
		Ticket:       ticket,
		Identifier:   ticket,
		Symbol:       f.req.Symbol,
		Type:         positionTypeOf(f.req.Type),
		Volume:       volume,
		PriceOpen:    f.price,
		PriceCurrent: f.price,
		StopLoss:     f.req.StopLoss,
		TakeProfit:   f.req.TakeProfit,
		Time:         f.tick.Time,
		TimeUpdate:   f.tick.Time,
		Magic:        e.magic,
		Comment:      f.req.Comment,
	}
}

// openNettingLocked applies an order to the single position slot of its
// symbol: open, average in, reduce, close or reverse.
func (e *Engine) openNettingLocked(f fill) (broker.Deal, error) {
	existing := e.acct.PositionsBySymbol(f.req.Symbol)
	if len(existing) == 0 {
		return e.openNewLocked(f)
	}
	pos := existing[0]
	incoming := positionTypeOf(f.req.Type)
	volume := f.req.Volume

	if pos.Type != incoming && volume == pos.Volume {
		return e.closeLocked(pos, f.req.Type, f.price, f.tick, f.req.Comment, broker.DealReasonExpert)
	}

	d, err := e.deals.Create(DealParams{
		Symbol:    f.req.Symbol,
		Type:      f.req.Type,
		Volume:    volume,
		Price:     f.price,
		Position:  pos,
		Time:      f.tick.Time,
		Comment:   f.req.Comment,
		CloseTick: f.tick,
	})
	if err != nil {
		return broker.Deal{}, fmt.Errorf("open position: %w", err)
	}

	switch {
	case pos.Type == incoming:
		total := market.RoundVolume(pos.Volume + volume)
		pos.PriceOpen = (pos.PriceOpen*pos.Volume + f.price*volume) / total
		pos.Volume = total
		pos.PriceCurrent = f.price
		pos.TimeUpdate = f.tick.Time
		if f.req.StopLoss != 0 {
			pos.StopLoss = f.req.StopLoss
		}
		if f.req.TakeProfit != 0 {
			pos.TakeProfit = f.req.TakeProfit
		}

	case volume < pos.Volume:
		pos.Volume = market.RoundVolume(pos.Volume - volume)
		pos.PriceCurrent = f.price
		pos.TimeUpdate = f.tick.Time

	default:
		remaining := market.RoundVolume(volume - pos.Volume)
		e.acct.RemovePosition(pos.Ticket)
		ticket := e.seq.Next(f.tick.Time)
		e.acct.Positions = append(e.acct.Positions, e.newPosition(ticket, f, remaining))
	}

	return d, e.bookLocked(d)
}

// closeLocked books an opposite deal for the whole position and removes it.
func (e *Engine) closeLocked(pos *broker.Position, typ broker.OrderType, price float64, tick market.Tick, comment string, reason broker.DealReason) (broker.Deal, error) {
	d, err := e.deals.Create(DealParams{
		Symbol:    pos.Symbol,
		Type:      typ,
		Volume:    pos.Volume,
		Price:     price,
		Position:  pos,
		Time:      tick.Time,
		Reason:    reason,
		Comment:   comment,
		CloseTick: tick,
	})
	if err != nil {
		return broker.Deal{}, fmt.Errorf("close position %d: %w", pos.Ticket, err)
	}
	e.acct.RemovePosition(pos.Ticket)
	return d, e.bookLocked(d)
}

// closeAtMarketLocked closes pos at the current tick: longs on the bid,
// shorts on the ask.
func (e *Engine) closeAtMarketLocked(pos *broker.Position, comment string, reason broker.DealReason) (broker.Deal, error) {
	tick, err := e.lastTick(pos.Symbol)
	if err != nil {
		return broker.Deal{}, fmt.Errorf("close position %d: %w", pos.Ticket, err)
	}
	price := tick.Ask
	if pos.Type == broker.PositionTypeBuy {
		price = tick.Bid
	}
	return e.closeLocked(pos, pos.Type.Opposite(), price, tick, comment, reason)
}

// ClosePosition closes the position with the given ticket in full.
func (e *Engine) ClosePosition(ticket int64, comment string) (broker.Deal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos, err := e.acct.SelectPosition(ticket)
	if err != nil {
		return broker.Deal{}, fmt.Errorf("close position: %w", err)
	}
	d, err := e.closeAtMarketLocked(pos, comment, broker.DealReasonExpert)
	e.summarizeLocked()
	return d, err
}

// CloseAllPositions closes every open position, oldest first.
func (e *Engine) CloseAllPositions(comment string) ([]broker.Deal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.closeAllLocked(comment, broker.DealReasonExpert)
}

func (e *Engine) closeAllLocked(comment string, reason broker.DealReason) ([]broker.Deal, error) {
	open := make([]*broker.Position, len(e.acct.Positions))
	copy(open, e.acct.Positions)

	var out []broker.Deal
	for _, pos := range open {
		d, err := e.closeAtMarketLocked(pos, comment, reason)
		if err != nil {
			e.summarizeLocked()
			return out, fmt.Errorf("close all: %w", err)
		}
		out = append(out, d)
	}
	e.summarizeLocked()
	return out, nil
}

// ModifyPosition replaces the stop-loss and take-profit of a position.
// A zero ticket selects the only open position.
func (e *Engine) ModifyPosition(req broker.ModifyPositionRequest) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ticket := req.Ticket
	if ticket == 0 && len(e.acct.Positions) == 1 {
		ticket = e.acct.Positions[0].Ticket
	}
	pos, err := e.acct.SelectPosition(ticket)
	if err != nil {
		return fmt.Errorf("modify position: %w", err)
	}

	tick, err := e.lastTick(pos.Symbol)
	if err != nil {
		return fmt.Errorf("modify position %d: %w", pos.Ticket, err)
	}
	// Stops trigger on the closing side: bid for longs, ask for shorts.
	typ, price := broker.OrderTypeBuy, tick.Bid
	if pos.Type == broker.PositionTypeSell {
		typ, price = broker.OrderTypeSell, tick.Ask
	}
	if err := broker.ValidatePrices(price, typ, req.StopLoss, req.TakeProfit, 0); err != nil {
		return fmt.Errorf("modify position %d: %w", pos.Ticket, err)
	}

	pos.StopLoss = req.StopLoss
	pos.TakeProfit = req.TakeProfit
	if req.Comment != "" {
		pos.Comment = req.Comment
	}
	pos.TimeUpdate = e.cursor.Time()
	return nil
}
