package sim

import (
	"fmt"

	"github.com/rustyeddy/dealbook/broker"
	"github.com/rustyeddy/dealbook/market"
)

// OpenPendingOrder places a limit, stop or stop-limit order. Orders are
// only stored; triggering them is left to the strategy driver.
func (e *Engine) OpenPendingOrder(req broker.PendingOrderRequest) (*broker.Order, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := broker.ValidateOrderType(broker.TradeActionPending, req.Type); err != nil {
		return nil, fmt.Errorf("open pending order: %w", err)
	}
	contract, err := e.provider.SymbolContract(req.Symbol)
	if err != nil {
		return nil, fmt.Errorf("open pending order: %w", err)
	}
	volume := market.RoundVolume(req.Volume)
	if err := contract.ValidateVolume(volume); err != nil {
		return nil, fmt.Errorf("open pending order: %w: %v", broker.ErrInvalidVolume, err)
	}
	if req.Price <= 0 {
		return nil, fmt.Errorf("open pending order: price must be positive")
	}
	if err := broker.ValidatePrices(req.Price, req.Type, req.StopLoss, req.TakeProfit, req.StopLimit); err != nil {
		return nil, fmt.Errorf("open pending order: %w", err)
	}
	now := e.cursor.Time()
	if err := broker.ValidateExpiration(req.Expiration, now); err != nil {
		return nil, fmt.Errorf("open pending order: %w", err)
	}

	o := &broker.Order{
		Ticket:         e.seq.Next(now),
		Symbol:         req.Symbol,
		Type:           req.Type,
		VolumeInitial:  volume,
		VolumeCurrent:  volume,
		PriceOpen:      req.Price,
		PriceStopLimit: req.StopLimit,
		PriceCurrent:   req.Price,
		StopLoss:       req.StopLoss,
		TakeProfit:     req.TakeProfit,
		TypeTime:       broker.TimeTypeFor(req.Expiration),
		Expiration:     req.Expiration,
		State:          broker.OrderStatePlaced,
		TimeSetup:      now,
		Magic:          e.magic,
		Comment:        req.Comment,
	}
	e.acct.Orders = append(e.acct.Orders, o)
	e.log.Debug("order placed", "ticket", o.Ticket, "symbol", o.Symbol, "type", o.Type.String(), "price", o.PriceOpen)
	return o, nil
}

// ModifyPendingOrder replaces price, stops, expiry and comment of a
// placed order.
func (e *Engine) ModifyPendingOrder(req broker.ModifyOrderRequest) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.acct.SelectOrder(req.Ticket)
	if err != nil {
		return fmt.Errorf("modify pending order: %w", err)
	}
	if req.Price <= 0 {
		return fmt.Errorf("modify pending order %d: price must be positive", o.Ticket)
	}
	if err := broker.ValidatePrices(req.Price, o.Type, req.StopLoss, req.TakeProfit, o.PriceStopLimit); err != nil {
		return fmt.Errorf("modify pending order %d: %w", o.Ticket, err)
	}
	if err := broker.ValidateExpiration(req.Expiration, e.cursor.Time()); err != nil {
		return fmt.Errorf("modify pending order %d: %w", o.Ticket, err)
	}

	o.PriceOpen = req.Price
	o.PriceCurrent = req.Price
	o.StopLoss = req.StopLoss
	o.TakeProfit = req.TakeProfit
	o.Expiration = req.Expiration
	o.TypeTime = broker.TimeTypeFor(req.Expiration)
	o.Comment = req.Comment
	o.Magic = e.magic
	return nil
}

// CancelPendingOrder removes a placed order.
func (e *Engine) CancelPendingOrder(ticket int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	o, err := e.acct.SelectOrder(ticket)
	if err != nil {
		return fmt.Errorf("cancel pending order: %w", err)
	}
	o.State = broker.OrderStateCanceled
	e.acct.RemoveOrder(ticket)
	return nil
}
