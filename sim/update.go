package sim

import (
	"fmt"

	"github.com/rustyeddy/dealbook/broker"
	"github.com/rustyeddy/dealbook/journal"
)

// Update marks every open position to the current step's closing tick
// (longs at the bid, shorts at the ask), refreshes the account figures
// and journals an equity snapshot.
func (e *Engine) Update() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, pos := range e.acct.Positions {
		if err := e.markLocked(pos); err != nil {
			return fmt.Errorf("update: %w", err)
		}
	}
	e.summarizeLocked()

	a := e.acct
	if err := e.journal.RecordEquity(journal.EquitySnapshot{
		RunID:       e.runID,
		Time:        e.cursor.Time(),
		Balance:     a.Balance(),
		Equity:      a.Equity,
		Margin:      a.Margin,
		MarginFree:  a.MarginFree,
		MarginLevel: a.MarginLevel,
	}); err != nil {
		return fmt.Errorf("update: journal equity: %w", err)
	}
	return nil
}

func (e *Engine) markLocked(pos *broker.Position) error {
	tick, err := e.lastTick(pos.Symbol)
	if err != nil {
		return err
	}
	contract, err := e.provider.SymbolContract(pos.Symbol)
	if err != nil {
		return err
	}
	price := tick.Ask
	if pos.Type == broker.PositionTypeBuy {
		price = tick.Bid
	}
	profit, err := ComputeProfit(ProfitParams{
		Contract:        contract,
		AccountCurrency: e.acct.Currency,
		Type:            pos.Type,
		Volume:          pos.Volume,
		PriceOpen:       pos.PriceOpen,
		PriceClose:      price,
		CloseTick:       tick,
	}, e.deals.Converter)
	if err != nil {
		return fmt.Errorf("mark position %d: %w", pos.Ticket, err)
	}
	pos.PriceCurrent = price
	pos.Profit = profit
	pos.TimeUpdate = tick.Time
	return nil
}

// ExpireOrders drops placed orders whose expiration is at or before the
// current step.
func (e *Engine) ExpireOrders() []*broker.Order {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.cursor.Time()
	var expired []*broker.Order
	for _, o := range e.acct.Orders {
		if o.TypeTime == broker.TimeSpecified && !o.Expiration.After(now) {
			o.State = broker.OrderStateExpired
			expired = append(expired, o)
		}
	}
	for _, o := range expired {
		e.acct.RemoveOrder(o.Ticket)
	}
	return expired
}

// StopOut closes everything with a stop-out reason.
func (e *Engine) StopOut(comment string) ([]broker.Deal, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.closeAllLocked(comment, broker.DealReasonStopOut)
}
