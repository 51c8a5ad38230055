package broker

import (
	"fmt"
	"time"
)

// AccountParams configures a new simulated account.
type AccountParams struct {
	Login    string
	Currency string
	Balance  float64
	Leverage float64
	Mode     MarginMode
	FundedAt time.Time
}

// Account is the ledger a simulation mutates. Balance is never set
// directly: it is the sum of deal profits, including the funding deal.
type Account struct {
	Login      string
	Currency   string
	Leverage   float64
	MarginMode MarginMode

	Equity      float64
	Profit      float64
	Margin      float64
	MarginFree  float64
	MarginLevel float64

	Positions []*Position
	Orders    []*Order
	Deals     []Deal

	balance        float64
	initialBalance float64
}

func NewAccount(p AccountParams) (*Account, error) {
	if p.Currency == "" {
		return nil, fmt.Errorf("new account: currency is required")
	}
	if p.Balance <= 0 {
		return nil, fmt.Errorf("new account: balance must be positive")
	}
	if p.Leverage <= 0 {
		p.Leverage = 100
	}

	a := &Account{
		Login:          p.Login,
		Currency:       p.Currency,
		Leverage:       p.Leverage,
		MarginMode:     p.Mode,
		initialBalance: p.Balance,
	}
	a.AppendDeal(Deal{
		Ticket: p.FundedAt.UnixMilli(),
		Type:   DealTypeBalance,
		Entry:  DealEntryIn,
		Profit: p.Balance,
		Time:   p.FundedAt,
	})
	a.Equity = a.balance
	a.MarginFree = a.balance
	return a, nil
}

// Balance is the running sum of realized deal profits.
func (a *Account) Balance() float64 { return a.balance }

// InitialBalance is the amount of the funding deal.
func (a *Account) InitialBalance() float64 { return a.initialBalance }

// AppendDeal records d in the history and settles its profit.
func (a *Account) AppendDeal(d Deal) {
	a.Deals = append(a.Deals, d)
	a.balance += d.Profit
}

// AuditBalance recomputes the balance from the deal history. It returns
// the recomputed value and whether it matches the running balance.
func (a *Account) AuditBalance() (float64, bool) {
	sum := 0.0
	for _, d := range a.Deals {
		sum += d.Profit
	}
	diff := sum - a.balance
	return sum, diff < 1e-6 && diff > -1e-6
}

// PositionsBySymbol returns the open positions on symbol, oldest first.
func (a *Account) PositionsBySymbol(symbol string) []*Position {
	var out []*Position
	for _, p := range a.Positions {
		if p.Symbol == symbol {
			out = append(out, p)
		}
	}
	return out
}

// SelectPosition returns the single position matching ticket.
func (a *Account) SelectPosition(ticket int64) (*Position, error) {
	var found []*Position
	for _, p := range a.Positions {
		if p.Ticket == ticket {
			found = append(found, p)
		}
	}
	if len(found) != 1 {
		return nil, fmt.Errorf("%w: ticket %d matched %d positions", ErrCouldNotSelectPosition, ticket, len(found))
	}
	return found[0], nil
}

// SelectOrder returns the single pending order matching ticket.
func (a *Account) SelectOrder(ticket int64) (*Order, error) {
	var found []*Order
	for _, o := range a.Orders {
		if o.Ticket == ticket {
			found = append(found, o)
		}
	}
	if len(found) != 1 {
		return nil, fmt.Errorf("%w: ticket %d matched %d orders", ErrOrderNotFound, ticket, len(found))
	}
	return found[0], nil
}

func (a *Account) RemovePosition(ticket int64) {
	out := a.Positions[:0]
	for _, p := range a.Positions {
		if p.Ticket != ticket {
			out = append(out, p)
		}
	}
	a.Positions = out
}

func (a *Account) RemoveOrder(ticket int64) {
	out := a.Orders[:0]
	for _, o := range a.Orders {
		if o.Ticket != ticket {
			out = append(out, o)
		}
	}
	a.Orders = out
}

// Summarize recomputes equity and margin figures from the stored
// position profits. contractSize resolves each symbol's contract size.
// A zero margin reports a margin level of 0.
func (a *Account) Summarize(contractSize func(symbol string) float64) {
	profit := 0.0
	margin := 0.0
	for _, p := range a.Positions {
		profit += p.Profit
		margin += p.PriceOpen * contractSize(p.Symbol) * p.Volume / a.Leverage
	}
	a.Profit = profit
	a.Equity = a.balance + profit
	a.Margin = margin
	a.MarginFree = a.Equity - margin
	a.MarginLevel = 0
	if margin > 0 {
		a.MarginLevel = a.Equity / margin * 100
	}
}
