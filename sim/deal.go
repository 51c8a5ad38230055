package sim

import (
	"fmt"
	"time"

	"github.com/rustyeddy/dealbook/broker"
	"github.com/rustyeddy/dealbook/market"
)

// DealParams is one execution to be booked.
type DealParams struct {
	Symbol string
	Type   broker.OrderType
	Volume float64
	Price  float64
	// Position is the exposure the deal acts on. Nil opens a new one,
	// identified by PositionID.
	Position   *broker.Position
	PositionID int64
	Time       time.Time
	Order      int64
	Commission float64
	Fee        float64
	Reason     broker.DealReason
	Comment    string
	CloseTick  market.Tick
}

// DealFactory builds deal records. It owns ticket minting and profit
// realization but never touches the account.
type DealFactory struct {
	Seq             *Sequence
	Converter       market.CurrencyConverter
	Contracts       func(symbol string) (market.SymbolContract, error)
	AccountCurrency string
	Magic           int64
}

func dealType(t broker.OrderType) (broker.DealType, error) {
	switch {
	case t.IsBuy():
		return broker.DealTypeBuy, nil
	case t.IsSell():
		return broker.DealTypeSell, nil
	}
	return 0, fmt.Errorf("%w: %s cannot produce a deal", broker.ErrInvalidOrderType, t)
}

// dealEntry classifies an order of volume against the position it acts on.
func dealEntry(t broker.OrderType, volume float64, pos *broker.Position) broker.DealEntry {
	if pos == nil {
		return broker.DealEntryIn
	}
	opposite := (pos.Type == broker.PositionTypeBuy && t.IsSell()) ||
		(pos.Type == broker.PositionTypeSell && t.IsBuy())
	if !opposite {
		return broker.DealEntryIn
	}
	if volume <= pos.Volume {
		return broker.DealEntryOut
	}
	return broker.DealEntryInOut
}

// Create books one deal. Profit is realized only for OUT and INOUT
// entries: over the order volume for a close, over the whole position
// for a reversal.
func (f *DealFactory) Create(p DealParams) (broker.Deal, error) {
	typ, err := dealType(p.Type)
	if err != nil {
		return broker.Deal{}, err
	}
	entry := dealEntry(p.Type, p.Volume, p.Position)

	profit := 0.0
	if entry != broker.DealEntryIn {
		contract, err := f.Contracts(p.Symbol)
		if err != nil {
			return broker.Deal{}, fmt.Errorf("create deal: %w", err)
		}
		closeVolume := p.Volume
		if entry == broker.DealEntryInOut {
			closeVolume = p.Position.Volume
		}
		profit, err = ComputeProfit(ProfitParams{
			Contract:        contract,
			AccountCurrency: f.AccountCurrency,
			Type:            p.Position.Type,
			Volume:          closeVolume,
			PriceOpen:       p.Position.PriceOpen,
			PriceClose:      p.Price,
			CloseTick:       p.CloseTick,
		}, f.Converter)
		if err != nil {
			return broker.Deal{}, fmt.Errorf("create deal: %w", err)
		}
	}

	positionID := p.PositionID
	if p.Position != nil {
		positionID = p.Position.Identifier
	}

	ticket := f.Seq.Next(p.Time)
	order := p.Order
	if order == 0 {
		order = ticket
	}

	return broker.Deal{
		Ticket:     ticket,
		Order:      order,
		PositionID: positionID,
		Symbol:     p.Symbol,
		Type:       typ,
		Entry:      entry,
		Volume:     p.Volume,
		Price:      p.Price,
		Commission: p.Commission,
		Fee:        p.Fee,
		Profit:     profit,
		Time:       p.Time,
		Magic:      f.Magic,
		Reason:     p.Reason,
		Comment:    p.Comment,
	}, nil
}
