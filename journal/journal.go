// journal/journal.go
package journal

import (
	"time"

	"github.com/rustyeddy/dealbook/broker"
)

// DealRecord is the persisted form of a booked deal.
type DealRecord struct {
	RunID      string
	Ticket     int64
	Order      int64
	PositionID int64
	Symbol     string
	Type       string
	Entry      string
	Volume     float64
	Price      float64
	Commission float64
	Swap       float64
	Fee        float64
	Profit     float64
	Time       time.Time
	Magic      int64
	Reason     string
	Comment    string
}

func NewDealRecord(runID string, d broker.Deal) DealRecord {
	return DealRecord{
		RunID:      runID,
		Ticket:     d.Ticket,
		Order:      d.Order,
		PositionID: d.PositionID,
		Symbol:     d.Symbol,
		Type:       d.Type.String(),
		Entry:      d.Entry.String(),
		Volume:     d.Volume,
		Price:      d.Price,
		Commission: d.Commission,
		Swap:       d.Swap,
		Fee:        d.Fee,
		Profit:     d.Profit,
		Time:       d.Time,
		Magic:      d.Magic,
		Reason:     d.Reason.String(),
		Comment:    d.Comment,
	}
}

// EquitySnapshot is the account state after a step.
type EquitySnapshot struct {
	RunID       string
	Time        time.Time
	Balance     float64
	Equity      float64
	Margin      float64
	MarginFree  float64
	MarginLevel float64
}

// RunRecord summarizes one backtest run.
type RunRecord struct {
	RunID          string
	Symbol         string
	Strategy       string
	MarginMode     string
	Start          time.Time
	End            time.Time
	InitialBalance float64
	FinalBalance   float64
	FinalEquity    float64
	Deals          int
	Wins           int
	Losses         int
	MaxDDPct       float64
	Truncated      bool
}

type Journal interface {
	RecordDeal(DealRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

// RunRecorder is implemented by journals that keep run summaries.
type RunRecorder interface {
	RecordRun(RunRecord) error
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordDeal(DealRecord) error       { return nil }
func (Nop) RecordEquity(EquitySnapshot) error { return nil }
func (Nop) Close() error                      { return nil }
