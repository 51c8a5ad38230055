package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/dealbook/broker"
	"github.com/rustyeddy/dealbook/journal"
	"github.com/rustyeddy/dealbook/market"
)

type testJournal struct {
	deals  []journal.DealRecord
	equity []journal.EquitySnapshot
	closed bool
	fail   error
}

func (j *testJournal) RecordDeal(rec journal.DealRecord) error {
	if j.fail != nil {
		return j.fail
	}
	j.deals = append(j.deals, rec)
	return nil
}

func (j *testJournal) RecordEquity(rec journal.EquitySnapshot) error {
	j.equity = append(j.equity, rec)
	return nil
}

func (j *testJournal) Close() error {
	j.closed = true
	return nil
}

type quote struct{ bid, ask float64 }

var start = time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)

const step = 15 * time.Minute

// newEngine builds an EURUSD M15 tape with one closing tick per candle.
func newEngine(t *testing.T, mode broker.MarginMode, quotes ...quote) (*Engine, *testJournal) {
	t.Helper()

	series := market.NewSeries()
	series.AddContract(market.DefaultContracts["EURUSD"])

	candles := make([]market.Candle, len(quotes))
	ticks := make([]market.Tick, len(quotes))
	for n, q := range quotes {
		at := start.Add(time.Duration(n) * step)
		candles[n] = market.Candle{Time: at, Open: q.bid, High: q.ask, Low: q.bid, Close: q.bid}
		ticks[n] = market.Tick{Time: at.Add(14 * time.Minute), Bid: q.bid, Ask: q.ask}
	}
	series.AddTicks("EURUSD", ticks)

	acct, err := broker.NewAccount(broker.AccountParams{
		Login:    "T1",
		Currency: "USD",
		Balance:  100_000,
		Leverage: 100,
		Mode:     mode,
		FundedAt: start,
	})
	require.NoError(t, err)

	j := &testJournal{}
	e, err := NewEngine(LedgerContext{
		Account: acct,
		Magic:   42,
		Cursor:  market.NewCursor("EURUSD", candles, 0),
	}, series, WithJournal(j), WithRunID("RUN"))
	require.NoError(t, err)
	return e, j
}

func advance(t *testing.T, e *Engine) {
	t.Helper()
	require.True(t, e.Cursor().Advance())
	require.NoError(t, e.Update())
}

func buy(volume float64) broker.MarketOrderRequest {
	return broker.Buy("EURUSD", volume, 0, 0, "")
}

func sell(volume float64) broker.MarketOrderRequest {
	return broker.Sell("EURUSD", volume, 0, 0, "")
}

func balanceMatchesDeals(t *testing.T, a *broker.Account) {
	t.Helper()
	sum, ok := a.AuditBalance()
	assert.True(t, ok)
	assert.InDelta(t, sum, a.Balance(), 1e-9)
}

var fixture = []quote{
	{bid: 1.12973, ask: 1.12986},
	{bid: 1.12988, ask: 1.13002},
	{bid: 1.12990, ask: 1.13000},
}

func TestNewEngine_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(LedgerContext{}, market.NewSeries())
	assert.Error(t, err)

	acct, err := broker.NewAccount(broker.AccountParams{Currency: "USD", Balance: 1})
	require.NoError(t, err)
	_, err = NewEngine(LedgerContext{Account: acct, Cursor: market.NewCursor("EURUSD", nil, 0)}, market.NewSeries())
	assert.Error(t, err)
}

func TestSellMarkedToMarket(t *testing.T) {
	t.Parallel()

	e, j := newEngine(t, broker.MarginModeNetting, fixture...)

	d, err := e.OpenPosition(sell(0.1))
	require.NoError(t, err)
	assert.Equal(t, broker.DealEntryIn, d.Entry)
	assert.Equal(t, broker.DealTypeSell, d.Type)
	assert.Equal(t, 0.0, d.Profit)
	assert.Equal(t, 1.12973, d.Price)
	assert.Equal(t, int64(42), d.Magic)

	advance(t, e)

	acct := e.Account()
	require.Len(t, acct.Positions, 1)
	pos := acct.Positions[0]
	assert.Equal(t, 1.12973, pos.PriceOpen)
	assert.Equal(t, 1.13002, pos.PriceCurrent)
	assert.InDelta(t, -2.9, pos.Profit, 1e-9)
	assert.InDelta(t, 100_000-2.9, acct.Equity, 1e-9)
	assert.InDelta(t, 1.12973*100_000*0.1/100, acct.Margin, 1e-9)
	assert.InDelta(t, acct.Equity-acct.Margin, acct.MarginFree, 1e-9)
	assert.InDelta(t, acct.Equity/acct.Margin*100, acct.MarginLevel, 1e-9)

	// Closing at the same tick realizes the marked profit.
	out, err := e.ClosePosition(pos.Ticket, "done")
	require.NoError(t, err)
	assert.Equal(t, broker.DealEntryOut, out.Entry)
	assert.Equal(t, broker.DealTypeBuy, out.Type)
	assert.Equal(t, 1.13002, out.Price)
	assert.InDelta(t, pos.Profit, out.Profit, 1e-9)
	assert.Equal(t, pos.Identifier, out.PositionID)
	assert.Empty(t, acct.Positions)

	assert.InDelta(t, 100_000-2.9, acct.Balance(), 1e-9)
	assert.InDelta(t, acct.Balance(), acct.Equity, 1e-9)
	assert.Equal(t, 0.0, acct.MarginLevel)
	balanceMatchesDeals(t, acct)

	require.Len(t, j.deals, 2)
	assert.Equal(t, "RUN", j.deals[0].RunID)
	assert.Equal(t, "out", j.deals[1].Entry)
	require.Len(t, j.equity, 1)
	assert.True(t, j.equity[0].Time.Equal(start.Add(step)))
}

func TestNettingAveragesSameDirection(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, broker.MarginModeNetting, fixture...)

	_, err := e.OpenPosition(buy(0.1))
	require.NoError(t, err)
	ticket := e.Account().Positions[0].Ticket

	advance(t, e)
	d, err := e.OpenPosition(buy(0.1))
	require.NoError(t, err)
	assert.Equal(t, broker.DealEntryIn, d.Entry)
	assert.Equal(t, 1.13002, d.Price)
	assert.Equal(t, 0.1, d.Volume)

	acct := e.Account()
	require.Len(t, acct.Positions, 1)
	pos := acct.Positions[0]
	assert.Equal(t, 0.2, pos.Volume)
	assert.InDelta(t, 1.12994, pos.PriceOpen, 1e-9)
	assert.Equal(t, ticket, pos.Ticket)
	assert.Equal(t, ticket, pos.Identifier)
	assert.Equal(t, pos.Identifier, d.PositionID)
}

func TestNettingVolumeStaysRounded(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, broker.MarginModeNetting, fixture...)
	for n := 0; n < 3; n++ {
		_, err := e.OpenPosition(buy(0.1))
		require.NoError(t, err)
	}
	assert.Equal(t, 0.3, e.Account().Positions[0].Volume)

	_, err := e.OpenPosition(sell(0.2))
	require.NoError(t, err)
	assert.Equal(t, 0.1, e.Account().Positions[0].Volume)
}

func TestNettingEqualOppositeCloses(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, broker.MarginModeNetting, fixture...)

	_, err := e.OpenPosition(buy(0.1))
	require.NoError(t, err)
	advance(t, e)

	before := len(e.Account().Deals)
	d, err := e.OpenPosition(sell(0.1))
	require.NoError(t, err)

	acct := e.Account()
	assert.Empty(t, acct.Positions)
	assert.Len(t, acct.Deals, before+1)
	assert.Equal(t, broker.DealEntryOut, d.Entry)
	assert.Equal(t, 1.12988, d.Price)
	assert.InDelta(t, 0.2, d.Profit, 1e-9)
	balanceMatchesDeals(t, acct)
}

func TestNettingPartialClose(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, broker.MarginModeNetting, fixture...)

	_, err := e.OpenPosition(buy(0.3))
	require.NoError(t, err)
	pos := e.Account().Positions[0]
	advance(t, e)

	d, err := e.OpenPosition(sell(0.1))
	require.NoError(t, err)

	assert.Equal(t, broker.DealEntryOut, d.Entry)
	assert.InDelta(t, 0.2, d.Profit, 1e-9)
	assert.Equal(t, 0.1, d.Volume)

	require.Len(t, e.Account().Positions, 1)
	assert.Same(t, pos, e.Account().Positions[0])
	assert.Equal(t, 0.2, pos.Volume)
	assert.Equal(t, 1.12986, pos.PriceOpen)
	assert.Equal(t, broker.PositionTypeBuy, pos.Type)
	assert.Equal(t, pos.Ticket, pos.Identifier)
}

func TestNettingReversal(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, broker.MarginModeNetting, fixture...)

	_, err := e.OpenPosition(buy(0.1))
	require.NoError(t, err)
	old := *e.Account().Positions[0]
	advance(t, e)

	before := len(e.Account().Deals)
	d, err := e.OpenPosition(sell(0.2))
	require.NoError(t, err)

	acct := e.Account()
	assert.Len(t, acct.Deals, before+1)
	assert.Equal(t, broker.DealEntryInOut, d.Entry)
	assert.Equal(t, 0.2, d.Volume)
	assert.Equal(t, 1.12988, d.Price)
	assert.InDelta(t, 0.2, d.Profit, 1e-9)
	assert.Equal(t, old.Identifier, d.PositionID)

	require.Len(t, acct.Positions, 1)
	pos := acct.Positions[0]
	assert.Equal(t, broker.PositionTypeSell, pos.Type)
	assert.Equal(t, 0.1, pos.Volume)
	assert.Equal(t, 1.12988, pos.PriceOpen)
	assert.NotEqual(t, old.Identifier, pos.Identifier)
	assert.NotEqual(t, old.Ticket, pos.Ticket)
	balanceMatchesDeals(t, acct)
}

func TestNettingKeepsOneSlotPerSymbol(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, broker.MarginModeNetting, fixture...)
	for _, req := range []broker.MarketOrderRequest{buy(0.1), sell(0.3), buy(0.5), sell(0.1)} {
		_, err := e.OpenPosition(req)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(e.Account().Positions), 1)
	}
	pos := e.Account().Positions[0]
	assert.Equal(t, broker.PositionTypeBuy, pos.Type)
	assert.Equal(t, 0.2, pos.Volume)
}

func TestHedgingOpensIndependentPositions(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, broker.MarginModeHedging, fixture...)

	_, err := e.OpenPosition(buy(0.1))
	require.NoError(t, err)
	_, err = e.OpenPosition(sell(0.1))
	require.NoError(t, err)
	_, err = e.OpenPosition(buy(0.2))
	require.NoError(t, err)

	acct := e.Account()
	require.Len(t, acct.Positions, 3)
	for _, d := range acct.Deals[1:] {
		assert.Equal(t, broker.DealEntryIn, d.Entry)
	}

	advance(t, e)
	d, err := e.ClosePosition(acct.Positions[1].Ticket, "")
	require.NoError(t, err)
	assert.Equal(t, broker.DealEntryOut, d.Entry)
	assert.Equal(t, 1.13002, d.Price)
	assert.InDelta(t, -2.9, d.Profit, 1e-9)
	assert.Len(t, acct.Positions, 2)

	deals, err := e.CloseAllPositions("flat")
	require.NoError(t, err)
	assert.Len(t, deals, 2)
	assert.Empty(t, acct.Positions)
	for _, d := range deals {
		assert.Equal(t, broker.DealEntryOut, d.Entry)
		assert.Equal(t, "flat", d.Comment)
	}
	balanceMatchesDeals(t, acct)
}

func TestTicketsAreUniqueAndIncreasing(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, broker.MarginModeHedging, fixture...)
	for n := 0; n < 5; n++ {
		_, err := e.OpenPosition(buy(0.1))
		require.NoError(t, err)
	}

	deals := e.Account().Deals
	for n := 1; n < len(deals); n++ {
		assert.Greater(t, deals[n].Ticket, deals[n-1].Ticket)
	}
	seen := map[int64]bool{}
	for _, p := range e.Account().Positions {
		assert.False(t, seen[p.Ticket])
		seen[p.Ticket] = true
	}
}

func TestDeterministicReplay(t *testing.T) {
	t.Parallel()

	run := func() *broker.Account {
		e, _ := newEngine(t, broker.MarginModeNetting, fixture...)
		_, err := e.OpenPosition(buy(0.1))
		require.NoError(t, err)
		advance(t, e)
		_, err = e.OpenPosition(buy(0.1))
		require.NoError(t, err)
		_, err = e.OpenPosition(sell(0.3))
		require.NoError(t, err)
		advance(t, e)
		_, err = e.CloseAllPositions("")
		require.NoError(t, err)
		return e.Account()
	}

	a, b := run(), run()
	assert.Equal(t, a.Deals, b.Deals)
	assert.Equal(t, a.Positions, b.Positions)
	assert.Equal(t, a.Balance(), b.Balance())
}

func TestSelectionErrors(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, broker.MarginModeHedging, fixture...)

	_, err := e.ClosePosition(123, "")
	assert.ErrorIs(t, err, broker.ErrCouldNotSelectPosition)

	err = e.ModifyPosition(broker.ModifyPositionRequest{})
	assert.ErrorIs(t, err, broker.ErrCouldNotSelectPosition)

	_, err = e.OpenPosition(buy(0.1))
	require.NoError(t, err)
	_, err = e.OpenPosition(buy(0.1))
	require.NoError(t, err)

	err = e.ModifyPosition(broker.ModifyPositionRequest{StopLoss: 1.1})
	assert.ErrorIs(t, err, broker.ErrCouldNotSelectPosition)
}

func TestRejectedIntentLeavesLedgerUntouched(t *testing.T) {
	t.Parallel()

	e, j := newEngine(t, broker.MarginModeNetting, fixture...)
	acct := e.Account()

	tests := []struct {
		name string
		req  broker.MarketOrderRequest
		want error
	}{
		{name: "sl above buy price", req: broker.Buy("EURUSD", 0.1, 1.2, 0, ""), want: broker.ErrInvalidStopLoss},
		{name: "tp below buy price", req: broker.Buy("EURUSD", 0.1, 0, 1.0, ""), want: broker.ErrInvalidTakeProfit},
		{name: "sl below sell price", req: broker.Sell("EURUSD", 0.1, 1.0, 0, ""), want: broker.ErrInvalidStopLoss},
		{name: "pending type on market action", req: broker.MarketOrderRequest{Symbol: "EURUSD", Type: broker.OrderTypeBuyLimit, Volume: 0.1}, want: broker.ErrInvalidOrderType},
		{name: "zero volume", req: buy(0), want: broker.ErrInvalidVolume},
		{name: "above max volume", req: buy(600), want: broker.ErrInvalidVolume},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.OpenPosition(tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Len(t, acct.Deals, 1)
			assert.Empty(t, acct.Positions)
			assert.Empty(t, j.deals)
		})
	}

	_, err := e.OpenPosition(broker.Buy("GBPUSD", 0.1, 0, 0, ""))
	assert.ErrorIs(t, err, market.ErrUnknownSymbol)
}

func TestModifyPosition(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, broker.MarginModeNetting, fixture...)
	_, err := e.OpenPosition(buy(0.1))
	require.NoError(t, err)
	pos := e.Account().Positions[0]

	// Zero ticket picks the only position.
	require.NoError(t, e.ModifyPosition(broker.ModifyPositionRequest{StopLoss: 1.12, TakeProfit: 1.14, Comment: "trail"}))
	assert.Equal(t, 1.12, pos.StopLoss)
	assert.Equal(t, 1.14, pos.TakeProfit)
	assert.Equal(t, "trail", pos.Comment)

	err = e.ModifyPosition(broker.ModifyPositionRequest{Ticket: pos.Ticket, StopLoss: 1.2})
	assert.ErrorIs(t, err, broker.ErrInvalidStopLoss)
	assert.Equal(t, 1.12, pos.StopLoss)

	require.NoError(t, e.ModifyPosition(broker.ModifyPositionRequest{Ticket: pos.Ticket}))
	assert.Zero(t, pos.StopLoss)
	assert.Zero(t, pos.TakeProfit)
}

func TestModifyPosition_ChecksClosingSide(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, broker.MarginModeHedging, fixture...)
	_, err := e.OpenPosition(buy(0.1))
	require.NoError(t, err)
	_, err = e.OpenPosition(sell(0.1))
	require.NoError(t, err)
	long, short := e.Account().Positions[0], e.Account().Positions[1]

	// Between bid 1.12973 and ask 1.12986: a long's stop sits above the bid.
	err = e.ModifyPosition(broker.ModifyPositionRequest{Ticket: long.Ticket, StopLoss: 1.12980})
	assert.ErrorIs(t, err, broker.ErrInvalidStopLoss)
	assert.Zero(t, long.StopLoss)

	// And a short's stop sits below the ask.
	err = e.ModifyPosition(broker.ModifyPositionRequest{Ticket: short.Ticket, StopLoss: 1.12980})
	assert.ErrorIs(t, err, broker.ErrInvalidStopLoss)
	assert.Zero(t, short.StopLoss)

	require.NoError(t, e.ModifyPosition(broker.ModifyPositionRequest{Ticket: long.Ticket, StopLoss: 1.12970}))
	require.NoError(t, e.ModifyPosition(broker.ModifyPositionRequest{Ticket: short.Ticket, StopLoss: 1.12990}))
}

func TestJournalFailureKeepsAccountConsistent(t *testing.T) {
	t.Parallel()

	e, j := newEngine(t, broker.MarginModeNetting, fixture...)
	j.fail = errors.New("disk full")

	d, err := e.OpenPosition(buy(0.1))
	require.ErrorIs(t, err, j.fail)
	assert.NotZero(t, d.Ticket)

	a := e.Account()
	require.Len(t, a.Positions, 1)
	assert.Len(t, a.Deals, 2)
	assert.Greater(t, a.Margin, 0.0)
	assert.InDelta(t, a.Balance()+a.Positions[0].Profit, a.Equity, 1e-9)
	balanceMatchesDeals(t, a)

	ok, err := NewBacktestGateway(e).ClosePosition(context.Background(), a.Positions[0].Ticket, "")
	assert.True(t, ok)
	assert.ErrorIs(t, err, j.fail)
	assert.Empty(t, a.Positions)
	assert.Zero(t, a.Margin)
}

func TestEnforceStops(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, broker.MarginModeHedging,
		quote{bid: 1.1000, ask: 1.1002},
		quote{bid: 1.0950, ask: 1.0952},
		quote{bid: 1.1100, ask: 1.1102},
	)
	_, err := e.OpenPosition(broker.Buy("EURUSD", 0.1, 1.0960, 0, ""))
	require.NoError(t, err)
	_, err = e.OpenPosition(broker.Buy("EURUSD", 0.1, 0, 1.1050, ""))
	require.NoError(t, err)

	deals, err := e.EnforceStops()
	require.NoError(t, err)
	assert.Empty(t, deals)

	advance(t, e)
	deals, err = e.EnforceStops()
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, broker.DealReasonSL, deals[0].Reason)
	assert.Equal(t, 1.0950, deals[0].Price)

	advance(t, e)
	deals, err = e.EnforceStops()
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, broker.DealReasonTP, deals[0].Reason)
	assert.Empty(t, e.Account().Positions)
	balanceMatchesDeals(t, e.Account())
}

func TestStopOut(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, broker.MarginModeNetting, fixture...)
	_, err := e.OpenPosition(buy(0.1))
	require.NoError(t, err)

	deals, err := e.StopOut("stop out")
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, broker.DealReasonStopOut, deals[0].Reason)
	assert.Empty(t, e.Account().Positions)
}

func TestSequence(t *testing.T) {
	t.Parallel()

	var s Sequence
	at := start
	a := s.Next(at)
	b := s.Next(at)
	assert.Equal(t, at.UnixMilli(), a)
	assert.Equal(t, a+1, b)

	s.Observe(b + 10)
	assert.Equal(t, b+11, s.Next(at))
	assert.Equal(t, at.Add(time.Hour).UnixMilli(), s.Next(at.Add(time.Hour)))
}

func TestPendingOrderLifecycle(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, broker.MarginModeNetting, fixture...)
	acct := e.Account()

	o, err := e.OpenPendingOrder(broker.BuyLimit("EURUSD", 0.1, 1.1200, 1.1150, 1.1300, time.Time{}, "dip"))
	require.NoError(t, err)
	assert.Equal(t, broker.TimeGTC, o.TypeTime)
	assert.Equal(t, broker.OrderStatePlaced, o.State)
	assert.Equal(t, int64(42), o.Magic)
	require.Len(t, acct.Orders, 1)
	assert.Len(t, acct.Deals, 1)

	exp := start.Add(step)
	require.NoError(t, e.ModifyPendingOrder(broker.ModifyOrderRequest{
		Ticket: o.Ticket, Price: 1.1210, StopLoss: 1.1160, Expiration: exp, Comment: "moved",
	}))
	assert.Equal(t, 1.1210, o.PriceOpen)
	assert.Equal(t, 1.1160, o.StopLoss)
	assert.Zero(t, o.TakeProfit)
	assert.Equal(t, broker.TimeSpecified, o.TypeTime)
	assert.Equal(t, "moved", o.Comment)

	err = e.ModifyPendingOrder(broker.ModifyOrderRequest{Ticket: o.Ticket, Price: 1.1210, StopLoss: 1.13})
	assert.ErrorIs(t, err, broker.ErrInvalidStopLoss)
	assert.Equal(t, 1.1160, o.StopLoss)

	assert.Empty(t, e.ExpireOrders())
	advance(t, e)
	expired := e.ExpireOrders()
	require.Len(t, expired, 1)
	assert.Equal(t, broker.OrderStateExpired, expired[0].State)
	assert.Empty(t, acct.Orders)

	o, err = e.OpenPendingOrder(broker.SellStop("EURUSD", 0.1, 1.1200, 0, 0, time.Time{}, ""))
	require.NoError(t, err)
	require.NoError(t, e.CancelPendingOrder(o.Ticket))
	assert.Equal(t, broker.OrderStateCanceled, o.State)
	assert.Empty(t, acct.Orders)

	assert.ErrorIs(t, e.CancelPendingOrder(o.Ticket), broker.ErrOrderNotFound)
}

func TestOpenPendingOrder_Rejects(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t, broker.MarginModeNetting, fixture...)
	advance(t, e)

	tests := []struct {
		name string
		req  broker.PendingOrderRequest
		want error
	}{
		{name: "market type", req: broker.PendingOrderRequest{Symbol: "EURUSD", Type: broker.OrderTypeBuy, Volume: 0.1, Price: 1.1}, want: broker.ErrInvalidOrderType},
		{name: "stop limit above price", req: broker.BuyStopLimit("EURUSD", 0.1, 1.13, 1.14, 0, 0, time.Time{}, ""), want: broker.ErrInvalidStopLimit},
		{name: "tp under buy limit", req: broker.BuyLimit("EURUSD", 0.1, 1.12, 0, 1.11, time.Time{}, ""), want: broker.ErrInvalidTakeProfit},
		{name: "expiration in the past", req: broker.BuyLimit("EURUSD", 0.1, 1.12, 0, 0, start, ""), want: broker.ErrInvalidExpiration},
		{name: "volume", req: broker.BuyLimit("EURUSD", 0, 1.12, 0, 0, time.Time{}, ""), want: broker.ErrInvalidVolume},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.OpenPendingOrder(tt.req)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, e.Account().Orders)
		})
	}
}

func TestBacktestGateway(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e, _ := newEngine(t, broker.MarginModeHedging, fixture...)
	var gw broker.TradeGateway = NewBacktestGateway(e)

	ok, err := gw.OpenPosition(ctx, buy(0.1))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = gw.OpenPosition(ctx, buy(0))
	assert.Error(t, err)
	assert.False(t, ok)

	acct, err := gw.Account(ctx)
	require.NoError(t, err)
	require.Len(t, acct.Positions, 1)
	ticket := acct.Positions[0].Ticket

	ok, err = gw.ModifyPosition(ctx, broker.ModifyPositionRequest{Ticket: ticket, StopLoss: 1.12})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = gw.OpenPendingOrder(ctx, broker.SellLimit("EURUSD", 0.1, 1.14, 0, 0, time.Time{}, ""))
	require.NoError(t, err)
	assert.True(t, ok)
	orderTicket := acct.Orders[0].Ticket

	ok, err = gw.ModifyPendingOrder(ctx, broker.ModifyOrderRequest{Ticket: orderTicket, Price: 1.15})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = gw.CancelPendingOrder(ctx, orderTicket)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = gw.ClosePosition(ctx, ticket, "")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = gw.ClosePosition(ctx, ticket, "")
	assert.ErrorIs(t, err, broker.ErrCouldNotSelectPosition)
	assert.False(t, ok)

	ok, err = gw.CloseAllPositions(ctx, "")
	require.NoError(t, err)
	assert.True(t, ok)
}
