package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/dealbook/broker"
	"github.com/rustyeddy/dealbook/market"
)

var eurusd = market.DefaultContracts["EURUSD"]

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      Inputs
		volume  float64
		ticks   float64
		wantErr error
	}{
		{
			name:   "one percent over fifty points",
			in:     Inputs{Equity: 10000, RiskPct: 0.01, Entry: 1.1000, Stop: 1.0950, Contract: eurusd, QuoteToAccount: 1},
			volume: 0.2,
			ticks:  500,
		},
		{
			name:   "floors to the volume step",
			in:     Inputs{Equity: 10000, RiskPct: 0.01, Entry: 1.1000, Stop: 1.0970, Contract: eurusd, QuoteToAccount: 1},
			volume: 0.33,
			ticks:  300,
		},
		{
			name:   "short stop above entry",
			in:     Inputs{Equity: 50000, RiskPct: 0.02, Entry: 1.2000, Stop: 1.2100, Contract: eurusd, QuoteToAccount: 1},
			volume: 1,
			ticks:  1000,
		},
		{
			name:   "capped at symbol maximum",
			in:     Inputs{Equity: 1e9, RiskPct: 0.5, Entry: 1.1000, Stop: 1.0999, Contract: eurusd, QuoteToAccount: 1},
			volume: 500,
			ticks:  10,
		},
		{
			name:    "too small for the minimum lot",
			in:      Inputs{Equity: 100, RiskPct: 0.001, Entry: 1.1000, Stop: 1.0900, Contract: eurusd, QuoteToAccount: 1},
			wantErr: ErrBelowMinVolume,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Calculate(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.volume, got.Volume, 1e-9)
			assert.InDelta(t, tt.ticks, got.StopTicks, 1e-6)
			assert.InDelta(t, tt.in.Equity*tt.in.RiskPct, got.RiskAmount, 1e-6)
		})
	}
}

func TestCalculate_BadInputs(t *testing.T) {
	t.Parallel()

	_, err := Calculate(Inputs{Equity: 1000, RiskPct: 0.01, Entry: 1.1, Stop: 1.1, Contract: eurusd, QuoteToAccount: 1})
	assert.ErrorContains(t, err, "stop equals entry")

	_, err = Calculate(Inputs{Equity: 1000, RiskPct: 0.01, Entry: 1.1, Stop: 1.0, Contract: eurusd})
	assert.ErrorContains(t, err, "no quote conversion")

	_, err = Calculate(Inputs{RiskPct: 0.01})
	assert.Error(t, err)
}

func TestQuoteToAccount(t *testing.T) {
	t.Parallel()

	q, ok := QuoteToAccount(eurusd, "USD", 1.1)
	assert.True(t, ok)
	assert.Equal(t, 1.0, q)

	q, ok = QuoteToAccount(market.DefaultContracts["USDJPY"], "USD", 125)
	assert.True(t, ok)
	assert.InDelta(t, 0.008, q, 1e-12)

	_, ok = QuoteToAccount(market.DefaultContracts["EURGBP"], "USD", 0.84)
	assert.False(t, ok)
}

func TestRR(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 2.0, RR(1.1000, 1.0950, 1.1100), 1e-9)
	assert.Zero(t, RR(1.1, 1.1, 1.2))
	assert.InDelta(t, 0.01, RiskPct(100, 10000), 1e-12)
}

func testAccount(t *testing.T, mode broker.MarginMode) *broker.Account {
	t.Helper()
	a, err := broker.NewAccount(broker.AccountParams{
		Currency: "USD",
		Balance:  10000,
		Leverage: 100,
		Mode:     mode,
		FundedAt: time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return a
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	now := time.Date(2022, 1, 3, 12, 0, 0, 0, time.UTC)
	base := Intent{
		Now: now, Symbol: "EURUSD", Volume: 0.2,
		Entry: 1.1000, Stop: 1.0950, TakeProfit: 1.1100,
		Contract: eurusd, QuoteToAccount: 1,
	}

	tests := []struct {
		name   string
		policy Policy
		mode   broker.MarginMode
		setup  func(a *broker.Account)
		intent func(in Intent) Intent
		codes  []string
	}{
		{
			name:   "within limits",
			policy: Policy{MaxRiskPct: 0.0101, MinRR: 1.5, MaxOpenPositions: 1, MaxMarginPct: 0.5, MaxDailyLossPct: 0.02},
		},
		{
			name:   "risk too high",
			policy: Policy{MaxRiskPct: 0.005},
			codes:  []string{"RISK_TOO_HIGH"},
		},
		{
			name:   "rr too low",
			policy: Policy{MinRR: 3},
			codes:  []string{"RR_TOO_LOW"},
		},
		{
			name:   "no volume",
			policy: Policy{},
			intent: func(in Intent) Intent { in.Volume = 0; return in },
			codes:  []string{"NO_VOLUME"},
		},
		{
			name:   "hedging counts same symbol",
			policy: Policy{MaxOpenPositions: 1},
			mode:   broker.MarginModeHedging,
			setup: func(a *broker.Account) {
				a.Positions = []*broker.Position{{Ticket: 1, Symbol: "EURUSD"}}
			},
			codes: []string{"TOO_MANY_POSITIONS"},
		},
		{
			name:   "netting ignores same symbol",
			policy: Policy{MaxOpenPositions: 1},
			setup: func(a *broker.Account) {
				a.Positions = []*broker.Position{{Ticket: 1, Symbol: "EURUSD"}}
			},
		},
		{
			name:   "margin too high",
			policy: Policy{MaxMarginPct: 0.1},
			setup:  func(a *broker.Account) { a.Margin = 2000 },
			codes:  []string{"MARGIN_TOO_HIGH"},
		},
		{
			name:   "daily loss limit",
			policy: Policy{MaxDailyLossPct: 0.01},
			setup: func(a *broker.Account) {
				a.AppendDeal(broker.Deal{Ticket: 5, Type: broker.DealTypeSell, Entry: broker.DealEntryOut, Profit: -150, Time: now.Add(-time.Hour)})
				a.AppendDeal(broker.Deal{Ticket: 6, Type: broker.DealTypeSell, Entry: broker.DealEntryOut, Profit: -500, Time: now.Add(-24 * time.Hour)})
			},
			codes: []string{"DAILY_LOSS_LIMIT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a := testAccount(t, tt.mode)
			if tt.setup != nil {
				tt.setup(a)
			}
			in := base
			if tt.intent != nil {
				in = tt.intent(in)
			}

			d := Evaluate(tt.policy, in, a)
			var codes []string
			for _, v := range d.Violations {
				codes = append(codes, v.Code)
			}
			assert.Equal(t, tt.codes, codes)
			assert.Equal(t, len(tt.codes) == 0, d.Allowed)
		})
	}
}

func TestRealizedOn(t *testing.T) {
	t.Parallel()

	day := time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
	deals := []broker.Deal{
		{Type: broker.DealTypeBalance, Profit: 10000, Time: day},
		{Type: broker.DealTypeBuy, Profit: 20, Time: day.Add(time.Hour)},
		{Type: broker.DealTypeSell, Profit: -5, Time: day.Add(23 * time.Hour)},
		{Type: broker.DealTypeSell, Profit: 99, Time: day.Add(25 * time.Hour)},
	}
	assert.InDelta(t, 15, RealizedOn(deals, day.Add(12*time.Hour)), 1e-9)
}
