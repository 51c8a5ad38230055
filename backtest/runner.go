// Package backtest drives a strategy over historical candles against the
// simulated ledger.
package backtest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rustyeddy/dealbook/broker"
	"github.com/rustyeddy/dealbook/journal"
	"github.com/rustyeddy/dealbook/sim"
	"github.com/rustyeddy/dealbook/strategies"
)

// Options controls how the runner behaves.
type Options struct {
	// StopOutLevel truncates the run once equity falls below this
	// percentage of the initial balance. Zero disables it.
	StopOutLevel float64

	// If true, close all open positions at the end of the data.
	// Close reason will be CloseReason (or "end of data" if empty).
	CloseEnd    bool
	CloseReason string

	// EnforceStops closes positions whose SL or TP was touched by a
	// step's closing tick.
	EnforceStops bool
}

// Result is a lightweight summary of a backtest run.
type Result struct {
	RunID   string
	Balance float64
	Equity  float64

	Deals  int
	Wins   int
	Losses int

	MaxDrawdownPct float64

	Start     time.Time
	End       time.Time
	Truncated bool
}

// Runner drives an engine forward one candle at a time.
type Runner struct {
	Engine   *sim.Engine
	Gateway  broker.TradeGateway // defaults to a BacktestGateway over Engine
	Strategy strategies.Strategy
	Recorder journal.RunRecorder // optional
	Options  Options
	Log      *slog.Logger
}

// Run executes the backtest loop:
//  1. strategy.OnStep(ctx, gateway, cursor)
//  2. cursor advances one candle
//  3. engine.Update() marks positions to the new candle's closing tick
//
// The loop ends at the last candle or when equity drops under the
// stop-out level.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.Engine == nil {
		return Result{}, fmt.Errorf("backtest: Engine is required")
	}
	if r.Strategy == nil {
		return Result{}, fmt.Errorf("backtest: Strategy is required")
	}
	gw := r.Gateway
	if gw == nil {
		gw = sim.NewBacktestGateway(r.Engine)
	}
	log := r.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	cursor := r.Engine.Cursor()
	acct := r.Engine.Account()
	initial := acct.InitialBalance()
	peak := acct.Equity
	res := Result{RunID: r.Engine.RunID(), Start: cursor.Time()}

	log.Info("backtest start",
		"run", res.RunID,
		"strategy", r.Strategy.Name(),
		"symbol", cursor.Symbol,
		"candles", len(cursor.Candles),
	)

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if err := r.Strategy.OnStep(ctx, gw, cursor); err != nil {
			return Result{}, fmt.Errorf("backtest: %s at %s: %w", r.Strategy.Name(), cursor.Time().Format(time.RFC3339), err)
		}
		if !cursor.Advance() {
			break
		}
		if err := r.Engine.Update(); err != nil {
			return Result{}, fmt.Errorf("backtest: %w", err)
		}
		for _, o := range r.Engine.ExpireOrders() {
			log.Debug("order expired", "ticket", o.Ticket, "symbol", o.Symbol)
		}
		if r.Options.EnforceStops {
			if _, err := r.Engine.EnforceStops(); err != nil {
				return Result{}, fmt.Errorf("backtest: %w", err)
			}
		}

		if acct.Equity > peak {
			peak = acct.Equity
		}
		if peak > 0 {
			if dd := (peak - acct.Equity) / peak * 100; dd > res.MaxDrawdownPct {
				res.MaxDrawdownPct = dd
			}
		}

		if r.Options.StopOutLevel > 0 && acct.Equity*100/initial < r.Options.StopOutLevel {
			log.Warn("stop out", "time", cursor.Time(), "equity", acct.Equity, "level", r.Options.StopOutLevel)
			if _, err := r.Engine.StopOut("stop out"); err != nil {
				return Result{}, fmt.Errorf("backtest: %w", err)
			}
			res.Truncated = true
			break
		}
	}

	if r.Options.CloseEnd && len(acct.Positions) > 0 {
		reason := r.Options.CloseReason
		if reason == "" {
			reason = "end of data"
		}
		if _, err := r.Engine.CloseAllPositions(reason); err != nil {
			return Result{}, fmt.Errorf("backtest: %w", err)
		}
	}

	res.End = cursor.Time()
	res.Balance = acct.Balance()
	res.Equity = acct.Equity
	for _, d := range acct.Deals {
		if d.Type == broker.DealTypeBalance {
			continue
		}
		res.Deals++
		if d.Entry == broker.DealEntryIn {
			continue
		}
		switch {
		case d.Profit > 0:
			res.Wins++
		case d.Profit < 0:
			res.Losses++
		}
	}

	log.Info("backtest done",
		"run", res.RunID,
		"balance", res.Balance,
		"deals", res.Deals,
		"truncated", res.Truncated,
	)

	if r.Recorder != nil {
		if err := r.Recorder.RecordRun(journal.RunRecord{
			RunID:          res.RunID,
			Symbol:         cursor.Symbol,
			Strategy:       r.Strategy.Name(),
			MarginMode:     acct.MarginMode.String(),
			Start:          res.Start,
			End:            res.End,
			InitialBalance: initial,
			FinalBalance:   res.Balance,
			FinalEquity:    res.Equity,
			Deals:          res.Deals,
			Wins:           res.Wins,
			Losses:         res.Losses,
			MaxDDPct:       res.MaxDrawdownPct,
			Truncated:      res.Truncated,
		}); err != nil {
			return res, fmt.Errorf("backtest: record run: %w", err)
		}
	}
	return res, nil
}
