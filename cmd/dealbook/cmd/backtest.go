package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/dealbook/backtest"
	"github.com/rustyeddy/dealbook/broker"
	"github.com/rustyeddy/dealbook/config"
	"github.com/rustyeddy/dealbook/journal"
	"github.com/rustyeddy/dealbook/market"
	"github.com/rustyeddy/dealbook/pkg/id"
	"github.com/rustyeddy/dealbook/risk"
	"github.com/rustyeddy/dealbook/sim"
	"github.com/rustyeddy/dealbook/strategies"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a strategy over historical prices",
	Long: `Backtest replays candles of the driving symbol and lets a strategy trade
against a simulated account. Deals and equity go to the configured journal.

Supported strategies:
  - noop: does nothing (baseline)
  - open-once: opens a single market position on the first candle
  - ma-cross: moving average crossover with optional ADX filter and ATR stop

Examples:
  dealbook backtest -c backtest.yaml
  dealbook backtest -c backtest.yaml --strategy open-once --side sell --mode hedging`,
	RunE: runBacktest,
}

var (
	btTicks    string
	btCandles  string
	btSymbol   string
	btStrategy string
	btMode     string
	btVolume   float64
	btSide     string
	btBalance  float64
	btDBPath   string
	btNoClose  bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btTicks, "ticks", "t", "", "tick file for the driving symbol (.csv or .parquet)")
	backtestCmd.Flags().StringVar(&btCandles, "candles", "", "candle file; aggregated from ticks when empty")
	backtestCmd.Flags().StringVarP(&btSymbol, "symbol", "s", "", "driving symbol")
	backtestCmd.Flags().StringVar(&btStrategy, "strategy", "", "strategy name (noop, open-once, ma-cross)")
	backtestCmd.Flags().StringVar(&btMode, "mode", "", "margin mode (netting, hedging)")
	backtestCmd.Flags().Float64VarP(&btVolume, "volume", "v", 0, "order volume in lots")
	backtestCmd.Flags().StringVar(&btSide, "side", "", "open-once: buy or sell")
	backtestCmd.Flags().Float64VarP(&btBalance, "balance", "b", 0, "starting balance")
	backtestCmd.Flags().StringVarP(&btDBPath, "db", "d", "", "SQLite journal path")
	backtestCmd.Flags().BoolVar(&btNoClose, "no-close", false, "leave positions open at the end of data")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	applyBacktestFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Running backtest with strategy: %s\n", cfg.Backtest.Strategy)
	fmt.Fprintf(out, "  Symbol: %s (%s)\n", cfg.Backtest.Symbol, cfg.Account.MarginMode)
	fmt.Fprintf(out, "  Journal: %s\n\n", journalTarget(cfg.Journal))

	res, err := runConfigured(ctx, cfg, log)
	if err != nil {
		return err
	}
	backtest.PrintResult(out, cfg.Backtest.Strategy, cfg.Backtest.Symbol, cfg.Account.Balance, res)
	return nil
}

func applyBacktestFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	b := &cfg.Backtest
	if f.Changed("symbol") {
		b.Symbol = btSymbol
	}
	if f.Changed("ticks") {
		if b.Ticks == nil {
			b.Ticks = map[string]string{}
		}
		b.Ticks[b.Symbol] = btTicks
	}
	if f.Changed("candles") {
		b.Candles = btCandles
	}
	if f.Changed("strategy") {
		b.Strategy = btStrategy
	}
	if f.Changed("volume") {
		b.Params.Volume = btVolume
	}
	if f.Changed("side") {
		b.Params.Side = btSide
	}
	if f.Changed("no-close") {
		b.CloseEnd = !btNoClose
	}
	if f.Changed("mode") {
		cfg.Account.MarginMode = btMode
	}
	if f.Changed("balance") {
		cfg.Account.Balance = btBalance
	}
	if f.Changed("db") {
		cfg.Journal.Type = "sqlite"
		cfg.Journal.DBPath = btDBPath
	}
}

// runConfigured loads the dataset, builds the ledger and runs the
// configured strategy to the end of data.
func runConfigured(ctx context.Context, cfg *config.Config, log *slog.Logger) (backtest.Result, error) {
	b := cfg.Backtest
	from, to, err := b.Range()
	if err != nil {
		return backtest.Result{}, err
	}
	series, candles, err := backtest.Dataset{
		Symbol:    b.Symbol,
		Ticks:     b.Ticks,
		Candles:   b.Candles,
		Timeframe: b.TimeframeDuration(),
		From:      from,
		To:        to,
	}.Load()
	if err != nil {
		return backtest.Result{}, err
	}
	if gs := market.SummarizeGaps(candles, b.TimeframeDuration()); gs.SuspiciousGaps > 0 {
		log.Warn("suspicious gaps in candles",
			"symbol", b.Symbol,
			"gaps", gs.SuspiciousGaps,
			"missing", gs.MissingBars,
			"longest", gs.LongestGap,
		)
	}

	mode, _ := broker.ParseMarginMode(cfg.Account.MarginMode)
	acct, err := broker.NewAccount(broker.AccountParams{
		Login:    cfg.Account.Login,
		Currency: cfg.Account.Currency,
		Balance:  cfg.Account.Balance,
		Leverage: cfg.Account.Leverage,
		Mode:     mode,
		FundedAt: candles[0].Time,
	})
	if err != nil {
		return backtest.Result{}, err
	}

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return backtest.Result{}, fmt.Errorf("journal: %w", err)
	}
	defer j.Close()

	engine, err := sim.NewEngine(sim.LedgerContext{
		Account: acct,
		Magic:   b.Magic,
		Cursor:  market.NewCursor(b.Symbol, candles, 0),
	}, series,
		sim.WithJournal(j),
		sim.WithLogger(log),
		sim.WithRunID(id.New()),
	)
	if err != nil {
		return backtest.Result{}, err
	}

	p := b.Params
	strat, err := strategies.ByName(b.Strategy, strategies.Params{
		Symbol:    b.Symbol,
		Volume:    p.Volume,
		Side:      p.Side,
		Fast:      p.Fast,
		Slow:      p.Slow,
		Kind:      p.Kind,
		MinADX:    p.MinADX,
		ADXPeriod: p.ADXPeriod,
		StopATR:   p.StopATR,
		ATRPeriod: p.ATRPeriod,
		RiskPct:   p.RiskPct,
		Policy: risk.Policy{
			MaxRiskPct:       p.MaxRiskPct,
			MaxOpenPositions: p.MaxOpenPositions,
			MaxMarginPct:     p.MaxMarginPct,
			MaxDailyLossPct:  p.MaxDailyLossPct,
		},
	})
	if err != nil {
		return backtest.Result{}, fmt.Errorf("strategy: %w", err)
	}

	runner := &backtest.Runner{
		Engine:   engine,
		Strategy: strat,
		Options: backtest.Options{
			StopOutLevel: b.StopOutLevel,
			CloseEnd:     b.CloseEnd,
			EnforceStops: b.EnforceStops,
		},
		Log: log,
	}
	if rec, ok := j.(journal.RunRecorder); ok {
		runner.Recorder = rec
	}
	return runner.Run(ctx)
}

func openJournal(c config.JournalConfig) (journal.Journal, error) {
	switch c.Type {
	case "sqlite":
		return journal.NewSQLite(c.DBPath)
	case "csv":
		return journal.NewCSV(c.DealsFile, c.EquityFile)
	default:
		return journal.Nop{}, nil
	}
}

func journalTarget(c config.JournalConfig) string {
	switch c.Type {
	case "sqlite":
		return c.DBPath
	case "csv":
		return c.DealsFile + ", " + c.EquityFile
	}
	return "none"
}
