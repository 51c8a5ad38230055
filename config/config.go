// Package config loads the dealbook configuration from YAML or JSON with
// environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/dealbook/broker/live"
	"github.com/rustyeddy/dealbook/market"
)

// Config represents the complete dealbook configuration
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Backtest BacktestConfig `json:"backtest" yaml:"backtest"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Logging  LoggingConfig  `json:"logging" yaml:"logging"`
	Live     LiveConfig     `json:"live" yaml:"live"`
}

// AccountConfig contains account initialization parameters
type AccountConfig struct {
	Login      string  `json:"login" yaml:"login"`
	Currency   string  `json:"currency" yaml:"currency"`
	Balance    float64 `json:"balance" yaml:"balance"`
	Leverage   float64 `json:"leverage" yaml:"leverage"`
	MarginMode string  `json:"margin_mode" yaml:"margin_mode"` // "netting" or "hedging"
}

// BacktestConfig selects the data, the strategy and the driver options.
type BacktestConfig struct {
	Symbol    string            `json:"symbol" yaml:"symbol"`
	Ticks     map[string]string `json:"ticks" yaml:"ticks"` // symbol -> tick file
	Candles   string            `json:"candles,omitempty" yaml:"candles,omitempty"`
	Timeframe string            `json:"timeframe" yaml:"timeframe"` // "15m", "M15", "H1"
	From      string            `json:"from,omitempty" yaml:"from,omitempty"`
	To        string            `json:"to,omitempty" yaml:"to,omitempty"`

	Strategy string         `json:"strategy" yaml:"strategy"`
	Magic    int64          `json:"magic" yaml:"magic"`
	Params   StrategyConfig `json:"params" yaml:"params"`

	StopOutLevel float64 `json:"stop_out_level" yaml:"stop_out_level"`
	CloseEnd     bool    `json:"close_end" yaml:"close_end"`
	EnforceStops bool    `json:"enforce_stops" yaml:"enforce_stops"`
}

// StrategyConfig contains strategy parameters
type StrategyConfig struct {
	Volume    float64 `json:"volume" yaml:"volume"`
	Side      string  `json:"side,omitempty" yaml:"side,omitempty"`
	Fast      int     `json:"fast,omitempty" yaml:"fast,omitempty"`
	Slow      int     `json:"slow,omitempty" yaml:"slow,omitempty"`
	Kind      string  `json:"kind,omitempty" yaml:"kind,omitempty"`
	MinADX    float64 `json:"min_adx,omitempty" yaml:"min_adx,omitempty"`
	ADXPeriod int     `json:"adx_period,omitempty" yaml:"adx_period,omitempty"`
	StopATR   float64 `json:"stop_atr,omitempty" yaml:"stop_atr,omitempty"`
	ATRPeriod int     `json:"atr_period,omitempty" yaml:"atr_period,omitempty"`

	RiskPct          float64 `json:"risk_pct,omitempty" yaml:"risk_pct,omitempty"` // 0.01 is one percent
	MaxRiskPct       float64 `json:"max_risk_pct,omitempty" yaml:"max_risk_pct,omitempty"`
	MaxOpenPositions int     `json:"max_open_positions,omitempty" yaml:"max_open_positions,omitempty"`
	MaxMarginPct     float64 `json:"max_margin_pct,omitempty" yaml:"max_margin_pct,omitempty"`
	MaxDailyLossPct  float64 `json:"max_daily_loss_pct,omitempty" yaml:"max_daily_loss_pct,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "sqlite", "csv" or "none"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	DealsFile  string `json:"deals_file,omitempty" yaml:"deals_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
}

type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"` // "text" or "json"
}

// LiveConfig holds terminal credentials and retry policy. The password
// is only ever read from the environment.
type LiveConfig struct {
	Login      string `json:"login,omitempty" yaml:"login,omitempty"`
	Server     string `json:"server,omitempty" yaml:"server,omitempty"`
	Password   string `json:"-" yaml:"-"`
	MaxRetries int    `json:"max_retries" yaml:"max_retries"`
	RetryDelay string `json:"retry_delay" yaml:"retry_delay"`
	Deviation  int    `json:"deviation,omitempty" yaml:"deviation,omitempty"`
}

// LoadEnv reads .env style files into the process environment. Missing
// files are ignored.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env %s: %w", p, err)
		}
	}
	return nil
}

// LoadFromFile loads configuration from a file (YAML or JSON), applies
// environment overrides and validates the result.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := fileBase()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = fileBase()
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fileBase is Default without the sample tick files, so decoding a
// file does not merge its map with ours.
func fileBase() *Config {
	c := Default()
	c.Backtest.Ticks = nil
	return c
}

// SaveToFile saves configuration to a file (YAML or JSON based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DEALBOOK_ACCOUNT_CURRENCY"); v != "" {
		cfg.Account.Currency = v
	}
	if v := os.Getenv("DEALBOOK_ACCOUNT_BALANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Account.Balance = f
		}
	}
	if v := os.Getenv("DEALBOOK_MARGIN_MODE"); v != "" {
		cfg.Account.MarginMode = v
	}
	if v := os.Getenv("DEALBOOK_JOURNAL_DB"); v != "" {
		cfg.Journal.DBPath = v
	}
	if v := os.Getenv("DEALBOOK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("MT5_LOGIN"); v != "" {
		cfg.Live.Login = v
	}
	if v := os.Getenv("MT5_SERVER"); v != "" {
		cfg.Live.Server = v
	}
	if v := os.Getenv("MT5_PASSWORD"); v != "" {
		cfg.Live.Password = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Account.Leverage < 0 {
		return fmt.Errorf("account.leverage must not be negative")
	}
	if m := c.Account.MarginMode; m != "" && m != "netting" && m != "hedging" {
		return fmt.Errorf("account.margin_mode must be 'netting' or 'hedging'")
	}

	b := c.Backtest
	if b.Symbol != "" {
		if _, ok := market.DefaultContracts[b.Symbol]; !ok {
			return fmt.Errorf("unknown symbol: %s", b.Symbol)
		}
	}
	if b.Timeframe != "" {
		if _, err := market.ParseTimeframe(b.Timeframe); err != nil {
			return fmt.Errorf("backtest.timeframe must be a positive duration or M15/H1 style name")
		}
	}
	if _, _, err := b.Range(); err != nil {
		return err
	}
	if p := b.Params; p.RiskPct < 0 || p.RiskPct >= 1 || p.MaxRiskPct < 0 || p.MaxMarginPct < 0 || p.MaxDailyLossPct < 0 {
		return fmt.Errorf("backtest.params risk fractions must be in [0, 1)")
	}
	if b.StopOutLevel < 0 || b.StopOutLevel > 100 {
		return fmt.Errorf("backtest.stop_out_level must be between 0 and 100")
	}

	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "csv":
		if c.Journal.DealsFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal deals_file and equity_file required for CSV type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv' or 'none'")
	}

	if c.Live.MaxRetries < 0 {
		return fmt.Errorf("live.max_retries must not be negative")
	}
	if c.Live.RetryDelay != "" {
		if _, err := time.ParseDuration(c.Live.RetryDelay); err != nil {
			return fmt.Errorf("live.retry_delay: %w", err)
		}
	}
	return nil
}

// TimeframeDuration returns the candle width, 15 minutes when unset.
func (b BacktestConfig) TimeframeDuration() time.Duration {
	d, err := market.ParseTimeframe(b.Timeframe)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}

// Range parses From and To. Empty bounds come back as zero times.
func (b BacktestConfig) Range() (from, to time.Time, err error) {
	if b.From != "" {
		if from, err = parseDate(b.From); err != nil {
			return from, to, fmt.Errorf("backtest.from: %w", err)
		}
	}
	if b.To != "" {
		if to, err = parseDate(b.To); err != nil {
			return from, to, fmt.Errorf("backtest.to: %w", err)
		}
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return from, to, fmt.Errorf("backtest.from must be before backtest.to")
	}
	return from, to, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.DateOnly, s)
}

// RetryDelayDuration returns the live retry delay, 500ms when unset.
func (l LiveConfig) RetryDelayDuration() time.Duration {
	d, err := time.ParseDuration(l.RetryDelay)
	if err != nil || d <= 0 {
		return 500 * time.Millisecond
	}
	return d
}

// Options maps the live section onto gateway options. magic stamps every
// request sent.
func (l LiveConfig) Options(magic int64) live.Options {
	opts := live.DefaultOptions()
	opts.MaxRetries = l.MaxRetries
	opts.RetryDelay = l.RetryDelayDuration()
	opts.Magic = magic
	if l.Deviation > 0 {
		opts.Deviation = l.Deviation
	}
	opts.Login = l.Login
	opts.Server = l.Server
	return opts
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Login:      "SIM-001",
			Currency:   "USD",
			Balance:    100000,
			Leverage:   100,
			MarginMode: "netting",
		},
		Backtest: BacktestConfig{
			Symbol:    "EURUSD",
			Ticks:     map[string]string{"EURUSD": "./data/EURUSD_ticks.csv"},
			Timeframe: "15m",
			Strategy:  "ma-cross",
			Magic:     1000,
			Params: StrategyConfig{
				Volume: 0.1,
				Fast:   10,
				Slow:   30,
				Kind:   "ema",
			},
			StopOutLevel: 50,
			CloseEnd:     true,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./dealbook.sqlite",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Live: LiveConfig{
			MaxRetries: 5,
			RetryDelay: "500ms",
		},
	}
}
