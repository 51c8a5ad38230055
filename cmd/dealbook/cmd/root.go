package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/dealbook/config"
	"github.com/rustyeddy/dealbook/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "dealbook",
	Short: "Order matching and deal accounting for FX backtests",
	Long: `Dealbook books strategy orders against a simulated trading account the
way a netting or hedging trade server would: deals with IN/OUT/INOUT
entries, positions marked to market, pending orders and stop-outs.

It provides tools for:
  - Backtesting strategies over tick and candle files
  - Generating and validating configuration files
  - Querying the deal journal`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(envFile); err != nil {
			return fmt.Errorf("env: %w", err)
		}
		return nil
	},
}

var (
	cfgFile  string
	envFile  string
	logLevel string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with credentials and overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

// loadConfig reads --config, or the defaults when it is not set.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		cfg := config.Default()
		return cfg, cfg.Validate()
	}
	return config.LoadFromFile(cfgFile)
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	return logging.New(level, cfg.Logging.Format)
}
