package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/dealbook/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the deal journal",
	Long: `Query and display records from the SQLite deal journal.

Subcommands:
  runs   - List recorded backtest runs
  deals  - List the deals of a run, or of a day
  deal   - Show one deal

Examples:
  dealbook journal runs
  dealbook journal deals <run-id>
  dealbook journal deals --day 2022-01-03
  dealbook journal deal <run-id> <ticket>`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalDealsCmd = &cobra.Command{
	Use:   "deals [run-id]",
	Short: "List deals of a run or a day",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runJournalDeals,
}

var journalDealCmd = &cobra.Command{
	Use:   "deal <run-id> <ticket>",
	Short: "Show one deal",
	Args:  cobra.ExactArgs(2),
	RunE:  runJournalDeal,
}

var (
	journalDBPath string
	journalDay    string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalDealsCmd)
	journalCmd.AddCommand(journalDealCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./dealbook.sqlite", "path to SQLite journal DB")
	journalDealsCmd.Flags().StringVar(&journalDay, "day", "", "list deals on this UTC day (YYYY-MM-DD)")
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runs, err := j.ListRuns()
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}
	for _, r := range runs {
		fmt.Fprintln(cmd.OutOrStdout(), journal.FormatRunOrg(r))
	}
	return nil
}

func runJournalDeals(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && journalDay == "" {
		return fmt.Errorf("need a run id or --day")
	}

	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	var recs []journal.DealRecord
	if len(args) == 1 {
		recs, err = j.ListDealsByRun(args[0])
	} else {
		var start, end time.Time
		if start, end, err = dayBounds(journalDay); err != nil {
			return fmt.Errorf("date: %w", err)
		}
		recs, err = j.ListDealsBetween(start, end)
	}
	if err != nil {
		return fmt.Errorf("query deals: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatDealsOrg(recs))
	return nil
}

func runJournalDeal(cmd *cobra.Command, args []string) error {
	ticket, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("bad ticket %q: %w", args[1], err)
	}

	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	rec, err := j.GetDeal(args[0], ticket)
	if err != nil {
		return fmt.Errorf("get deal: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), journal.FormatDealOrg(rec))
	return nil
}

func dayBounds(day string) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(time.DateOnly, day, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, start.Add(24 * time.Hour), nil
}
