package backtest

import (
	"fmt"
	"io"
	"time"
)

// PrintResult writes a human readable run summary.
func PrintResult(w io.Writer, strategy, symbol string, initial float64, r Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Strategy:      %s\n", strategy)
	fmt.Fprintf(w, "Symbol:        %s\n", symbol)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(time.RFC3339))
	fmt.Fprintf(w, "End:           %s\n", r.End.Format(time.RFC3339))
	if r.Truncated {
		fmt.Fprintln(w, "Stopped out:   yes")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Deal Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Deals:         %d\n", r.Deals)
	fmt.Fprintf(w, "Wins:          %d\n", r.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", r.Losses)
	if closed := r.Wins + r.Losses; closed > 0 {
		fmt.Fprintf(w, "Win Rate:      %.2f%%\n", float64(r.Wins)/float64(closed)*100)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Balance: %.2f\n", initial)
	fmt.Fprintf(w, "End Balance:   %.2f\n", r.Balance)
	fmt.Fprintf(w, "End Equity:    %.2f\n", r.Equity)
	fmt.Fprintf(w, "Net P/L:       %.2f\n", r.Balance-initial)
	if initial > 0 {
		fmt.Fprintf(w, "Return:        %.2f%%\n", (r.Balance-initial)/initial*100)
	}
	if r.MaxDrawdownPct > 0 {
		fmt.Fprintf(w, "Max Drawdown:  %.2f%%\n", r.MaxDrawdownPct)
	}
}
