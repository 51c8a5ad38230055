package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatDealOrg renders a deal as an Org-mode block. Structured facts go
// in a PROPERTIES drawer so they stay searchable.
func FormatDealOrg(d DealRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Deal: %s %s %s (%d)\n", d.Symbol, d.Type, d.Entry, d.Ticket)
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":RUN_ID: %s\n", d.RunID)
	fmt.Fprintf(&b, ":TICKET: %d\n", d.Ticket)
	fmt.Fprintf(&b, ":ORDER: %d\n", d.Order)
	fmt.Fprintf(&b, ":POSITION_ID: %d\n", d.PositionID)
	fmt.Fprintf(&b, ":SYMBOL: %s\n", d.Symbol)
	fmt.Fprintf(&b, ":TYPE: %s\n", d.Type)
	fmt.Fprintf(&b, ":ENTRY: %s\n", d.Entry)
	fmt.Fprintf(&b, ":VOLUME: %.2f\n", d.Volume)
	fmt.Fprintf(&b, ":PRICE: %.5f\n", d.Price)
	fmt.Fprintf(&b, ":PROFIT: %.2f\n", d.Profit)
	fmt.Fprintf(&b, ":TIME: %s\n", d.Time.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":REASON: %s\n", d.Reason)
	if d.Comment != "" {
		fmt.Fprintf(&b, ":COMMENT: %s\n", d.Comment)
	}
	b.WriteString(":END:\n")
	return b.String()
}

// FormatDealsOrg renders multiple deals separated by blank lines.
func FormatDealsOrg(deals []DealRecord) string {
	var b strings.Builder
	for n, d := range deals {
		if n > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatDealOrg(d))
	}
	return b.String()
}

// FormatRunOrg renders a run summary heading with its results.
func FormatRunOrg(r RunRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "* Backtest: %s %s (%s)\n", r.Symbol, r.Strategy, shortID(r.RunID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":RUN_ID: %s\n", r.RunID)
	fmt.Fprintf(&b, ":MARGIN_MODE: %s\n", r.MarginMode)
	fmt.Fprintf(&b, ":START: %s\n", r.Start.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":END: %s\n", r.End.UTC().Format(time.RFC3339))
	b.WriteString(":END:\n")
	fmt.Fprintf(&b, "- Balance: %.2f -> %.2f\n", r.InitialBalance, r.FinalBalance)
	fmt.Fprintf(&b, "- Equity: %.2f\n", r.FinalEquity)
	fmt.Fprintf(&b, "- Deals: %d (wins %d, losses %d)\n", r.Deals, r.Wins, r.Losses)
	fmt.Fprintf(&b, "- Max drawdown: %.2f%%\n", r.MaxDDPct)
	if r.Truncated {
		b.WriteString("- Stopped out\n")
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
