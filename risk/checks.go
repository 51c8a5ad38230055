package risk

import (
	"fmt"
	"time"

	"github.com/rustyeddy/dealbook/broker"
)

type Violation struct {
	Code string
	Msg  string
}

type Decision struct {
	Allowed    bool
	Violations []Violation

	PlannedRisk    float64
	PlannedRiskPct float64
	PlannedRR      float64
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Evaluate checks an intent against the policy and the account as it
// stands. In netting mode positions on the intent's symbol do not count
// against MaxOpenPositions since the deal nets into them.
func Evaluate(p Policy, in Intent, acct *broker.Account) Decision {
	d := Decision{Allowed: true}

	if in.Volume <= 0 {
		d.add("NO_VOLUME", "volume must be positive")
		return d
	}

	if in.Stop != 0 && in.Entry != 0 {
		d.PlannedRisk = PlannedRisk(in.Volume, in.Entry, in.Stop, in.Contract.ContractSize, in.QuoteToAccount)
		d.PlannedRiskPct = RiskPct(d.PlannedRisk, acct.Equity)
		if p.MaxRiskPct > 0 && d.PlannedRiskPct > p.MaxRiskPct {
			d.add("RISK_TOO_HIGH", fmt.Sprintf("planned risk %.2f%% exceeds max %.2f%%",
				100*d.PlannedRiskPct, 100*p.MaxRiskPct))
		}
		if in.TakeProfit != 0 {
			d.PlannedRR = RR(in.Entry, in.Stop, in.TakeProfit)
			if p.MinRR > 0 && d.PlannedRR < p.MinRR {
				d.add("RR_TOO_LOW", fmt.Sprintf("RR %.2f below minimum %.2f", d.PlannedRR, p.MinRR))
			}
		}
	}

	if p.MaxOpenPositions > 0 {
		open := 0
		for _, pos := range acct.Positions {
			if acct.MarginMode == broker.MarginModeNetting && pos.Symbol == in.Symbol {
				continue
			}
			open++
		}
		if open >= p.MaxOpenPositions {
			d.add("TOO_MANY_POSITIONS", fmt.Sprintf("open positions %d >= max %d", open, p.MaxOpenPositions))
		}
	}

	if p.MaxMarginPct > 0 && acct.Equity > 0 && acct.Margin/acct.Equity > p.MaxMarginPct {
		d.add("MARGIN_TOO_HIGH", fmt.Sprintf("margin used %.2f%% exceeds max %.2f%%",
			100*acct.Margin/acct.Equity, 100*p.MaxMarginPct))
	}

	if p.MaxDailyLossPct > 0 {
		realized := RealizedOn(acct.Deals, in.Now)
		if limit := -p.MaxDailyLossPct * acct.Balance(); realized <= limit {
			d.add("DAILY_LOSS_LIMIT", fmt.Sprintf("day realized %.2f <= limit %.2f", realized, limit))
		}
	}
	return d
}

// RealizedOn sums trade deal profits booked on the UTC day of at.
func RealizedOn(deals []broker.Deal, at time.Time) float64 {
	day := at.UTC().Truncate(24 * time.Hour)
	var sum float64
	for _, d := range deals {
		if d.Type == broker.DealTypeBalance {
			continue
		}
		if d.Time.UTC().Truncate(24 * time.Hour).Equal(day) {
			sum += d.Profit
		}
	}
	return sum
}
