package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const dealColumns = `ticket, run_id, order_id, position_id, symbol, type, entry, volume, price,
	commission, swap, fee, profit, time, magic, reason, comment`

type scanner interface {
	Scan(dest ...any) error
}

func scanDeal(s scanner) (DealRecord, error) {
	var rec DealRecord
	err := s.Scan(
		&rec.Ticket,
		&rec.RunID,
		&rec.Order,
		&rec.PositionID,
		&rec.Symbol,
		&rec.Type,
		&rec.Entry,
		&rec.Volume,
		&rec.Price,
		&rec.Commission,
		&rec.Swap,
		&rec.Fee,
		&rec.Profit,
		&rec.Time,
		&rec.Magic,
		&rec.Reason,
		&rec.Comment,
	)
	return rec, err
}

// GetDeal returns a single deal of a run by ticket.
func (j *SQLite) GetDeal(runID string, ticket int64) (DealRecord, error) {
	row := j.db.QueryRow(`SELECT `+dealColumns+` FROM deals WHERE run_id = ? AND ticket = ?`, runID, ticket)

	rec, err := scanDeal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return DealRecord{}, fmt.Errorf("deal %d of run %q not found", ticket, runID)
		}
		return DealRecord{}, err
	}
	return rec, nil
}

// ListDealsByRun returns every deal of a run in booking order.
func (j *SQLite) ListDealsByRun(runID string) ([]DealRecord, error) {
	return j.queryDeals(`SELECT `+dealColumns+` FROM deals WHERE run_id = ? ORDER BY ticket ASC`, runID)
}

// ListDealsBetween returns deals whose time is within [start, end).
func (j *SQLite) ListDealsBetween(start, end time.Time) ([]DealRecord, error) {
	return j.queryDeals(`SELECT `+dealColumns+` FROM deals
		WHERE time >= ? AND time < ?
		ORDER BY time ASC, ticket ASC`, start, end)
}

func (j *SQLite) queryDeals(q string, args ...any) ([]DealRecord, error) {
	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DealRecord
	for rows.Next() {
		rec, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityByRun returns the equity curve of a run.
func (j *SQLite) ListEquityByRun(runID string) ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, balance, equity, margin, margin_free, margin_level
		FROM equity
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(&e.RunID, &e.Time, &e.Balance, &e.Equity, &e.Margin, &e.MarginFree, &e.MarginLevel); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetRun returns a run summary by id.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	var r RunRecord
	err := j.db.QueryRow(`
		SELECT run_id, symbol, strategy, margin_mode, start_time, end_time, initial_balance, final_balance,
		       final_equity, deals, wins, losses, max_dd_pct, truncated
		FROM runs WHERE run_id = ?`, runID).Scan(
		&r.RunID, &r.Symbol, &r.Strategy, &r.MarginMode, &r.Start, &r.End, &r.InitialBalance, &r.FinalBalance,
		&r.FinalEquity, &r.Deals, &r.Wins, &r.Losses, &r.MaxDDPct, &r.Truncated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return r, nil
}

// ListRuns returns all run summaries, newest id first.
func (j *SQLite) ListRuns() ([]RunRecord, error) {
	rows, err := j.db.Query(`SELECT run_id FROM runs ORDER BY run_id DESC`)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]RunRecord, 0, len(ids))
	for _, id := range ids {
		r, err := j.GetRun(id)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
