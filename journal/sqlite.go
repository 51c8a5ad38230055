package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

var (
	_ Journal     = (*SQLite)(nil)
	_ RunRecorder = (*SQLite)(nil)
)

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordDeal(d DealRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO deals
		(ticket, run_id, order_id, position_id, symbol, type, entry, volume, price,
		 commission, swap, fee, profit, time, magic, reason, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.Ticket, d.RunID, d.Order, d.PositionID, d.Symbol, d.Type, d.Entry, d.Volume, d.Price,
		d.Commission, d.Swap, d.Fee, d.Profit, d.Time, d.Magic, d.Reason, d.Comment,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(run_id, time, balance, equity, margin, margin_free, margin_level)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Time, e.Balance, e.Equity, e.Margin, e.MarginFree, e.MarginLevel,
	)
	return err
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT OR REPLACE INTO runs
		(run_id, symbol, strategy, margin_mode, start_time, end_time, initial_balance, final_balance,
		 final_equity, deals, wins, losses, max_dd_pct, truncated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Symbol, r.Strategy, r.MarginMode, r.Start, r.End, r.InitialBalance, r.FinalBalance,
		r.FinalEquity, r.Deals, r.Wins, r.Losses, r.MaxDDPct, r.Truncated,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
