// journal/schema.go
package journal

const Schema = `
CREATE TABLE IF NOT EXISTS deals (
	ticket INTEGER NOT NULL,
	run_id TEXT NOT NULL,
	order_id INTEGER NOT NULL,
	position_id INTEGER NOT NULL,
	symbol TEXT NOT NULL,
	type TEXT NOT NULL,
	entry TEXT NOT NULL,
	volume REAL NOT NULL,
	price REAL NOT NULL,
	commission REAL NOT NULL,
	swap REAL NOT NULL,
	fee REAL NOT NULL,
	profit REAL NOT NULL,
	time DATETIME NOT NULL,
	magic INTEGER NOT NULL,
	reason TEXT NOT NULL,
	comment TEXT NOT NULL,
	PRIMARY KEY (run_id, ticket)
);

CREATE INDEX IF NOT EXISTS idx_deals_time ON deals(time);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	balance REAL NOT NULL,
	equity REAL NOT NULL,
	margin REAL NOT NULL,
	margin_free REAL NOT NULL,
	margin_level REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);

CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	symbol TEXT NOT NULL,
	strategy TEXT NOT NULL,
	margin_mode TEXT NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	initial_balance REAL NOT NULL,
	final_balance REAL NOT NULL,
	final_equity REAL NOT NULL,
	deals INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	max_dd_pct REAL NOT NULL,
	truncated INTEGER NOT NULL
);
`
