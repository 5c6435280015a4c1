package journal

// Money columns are TEXT so decimals come back exactly as written.
const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	asset TEXT NOT NULL,
	stake TEXT NOT NULL,
	outcome TEXT NOT NULL,
	profit TEXT NOT NULL,
	balance_after TEXT NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	session_id TEXT
);

CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(time);

CREATE TABLE IF NOT EXISTS sessions (
	session_id TEXT PRIMARY KEY,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	start_balance TEXT NOT NULL,
	end_balance TEXT NOT NULL,
	net_profit TEXT NOT NULL,
	trade_count INTEGER NOT NULL,
	win_count INTEGER NOT NULL,
	loss_count INTEGER NOT NULL,
	strategy_name TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_sessions_end ON sessions(end_time);
`
