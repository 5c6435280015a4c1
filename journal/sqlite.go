package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/tradeguard/stake"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t stake.Trade) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, time, asset, stake, outcome, profit, balance_after, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Timestamp.UTC(), t.Asset, t.Stake, string(t.Outcome),
		t.Profit, t.BalanceAfter, t.Note,
	)
	return err
}

// RecordSession stores the summary row and tags its trades with the session
// id. Trades the journal never saw (recorded before it was enabled) are
// inserted so the session stays complete.
func (j *SQLite) RecordSession(s stake.Session) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO sessions
		(session_id, start_time, end_time, start_balance, end_balance, net_profit,
		 trade_count, win_count, loss_count, strategy_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.StartTime.UTC(), s.EndTime.UTC(), s.StartBalance, s.EndBalance,
		s.NetProfit, s.TradeCount, s.WinCount, s.LossCount, s.StrategyName,
	)
	if err != nil {
		return err
	}

	for _, t := range s.Trades {
		_, err := tx.Exec(`
			INSERT OR IGNORE INTO trades
			(trade_id, time, asset, stake, outcome, profit, balance_after, note)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Timestamp.UTC(), t.Asset, t.Stake, string(t.Outcome),
			t.Profit, t.BalanceAfter, t.Note,
		)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(`UPDATE trades SET session_id = ? WHERE trade_id = ?`, s.ID, t.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
