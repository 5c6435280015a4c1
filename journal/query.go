package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rustyeddy/tradeguard/stake"
)

const tradeColumns = `trade_id, time, asset, stake, outcome, profit, balance_after, note`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(row scanner) (stake.Trade, error) {
	var rec stake.Trade
	var outcome string
	err := row.Scan(
		&rec.ID,
		&rec.Timestamp,
		&rec.Asset,
		&rec.Stake,
		&outcome,
		&rec.Profit,
		&rec.BalanceAfter,
		&rec.Note,
	)
	rec.Outcome = stake.Outcome(outcome)
	return rec, err
}

// GetTrade returns a single trade by ID.
func (j *SQLite) GetTrade(tradeID string) (stake.Trade, error) {
	row := j.db.QueryRow(`SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, tradeID)

	rec, err := scanTrade(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return stake.Trade{}, fmt.Errorf("trade %q not found", tradeID)
		}
		return stake.Trade{}, err
	}
	return rec, nil
}

// ListTradesBetween returns trades settled within [start, end), oldest first.
func (j *SQLite) ListTradesBetween(start, end time.Time) ([]stake.Trade, error) {
	rows, err := j.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	return collectTrades(rows)
}

// SessionTrades returns the trades tagged with sessionID, newest first like
// Session.Trades.
func (j *SQLite) SessionTrades(sessionID string) ([]stake.Trade, error) {
	rows, err := j.db.Query(`
		SELECT `+tradeColumns+`
		FROM trades
		WHERE session_id = ?
		ORDER BY time DESC`, sessionID)
	if err != nil {
		return nil, err
	}
	return collectTrades(rows)
}

func collectTrades(rows *sql.Rows) ([]stake.Trade, error) {
	defer rows.Close()

	var out []stake.Trade
	for rows.Next() {
		rec, err := scanTrade(rows)
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

// ListSessions returns session summaries, most recently ended first. Trades
// are not loaded; use SessionTrades.
func (j *SQLite) ListSessions() ([]stake.Session, error) {
	rows, err := j.db.Query(`
		SELECT session_id, start_time, end_time, start_balance, end_balance, net_profit,
		       trade_count, win_count, loss_count, strategy_name
		FROM sessions
		ORDER BY end_time DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []stake.Session
	for rows.Next() {
		var s stake.Session
		if err := rows.Scan(
			&s.ID,
			&s.StartTime,
			&s.EndTime,
			&s.StartBalance,
			&s.EndBalance,
			&s.NetProfit,
			&s.TradeCount,
			&s.WinCount,
			&s.LossCount,
			&s.StrategyName,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
