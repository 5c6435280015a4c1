package journal

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/tradeguard/stake"
)

var (
	tradeHeader   = []string{"trade_id", "time", "asset", "stake", "outcome", "profit", "balance_after", "note"}
	sessionHeader = []string{"session_id", "start_time", "end_time", "start_balance", "end_balance", "net_profit", "trade_count", "win_count", "loss_count", "strategy_name"}
)

// CSVJournal appends to two CSV files. Headers are written only when a file
// is empty, so a journal can be reopened across runs.
type CSVJournal struct {
	trades   *csv.Writer
	sessions *csv.Writer
	tf, sf   *os.File
}

func NewCSV(tradesPath, sessionsPath string) (*CSVJournal, error) {
	tf, tw, err := openCSV(tradesPath, tradeHeader)
	if err != nil {
		return nil, err
	}
	sf, sw, err := openCSV(sessionsPath, sessionHeader)
	if err != nil {
		tf.Close()
		return nil, err
	}

	return &CSVJournal{trades: tw, sessions: sw, tf: tf, sf: sf}, nil
}

func openCSV(path string, header []string) (*os.File, *csv.Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(header); err != nil {
			f.Close()
			return nil, nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, nil, err
		}
	}
	return f, w, nil
}

func (j *CSVJournal) RecordTrade(t stake.Trade) error {
	if err := j.trades.Write(tradeRow(t)); err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordSession(s stake.Session) error {
	if err := j.sessions.Write(sessionRow(s)); err != nil {
		return err
	}
	j.sessions.Flush()
	return j.sessions.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.sessions.Flush()
	if err := j.sessions.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	if err := j.sf.Close(); err != nil {
		return err
	}
	return nil
}

// WriteTradesCSV exports trades in journal column order.
func WriteTradesCSV(w io.Writer, trades []stake.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tradeHeader); err != nil {
		return err
	}
	for _, t := range trades {
		if err := cw.Write(tradeRow(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSessionsCSV exports session summaries in journal column order.
func WriteSessionsCSV(w io.Writer, sessions []stake.Session) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sessionHeader); err != nil {
		return err
	}
	for _, s := range sessions {
		if err := cw.Write(sessionRow(s)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func tradeRow(t stake.Trade) []string {
	return []string{
		t.ID,
		t.Timestamp.UTC().Format(time.RFC3339),
		t.Asset,
		t.Stake.String(),
		string(t.Outcome),
		t.Profit.String(),
		t.BalanceAfter.String(),
		t.Note,
	}
}

func sessionRow(s stake.Session) []string {
	return []string{
		s.ID,
		s.StartTime.UTC().Format(time.RFC3339),
		s.EndTime.UTC().Format(time.RFC3339),
		s.StartBalance.String(),
		s.EndBalance.String(),
		s.NetProfit.String(),
		strconv.Itoa(s.TradeCount),
		strconv.Itoa(s.WinCount),
		strconv.Itoa(s.LossCount),
		s.StrategyName,
	}
}
