// Package session folds trades into session summaries and manages the
// archive transitions that end a session.
package session

import (
	"errors"
	"sort"
	"time"

	"github.com/rustyeddy/tradeguard/internal/id"
	"github.com/rustyeddy/tradeguard/stake"
	"github.com/shopspring/decimal"
)

// ArchiveReportID identifies the synthetic session built over the archive.
const ArchiveReportID = "ARCHIVE-FULL-REPORT"

// ErrEmptyArchive is returned when an archive report is requested with no
// archived sessions.
var ErrEmptyArchive = errors.New("session archive is empty")

// Trigger names the action that ends a session.
type Trigger int

const (
	NewSession Trigger = iota
	Reset
)

func (t Trigger) String() string {
	switch t {
	case NewSession:
		return "new-session"
	case Reset:
		return "reset"
	default:
		return "unknown"
	}
}

var safeStakeRate = decimal.RequireFromString("0.02")

// End archives the live trades, if any, and resets the stakes for the next
// session.
//
// NewSession keeps the balance and restarts at 2% of it. Reset restores the
// initial capital and the initial stake. The archived session is nil when
// there were no live trades.
func End(st stake.State, set stake.Settings, trigger Trigger, at time.Time) (stake.State, *stake.Session) {
	out := st
	var archived *stake.Session

	if len(st.Trades) > 0 {
		s := aggregate(st.Trades, st.Balance, set, at)
		s.ID = id.Session()
		archived = &s

		sessions := make([]stake.Session, 0, len(st.Sessions)+1)
		sessions = append(sessions, s)
		out.Sessions = append(sessions, st.Sessions...)
	}
	out.Trades = []stake.Trade{}
	out.ConsecutiveLosses = 0

	switch trigger {
	case Reset:
		base := set.BaseStake()
		out.Balance = set.InitialCapital
		out.CurrentStake = base
		out.NextStake = base
		out.LastWinningStake = base
	default:
		safe := set.InitialStake
		if st.Balance.IsPositive() {
			safe = st.Balance.Mul(safeStakeRate).Round(stake.Precision)
		}
		safe = stake.Floor(safe)
		out.CurrentStake = safe
		out.NextStake = safe
		out.LastWinningStake = safe
	}

	return out, archived
}

// Prune drops the oldest sessions so at most limit remain. A limit of zero
// or less keeps everything.
func Prune(st stake.State, limit int) stake.State {
	if limit <= 0 || len(st.Sessions) <= limit {
		return st
	}
	out := st
	out.Sessions = append([]stake.Session(nil), st.Sessions[:limit]...)
	return out
}

// BuildLiveReport summarises the live trades without archiving them.
func BuildLiveReport(st stake.State, set stake.Settings, at time.Time) stake.Session {
	s := aggregate(st.Trades, st.Balance, set, at)
	s.ID = "CURRENT-" + id.At(at)
	return s
}

// BuildArchiveReport merges every archived session into one. Sessions are
// expected newest first, as they are kept in the state.
func BuildArchiveReport(sessions []stake.Session, set stake.Settings) (stake.Session, error) {
	if len(sessions) == 0 {
		return stake.Session{}, ErrEmptyArchive
	}

	oldest := sessions[len(sessions)-1]
	newest := sessions[0]

	var trades []stake.Trade
	net := decimal.Zero
	for _, s := range sessions {
		trades = append(trades, s.Trades...)
		net = net.Add(s.NetProfit)
	}
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Timestamp.After(trades[j].Timestamp)
	})
	wins, losses := tally(trades)

	return stake.Session{
		ID:           ArchiveReportID,
		StartTime:    oldest.StartTime,
		EndTime:      newest.EndTime,
		StartBalance: oldest.StartBalance,
		EndBalance:   newest.EndBalance,
		NetProfit:    net,
		TradeCount:   len(trades),
		WinCount:     wins,
		LossCount:    losses,
		Trades:       trades,
		StrategyName: set.StrategyName,
	}, nil
}

// aggregate folds newest-first trades into a session ending at balance.
// The start balance is back-computed since balance already reflects every
// trade.
func aggregate(trades []stake.Trade, balance decimal.Decimal, set stake.Settings, at time.Time) stake.Session {
	net := decimal.Zero
	for _, t := range trades {
		net = net.Add(t.Profit)
	}
	wins, losses := tally(trades)

	start := at
	if len(trades) > 0 {
		start = trades[len(trades)-1].Timestamp
	}

	return stake.Session{
		StartTime:    start,
		EndTime:      at,
		StartBalance: balance.Sub(net),
		EndBalance:   balance,
		NetProfit:    net,
		TradeCount:   len(trades),
		WinCount:     wins,
		LossCount:    losses,
		Trades:       append([]stake.Trade{}, trades...),
		StrategyName: set.StrategyName,
	}
}

func tally(trades []stake.Trade) (wins, losses int) {
	for _, t := range trades {
		switch t.Outcome {
		case stake.Win:
			wins++
		case stake.Loss:
			losses++
		}
	}
	return wins, losses
}
