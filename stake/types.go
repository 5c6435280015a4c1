package stake

import (
	"time"

	"github.com/rustyeddy/tradeguard/risk"
	"github.com/shopspring/decimal"
)

// Outcome is the result of a single trade.
type Outcome string

const (
	Win  Outcome = "WIN"
	Loss Outcome = "LOSS"
)

// Trade is an immutable record of one win or loss.
type Trade struct {
	ID           string          `json:"id"`
	Timestamp    time.Time       `json:"timestamp"`
	Asset        string          `json:"asset"`
	Stake        decimal.Decimal `json:"stake"`
	Outcome      Outcome         `json:"outcome"`
	Profit       decimal.Decimal `json:"profit"` // +payout on a win, -stake on a loss
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	Note         string          `json:"note,omitempty"`
}

// Session is the archived summary of the trades between two session-ending
// actions.
type Session struct {
	ID           string          `json:"id"`
	StartTime    time.Time       `json:"startTime"`
	EndTime      time.Time       `json:"endTime"`
	StartBalance decimal.Decimal `json:"startBalance"`
	EndBalance   decimal.Decimal `json:"endBalance"`
	NetProfit    decimal.Decimal `json:"netProfit"`
	TradeCount   int             `json:"tradeCount"`
	WinCount     int             `json:"winCount"`
	LossCount    int             `json:"lossCount"`
	Trades       []Trade         `json:"trades"`
	StrategyName string          `json:"strategyName,omitempty"`
}

// State is the single live trading state. Trades and Sessions are kept
// newest first.
type State struct {
	Balance           decimal.Decimal `json:"currentBalance"`
	CurrentStake      decimal.Decimal `json:"currentStake"`
	NextStake         decimal.Decimal `json:"nextStake"`
	LastWinningStake  decimal.Decimal `json:"lastWinningStake"`
	ConsecutiveLosses int             `json:"consecutiveLosses"`
	Trades            []Trade         `json:"trades"`
	Sessions          []Session       `json:"sessions"`
}

// NewState returns a fresh state funded with the initial capital.
func NewState(s Settings) State {
	st := s.BaseStake()
	return State{
		Balance:          s.InitialCapital,
		CurrentStake:     st,
		NextStake:        st,
		LastWinningStake: st,
		Trades:           []Trade{},
		Sessions:         []Session{},
	}
}

// Bankrupt reports whether the next stake exceeds the balance.
func (s State) Bankrupt() bool {
	return s.NextStake.GreaterThan(s.Balance)
}

// MaxLossesReached reports whether a further loss would exceed the cap.
func (s State) MaxLossesReached(set Settings) bool {
	return s.ConsecutiveLosses >= set.MaxConsecutiveLosses
}

func (s State) snapshot(set Settings) risk.Snapshot {
	return risk.Snapshot{
		Balance:              s.Balance,
		NextStake:            s.NextStake,
		ConsecutiveLosses:    s.ConsecutiveLosses,
		MaxConsecutiveLosses: set.MaxConsecutiveLosses,
	}
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	out := s
	out.Trades = cloneTrades(s.Trades)
	if s.Sessions != nil {
		out.Sessions = make([]Session, len(s.Sessions))
		for i, sess := range s.Sessions {
			out.Sessions[i] = sess.Clone()
		}
	}
	return out
}

// Clone returns a copy of the session with its own trade slice.
func (s Session) Clone() Session {
	out := s
	out.Trades = cloneTrades(s.Trades)
	return out
}

func cloneTrades(trades []Trade) []Trade {
	if trades == nil {
		return nil
	}
	return append(make([]Trade, 0, len(trades)), trades...)
}
