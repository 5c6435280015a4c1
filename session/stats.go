package session

import (
	"fmt"
	"time"

	"github.com/rustyeddy/tradeguard/stake"
	"github.com/shopspring/decimal"
)

// Stats are the figures derived from a session for reporting.
type Stats struct {
	WinRate        decimal.Decimal // percent
	GrossProfit    decimal.Decimal
	GrossLoss      decimal.Decimal // positive
	ProfitFactor   decimal.Decimal // zero when there are no losses
	ReturnPct      decimal.Decimal
	MaxDrawdownPct decimal.Decimal
	LongestStreak  int // consecutive losses
}

// Summarize derives reporting statistics from a session.
func Summarize(s stake.Session) Stats {
	var st Stats

	if s.TradeCount > 0 {
		st.WinRate = decimal.NewFromInt(int64(s.WinCount)).
			Div(decimal.NewFromInt(int64(s.TradeCount))).
			Mul(hundred)
	}

	streak := 0
	for i := len(s.Trades) - 1; i >= 0; i-- {
		t := s.Trades[i]
		if t.Profit.IsPositive() {
			st.GrossProfit = st.GrossProfit.Add(t.Profit)
		} else {
			st.GrossLoss = st.GrossLoss.Add(t.Profit.Abs())
		}
		if t.Outcome == stake.Loss {
			streak++
			if streak > st.LongestStreak {
				st.LongestStreak = streak
			}
		} else {
			streak = 0
		}
	}
	if st.GrossLoss.IsPositive() {
		st.ProfitFactor = st.GrossProfit.Div(st.GrossLoss)
	}
	if s.StartBalance.IsPositive() {
		st.ReturnPct = s.NetProfit.Div(s.StartBalance).Mul(hundred)
	}
	st.MaxDrawdownPct = maxDrawdown(EquityCurve(s))

	return st
}

var hundred = decimal.NewFromInt(100)

// Point is one sample of a balance curve.
type Point struct {
	Label   string
	Time    time.Time
	Balance decimal.Decimal
}

// EquityCurve returns the balance after each trade, oldest first, starting
// from the session's start balance.
func EquityCurve(s stake.Session) []Point {
	points := make([]Point, 0, len(s.Trades)+1)
	points = append(points, Point{Label: "Start", Time: s.StartTime, Balance: s.StartBalance})
	for i := len(s.Trades) - 1; i >= 0; i-- {
		t := s.Trades[i]
		points = append(points, Point{
			Label:   fmt.Sprintf("%d", len(points)),
			Time:    t.Timestamp,
			Balance: t.BalanceAfter,
		})
	}
	return points
}

// ArchiveCurve returns the end balance of each archived session, oldest
// first, framed by the initial capital and the live balance.
func ArchiveCurve(sessions []stake.Session, initialCapital, balance decimal.Decimal) []Point {
	points := make([]Point, 0, len(sessions)+2)
	points = append(points, Point{Label: "Start", Balance: initialCapital})
	for i := len(sessions) - 1; i >= 0; i-- {
		s := sessions[i]
		points = append(points, Point{
			Label:   fmt.Sprintf("S%d", len(points)),
			Time:    s.EndTime,
			Balance: s.EndBalance,
		})
	}
	return append(points, Point{Label: "Now", Balance: balance})
}

func maxDrawdown(points []Point) decimal.Decimal {
	dd := decimal.Zero
	var peak decimal.Decimal
	for i, p := range points {
		if i == 0 || p.Balance.GreaterThan(peak) {
			peak = p.Balance
			continue
		}
		if !peak.IsPositive() {
			continue
		}
		if cur := peak.Sub(p.Balance).Div(peak).Mul(hundred); cur.GreaterThan(dd) {
			dd = cur
		}
	}
	return dd
}
