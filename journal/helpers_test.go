package journal

import (
	"time"

	"github.com/rustyeddy/tradeguard/stake"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var t0 = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

// sampleTrades is the win, loss, recovery win sequence, newest first.
func sampleTrades() []stake.Trade {
	return []stake.Trade{
		{ID: "T3", Timestamp: t0.Add(2 * time.Minute), Asset: "EUR/USD", Stake: dec("2.982"), Outcome: stake.Win, Profit: dec("2.5347"), BalanceAfter: dec("22.3347")},
		{ID: "T2", Timestamp: t0.Add(time.Minute), Asset: "EUR/USD", Stake: dec("1.05"), Outcome: stake.Loss, Profit: dec("-1.05"), BalanceAfter: dec("19.8")},
		{ID: "T1", Timestamp: t0, Asset: "EUR/USD", Stake: dec("1"), Outcome: stake.Win, Profit: dec("0.85"), BalanceAfter: dec("20.85"), Note: "first"},
	}
}

func sampleSession() stake.Session {
	trades := sampleTrades()
	return stake.Session{
		ID:           "S1",
		StartTime:    t0,
		EndTime:      t0.Add(2 * time.Minute),
		StartBalance: dec("20"),
		EndBalance:   dec("22.3347"),
		NetProfit:    dec("2.3347"),
		TradeCount:   3,
		WinCount:     2,
		LossCount:    1,
		Trades:       trades,
		StrategyName: "martingale",
	}
}
