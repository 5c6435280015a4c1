package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/tradeguard/risk"
	"github.com/rustyeddy/tradeguard/session"
	"github.com/rustyeddy/tradeguard/stake"
	"github.com/shopspring/decimal"
)

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func printTrade(w io.Writer, tr stake.Trade, st stake.State) {
	fmt.Fprintf(w, "%-4s %s  stake %s  profit %s  balance %s  next stake %s\n",
		tr.Outcome, tr.Asset, money(tr.Stake), money(tr.Profit), money(tr.BalanceAfter), money(st.NextStake))
}

func printSessionEnd(w io.Writer, what string, s *stake.Session, st stake.State) {
	if s != nil {
		fmt.Fprintf(w, "session archived: %s  %d trades  net %s\n", s.ID, s.TradeCount, money(s.NetProfit))
	} else {
		fmt.Fprintln(w, "no live trades to archive")
	}
	fmt.Fprintf(w, "%s: balance %s  stake %s\n", what, money(st.Balance), money(st.NextStake))
}

func printStatus(w io.Writer, st stake.State, set stake.Settings, d risk.Decision) {
	fmt.Fprintf(w, "Balance:        %s\n", money(st.Balance))
	fmt.Fprintf(w, "Next stake:     %s (%s%% of balance)\n", money(st.NextStake), money(risk.StakePct(st.NextStake, st.Balance)))
	fmt.Fprintf(w, "Win baseline:   %s\n", money(st.LastWinningStake))
	fmt.Fprintf(w, "Loss streak:    %d / %d\n", st.ConsecutiveLosses, set.MaxConsecutiveLosses)
	fmt.Fprintf(w, "Asset:          %s @ %s%%\n", set.AssetName(), set.Payout().String())
	fmt.Fprintf(w, "Live trades:    %d\n", len(st.Trades))
	fmt.Fprintf(w, "Archive:        %d sessions\n", len(st.Sessions))

	if len(d.Violations) == 0 {
		fmt.Fprintln(w, "Status:         OK")
		return
	}
	for _, v := range d.Violations {
		fmt.Fprintf(w, "Status:         %s: %s\n", v.Code, v.Msg)
	}
	switch {
	case !d.CanWin && !d.CanLoss:
		fmt.Fprintln(w, "                win and loss are blocked")
	case !d.CanLoss:
		fmt.Fprintln(w, "                loss is blocked")
	}
}

func printSettings(w io.Writer, set stake.Settings) {
	payout := set.Payout().String() + "%"
	if set.PayoutPercentage == nil {
		payout += " (default)"
	}
	fmt.Fprintf(w, "initial-capital:  %s\n", set.InitialCapital.String())
	fmt.Fprintf(w, "initial-stake:    %s\n", set.InitialStake.String())
	fmt.Fprintf(w, "payout:           %s\n", payout)
	fmt.Fprintf(w, "win-increase:     %s%%\n", set.WinIncreasePercentage.String())
	fmt.Fprintf(w, "loss-multiplier:  %s\n", set.LossMultiplier.String())
	fmt.Fprintf(w, "max-losses:       %d\n", set.MaxConsecutiveLosses)
	if set.StrategyName != "" {
		fmt.Fprintf(w, "strategy:         %s\n", set.StrategyName)
	}
	fmt.Fprintln(w, "assets:")
	for i, a := range set.Assets {
		mark := " "
		if i == set.SelectedAsset {
			mark = "*"
		}
		name := a.Name
		if name == "" {
			name = "-"
		}
		line := fmt.Sprintf("  %s %d  %s", mark, i, name)
		if a.DefaultPayout != nil {
			line += fmt.Sprintf("  (%s%%)", a.DefaultPayout.String())
		}
		fmt.Fprintln(w, line)
	}
}

func printReport(w io.Writer, title string, s stake.Session, curve []session.Point) {
	stats := session.Summarize(s)

	fmt.Fprintf(w, "%s  %s\n", title, s.ID)
	fmt.Fprintf(w, "  period:        %s .. %s\n", stamp(s.StartTime), stamp(s.EndTime))
	fmt.Fprintf(w, "  balance:       %s -> %s\n", money(s.StartBalance), money(s.EndBalance))
	fmt.Fprintf(w, "  net profit:    %s (%s%%)\n", money(s.NetProfit), money(stats.ReturnPct))
	fmt.Fprintf(w, "  trades:        %d  (%d wins, %d losses)\n", s.TradeCount, s.WinCount, s.LossCount)
	fmt.Fprintf(w, "  win rate:      %s%%\n", money(stats.WinRate))
	if stats.ProfitFactor.IsZero() {
		fmt.Fprintln(w, "  profit factor: -")
	} else {
		fmt.Fprintf(w, "  profit factor: %s\n", money(stats.ProfitFactor))
	}
	fmt.Fprintf(w, "  max drawdown:  %s%%\n", money(stats.MaxDrawdownPct))
	fmt.Fprintf(w, "  longest loss run: %d\n", stats.LongestStreak)

	if len(curve) > 1 {
		fmt.Fprintln(w, "\n  balance curve:")
		for _, p := range curve {
			fmt.Fprintf(w, "    %-6s %s\n", p.Label, money(p.Balance))
		}
	}

	if len(s.Trades) > 0 {
		fmt.Fprintln(w, "\n  trades (newest first):")
		for _, t := range s.Trades {
			fmt.Fprintf(w, "    %s  %-8s %-4s stake %8s  profit %8s  balance %8s\n",
				stamp(t.Timestamp), t.Asset, t.Outcome, money(t.Stake), money(t.Profit), money(t.BalanceAfter))
		}
	}
}

func printSessions(w io.Writer, sessions []stake.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "no sessions")
		return
	}
	for _, s := range sessions {
		fmt.Fprintf(w, "%s  %s  %3d trades  %s -> %s  net %s\n",
			stamp(s.EndTime), s.ID, s.TradeCount, money(s.StartBalance), money(s.EndBalance), money(s.NetProfit))
	}
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
