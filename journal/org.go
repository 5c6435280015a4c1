package journal

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/rustyeddy/tradeguard/session"
	"github.com/rustyeddy/tradeguard/stake"
	"github.com/shopspring/decimal"
)

// FormatTradeOrg renders a trade as an Org-mode block suitable for pasting
// into a journal. Structured facts go into a PROPERTIES drawer for search.
func FormatTradeOrg(t stake.Trade) string {
	heading := fmt.Sprintf("** %s: %s (%s)", t.Outcome, t.Asset, shortID(t.ID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":TRADE_ID: %s\n", t.ID))
	b.WriteString(fmt.Sprintf(":ASSET: %s\n", t.Asset))
	b.WriteString(fmt.Sprintf(":TIME: %s\n", t.Timestamp.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":OUTCOME: %s\n", t.Outcome))
	b.WriteString(fmt.Sprintf(":STAKE: %s\n", t.Stake.StringFixed(2)))
	b.WriteString(fmt.Sprintf(":PROFIT: %s\n", t.Profit.StringFixed(2)))
	b.WriteString(fmt.Sprintf(":BALANCE_AFTER: %s\n", t.BalanceAfter.StringFixed(2)))
	b.WriteString(":END:\n")
	if t.Note != "" {
		b.WriteString("\n")
		b.WriteString(t.Note)
		b.WriteString("\n")
	}

	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []stake.Trade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[len(full)-8:]
}

// SessionReport is the view rendered by SessionOrgTemplate.
type SessionReport struct {
	Title   string
	Session stake.Session
	Stats   session.Stats
	Created time.Time
}

// NewSessionReport derives the statistics for s.
func NewSessionReport(title string, s stake.Session, created time.Time) SessionReport {
	return SessionReport{Title: title, Session: s, Stats: session.Summarize(s), Created: created}
}

var sessionOrgFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"stamp": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.UTC().Format("2006-01-02 Mon 15:04")
	},
	"inc": func(i int) int { return i + 1 },
}

var sessionOrg = template.Must(template.New("session").Funcs(sessionOrgFuncs).Parse(SessionOrgTemplate))

// WriteSessionOrg renders r as an Org-mode report.
func WriteSessionOrg(w io.Writer, r SessionReport) error {
	return sessionOrg.Execute(w, r)
}

const SessionOrgTemplate = `* SESSION: {{.Title}}
:PROPERTIES:
:SESSION_ID:  {{.Session.ID}}
{{- if .Session.StrategyName}}
:STRATEGY:    {{.Session.StrategyName}}
{{- end}}
:START_TIME:  [{{stamp .Session.StartTime}}]
:END_TIME:    [{{stamp .Session.EndTime}}]
:START_BAL:   {{money .Session.StartBalance}}
:END_BAL:     {{money .Session.EndBalance}}
:NET_PL:      {{money .Session.NetProfit}}
:RETURN_PCT:  {{money .Stats.ReturnPct}}
:MAX_DD_PCT:  {{money .Stats.MaxDrawdownPct}}
:TRADES:      {{.Session.TradeCount}}
:WINS:        {{.Session.WinCount}}
:LOSSES:      {{.Session.LossCount}}
:WIN_RATE:    {{money .Stats.WinRate}}
:PROFIT_FAC:  {{if .Stats.ProfitFactor.IsZero}}(no losses){{else}}{{money .Stats.ProfitFactor}}{{end}}
:CREATED:     [{{stamp .Created}}]
:END:

** Performance Summary
- Net P/L:          *{{money .Session.NetProfit}}*
- Return:           *{{money .Stats.ReturnPct}}%*
- Max Drawdown:     *{{money .Stats.MaxDrawdownPct}}%*
- Win Rate:         *{{money .Stats.WinRate}}%*
- Gross Profit:     *{{money .Stats.GrossProfit}}*
- Gross Loss:       *{{money .Stats.GrossLoss}}*
- Longest Loss Run: *{{.Stats.LongestStreak}}*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Session.WinCount}} |
| Losses  | {{.Session.LossCount}} |
| Total   | {{.Session.TradeCount}} |
{{- if .Session.Trades}}

** Trades
| # | Time | Asset | Outcome | Stake | Profit | Balance |
|---+------+-------+---------+-------+--------+---------|
{{- range $i, $t := .Session.Trades}}
| {{inc $i}} | {{stamp $t.Timestamp}} | {{$t.Asset}} | {{$t.Outcome}} | {{money $t.Stake}} | {{money $t.Profit}} | {{money $t.BalanceAfter}} |
{{- end}}
{{- end}}
`
