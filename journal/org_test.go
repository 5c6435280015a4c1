package journal

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rustyeddy/tradeguard/stake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTradeOrg(t *testing.T) {
	t.Parallel()

	out := FormatTradeOrg(sampleTrades()[2])

	assert.True(t, strings.HasPrefix(out, "** WIN: EUR/USD (T1)\n"))
	assert.Contains(t, out, ":PROPERTIES:\n")
	assert.Contains(t, out, ":TRADE_ID: T1\n")
	assert.Contains(t, out, ":TIME: 2026-03-02T09:30:00Z\n")
	assert.Contains(t, out, ":STAKE: 1.00\n")
	assert.Contains(t, out, ":PROFIT: 0.85\n")
	assert.Contains(t, out, ":BALANCE_AFTER: 20.85\n")
	assert.Contains(t, out, ":END:\n\nfirst\n")
}

func TestFormatTradeOrgShortID(t *testing.T) {
	t.Parallel()

	tr := sampleTrades()[1]
	tr.ID = "01HZX3D0000000000000ABCDEF"
	out := FormatTradeOrg(tr)
	assert.True(t, strings.HasPrefix(out, "** LOSS: EUR/USD (00ABCDEF)\n"))
	assert.NotContains(t, out, "\n\n", "no note, no trailing paragraph")
}

func TestFormatTradesOrg(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", FormatTradesOrg(nil))

	out := FormatTradesOrg(sampleTrades())
	assert.Equal(t, 3, strings.Count(out, ":PROPERTIES:"))
	assert.Less(t, strings.Index(out, "(T3)"), strings.Index(out, "(T1)"))
}

func TestWriteSessionOrg(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, WriteSessionOrg(&buf, NewSessionReport("Morning", sampleSession(), created)))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "* SESSION: Morning\n"))
	assert.Contains(t, out, ":SESSION_ID:  S1\n")
	assert.Contains(t, out, ":STRATEGY:    martingale\n")
	assert.Contains(t, out, ":START_TIME:  [2026-03-02 Mon 09:30]\n")
	assert.Contains(t, out, ":NET_PL:      2.33\n")
	assert.Contains(t, out, ":RETURN_PCT:  11.67\n")
	assert.Contains(t, out, ":WIN_RATE:    66.67\n")
	assert.Contains(t, out, ":PROFIT_FAC:  3.22\n")
	assert.Contains(t, out, ":CREATED:     [2026-03-02 Mon 18:00]\n")
	assert.Contains(t, out, "| Total   | 3 |\n")
	assert.Contains(t, out, "| 1 | 2026-03-02 Mon 09:32 | EUR/USD | WIN | 2.98 | 2.53 | 22.33 |\n")
	assert.Contains(t, out, "| 3 | 2026-03-02 Mon 09:30 | EUR/USD | WIN | 1.00 | 0.85 | 20.85 |")
}

func TestWriteSessionOrgEmpty(t *testing.T) {
	t.Parallel()

	s := stake.Session{ID: "CURRENT-x", StartBalance: dec("20"), EndBalance: dec("20")}
	var buf bytes.Buffer
	require.NoError(t, WriteSessionOrg(&buf, NewSessionReport("Live", s, time.Time{})))
	out := buf.String()

	assert.Contains(t, out, ":PROFIT_FAC:  (no losses)\n")
	assert.Contains(t, out, ":START_TIME:  [-]\n")
	assert.NotContains(t, out, ":STRATEGY:")
	assert.NotContains(t, out, "** Trades")
}
