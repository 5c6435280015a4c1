package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rustyeddy/tradeguard/stake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New("", reg)

	m.RecordTrade(stake.Win)
	m.RecordTrade(stake.Win)
	m.RecordTrade(stake.Loss)
	m.RecordBlocked("loss", "MAX_LOSSES")
	m.RecordSession("new_session")
	m.RecordSave(0.001, nil)
	m.RecordSave(0.002, errors.New("disk full"))
	m.RecordJournalError()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TradesTotal.WithLabelValues("WIN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TradesTotal.WithLabelValues("LOSS")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BlockedTotal.WithLabelValues("loss", "MAX_LOSSES")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsArchived.WithLabelValues("new_session")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistErrors.WithLabelValues("store")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistErrors.WithLabelValues("journal")))
}

func TestUpdateState(t *testing.T) {
	t.Parallel()

	m := New("test", prometheus.NewRegistry())
	st := stake.State{
		Balance:           decimal.RequireFromString("19.8"),
		NextStake:         decimal.RequireFromString("2.982"),
		ConsecutiveLosses: 1,
		Trades:            make([]stake.Trade, 2),
	}
	m.UpdateState(st)

	assert.InDelta(t, 19.8, testutil.ToFloat64(m.Balance), 1e-9)
	assert.InDelta(t, 2.982, testutil.ToFloat64(m.NextStake), 1e-9)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConsecutiveLosses))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LiveTrades))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ArchivedSessions))
}

func TestNilMetrics(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordTrade(stake.Win)
		m.RecordBlocked("win", "BALANCE_LOW")
		m.RecordSession("reset")
		m.RecordSave(1, nil)
		m.RecordJournalError()
		m.UpdateState(stake.State{})
	})
}

func TestHandler(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New("", reg)
	m.RecordTrade(stake.Loss)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `tradeguard_trading_trades_total{outcome="LOSS"} 1`)
}
