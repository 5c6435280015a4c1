// Package metrics provides Prometheus instrumentation for the tracker.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rustyeddy/tradeguard/stake"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	// Trading metrics
	TradesTotal      *prometheus.CounterVec
	BlockedTotal     *prometheus.CounterVec
	SessionsArchived *prometheus.CounterVec

	// State gauges
	Balance           prometheus.Gauge
	NextStake         prometheus.Gauge
	ConsecutiveLosses prometheus.Gauge
	LiveTrades        prometheus.Gauge
	ArchivedSessions  prometheus.Gauge

	// Persistence metrics
	SaveDuration  prometheus.Histogram
	PersistErrors *prometheus.CounterVec
}

// New creates a Metrics instance registered with reg.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "tradeguard"
	}
	f := promauto.With(reg)

	return &Metrics{
		TradesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "trades_total",
			Help:      "Total number of recorded trades by outcome",
		}, []string{"outcome"}),
		BlockedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "blocked_actions_total",
			Help:      "Total number of actions rejected by a risk check",
		}, []string{"action", "code"}),
		SessionsArchived: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trading",
			Name:      "sessions_archived_total",
			Help:      "Total number of sessions archived by trigger",
		}, []string{"trigger"}),

		Balance: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "state",
			Name:      "balance",
			Help:      "Current balance",
		}),
		NextStake: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "state",
			Name:      "next_stake",
			Help:      "Stake for the next trade",
		}),
		ConsecutiveLosses: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "state",
			Name:      "consecutive_losses",
			Help:      "Current losing streak",
		}),
		LiveTrades: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "state",
			Name:      "live_trades",
			Help:      "Number of trades in the live session",
		}),
		ArchivedSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "state",
			Name:      "archived_sessions",
			Help:      "Number of sessions in the archive",
		}),

		SaveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "save_duration_seconds",
			Help:      "Time spent persisting settings and state",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		PersistErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Total number of failed store or journal writes",
		}, []string{"sink"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// RecordTrade counts a trade.
func (m *Metrics) RecordTrade(o stake.Outcome) {
	if m == nil {
		return
	}
	m.TradesTotal.WithLabelValues(string(o)).Inc()
}

// RecordBlocked counts an action refused with the given violation code.
func (m *Metrics) RecordBlocked(action, code string) {
	if m == nil {
		return
	}
	m.BlockedTotal.WithLabelValues(action, code).Inc()
}

// RecordSession counts an archived session.
func (m *Metrics) RecordSession(trigger string) {
	if m == nil {
		return
	}
	m.SessionsArchived.WithLabelValues(trigger).Inc()
}

// RecordSave observes a store write.
func (m *Metrics) RecordSave(seconds float64, err error) {
	if m == nil {
		return
	}
	m.SaveDuration.Observe(seconds)
	if err != nil {
		m.PersistErrors.WithLabelValues("store").Inc()
	}
}

// RecordJournalError counts a failed journal write.
func (m *Metrics) RecordJournalError() {
	if m == nil {
		return
	}
	m.PersistErrors.WithLabelValues("journal").Inc()
}

// UpdateState sets the state gauges.
func (m *Metrics) UpdateState(st stake.State) {
	if m == nil {
		return
	}
	m.Balance.Set(st.Balance.InexactFloat64())
	m.NextStake.Set(st.NextStake.InexactFloat64())
	m.ConsecutiveLosses.Set(float64(st.ConsecutiveLosses))
	m.LiveTrades.Set(float64(len(st.Trades)))
	m.ArchivedSessions.Set(float64(len(st.Sessions)))
}
