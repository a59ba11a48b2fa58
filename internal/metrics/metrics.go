// Package metrics defines the prometheus collectors exported by the server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "splitledger"

// Metrics holds the collectors. A nil *Metrics is valid and records nothing,
// which keeps tests and tools free of registry plumbing.
type Metrics struct {
	DroppedEntries     *prometheus.CounterVec
	ResidualViolations prometheus.Counter
	TransfersPlanned   prometheus.Histogram
	RPCDuration        *prometheus.HistogramVec
	EventFailures      prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DroppedEntries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balance_dropped_entries_total",
			Help:      "Expense splits or payers that referenced a member outside the group.",
		}, []string{"kind"}),
		ResidualViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balance_residual_violations_total",
			Help:      "Balance computations whose net did not sum to zero within epsilon.",
		}),
		TransfersPlanned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_transfers_planned",
			Help:      "Number of transfers suggested per balance computation.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21, 34},
		}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Unary RPC latency by procedure and result code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
		EventFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Domain events that could not be published.",
		}),
	}
	reg.MustRegister(m.DroppedEntries, m.ResidualViolations, m.TransfersPlanned, m.RPCDuration, m.EventFailures)
	return m
}

func (m *Metrics) ObserveDropped(kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.DroppedEntries.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) ObserveResidualViolation() {
	if m == nil {
		return
	}
	m.ResidualViolations.Inc()
}

func (m *Metrics) ObserveTransfers(n int) {
	if m == nil {
		return
	}
	m.TransfersPlanned.Observe(float64(n))
}

func (m *Metrics) ObserveRPC(procedure, code string, d time.Duration) {
	if m == nil {
		return
	}
	m.RPCDuration.WithLabelValues(procedure, code).Observe(d.Seconds())
}

func (m *Metrics) ObserveEventFailure() {
	if m == nil {
		return
	}
	m.EventFailures.Inc()
}
