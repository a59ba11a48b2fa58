package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveDropped("split", 2)
	m.ObserveDropped("payer", 1)
	m.ObserveDropped("split", 0)
	m.ObserveResidualViolation()
	m.ObserveTransfers(3)
	m.ObserveRPC("/splitledger.v1.GroupService/GetGroup", "ok", 20*time.Millisecond)
	m.ObserveEventFailure()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DroppedEntries.WithLabelValues("split")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DroppedEntries.WithLabelValues("payer")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResidualViolations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventFailures))
	assert.Equal(t, 1, testutil.CollectAndCount(m.TransfersPlanned))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RPCDuration))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDropped("split", 1)
		m.ObserveResidualViolation()
		m.ObserveTransfers(1)
		m.ObserveRPC("p", "ok", time.Second)
		m.ObserveEventFailure()
	})
}
