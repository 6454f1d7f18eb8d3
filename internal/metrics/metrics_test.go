package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// New registers its collectors with the default Prometheus registry, which
// rejects a second registration of the same names, so the tests share one
// instance and each uses label values no other test touches.
var testMetrics = New()

func TestPrometheusObserverRecordsExtract(t *testing.T) {
	m := testMetrics
	obs := NewPrometheusObserver(m)

	obs.ObserveExtract(0, 128)
	obs.ObserveExtract(0, 64)

	require.Equal(t, float64(192), testutil.ToFloat64(m.ExtractBytes.WithLabelValues("0")))
	require.Equal(t, float64(2), testutil.ToFloat64(m.ExtractOps.WithLabelValues("0")))
}

func TestPrometheusObserverRecordsInjectPadding(t *testing.T) {
	m := testMetrics
	obs := NewPrometheusObserver(m)

	obs.ObserveInject(1, 40, 8)

	require.Equal(t, float64(40), testutil.ToFloat64(m.InjectBytes.WithLabelValues("1")))
	require.Equal(t, float64(8), testutil.ToFloat64(m.InjectPadded.WithLabelValues("1")))
}

func TestPrometheusObserverRecordsDropsAndFaults(t *testing.T) {
	m := testMetrics
	obs := NewPrometheusObserver(m)

	obs.ObserveDrop(0xdeadbeef)
	obs.ObserveDrop(0xdeadbeef)
	obs.ObserveRingFault(2, "extraction")

	require.Equal(t, float64(2), testutil.ToFloat64(m.DroppedPackets))
	require.Equal(t, float64(1), testutil.ToFloat64(m.RingFaults.WithLabelValues("2", "extraction")))
}

func TestNoOpObserverDoesNotPanic(t *testing.T) {
	var obs NoOpObserver
	obs.ObserveExtract(0, 1)
	obs.ObserveInject(0, 1, 1)
	obs.ObserveDrop(0)
	obs.ObserveRingFault(0, "injection")
}
