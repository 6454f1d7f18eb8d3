// Package metrics provides a pluggable Observer for the probe core's
// extraction/injection/drop/ring-fault events, backed by Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Observer is the interface the probe core depends on; a NoOpObserver is
// available for tests and for callers that don't want metrics wired in.
type Observer interface {
	// ObserveExtract is called once per extraction-worker loop iteration
	// that reads bytes from the ring buffer and dispatches packets.
	ObserveExtract(probeID int, bytes int)

	// ObserveInject is called once per injection-worker loop iteration
	// that writes a block to the ring buffer.
	ObserveInject(probeID int, bytes int, paddedBytes int)

	// ObserveDrop is called when an extracted packet's probe-point id
	// doesn't resolve to a configured probe.
	ObserveDrop(probePointID uint32)

	// ObserveRingFault is called when a ring buffer read/write detects a
	// non-monotonic or overflowing position.
	ObserveRingFault(probeID int, direction string)
}

// Metrics holds the Prometheus collectors backing Observer.
type Metrics struct {
	ExtractBytes   *prometheus.CounterVec
	ExtractOps     *prometheus.CounterVec
	InjectBytes    *prometheus.CounterVec
	InjectPadded   *prometheus.CounterVec
	InjectOps      *prometheus.CounterVec
	DroppedPackets prometheus.Counter
	RingFaults     *prometheus.CounterVec
}

// New creates and registers the probe subsystem's Prometheus collectors.
func New() *Metrics {
	return &Metrics{
		ExtractBytes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cavs_probe_extract_bytes_total",
				Help: "Total bytes read from extraction ring buffers.",
			},
			[]string{"probe_id"},
		),
		ExtractOps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cavs_probe_extract_ops_total",
				Help: "Total extraction worker loop iterations that produced packets.",
			},
			[]string{"probe_id"},
		),
		InjectBytes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cavs_probe_inject_bytes_total",
				Help: "Total bytes written into injection ring buffers, excluding silence padding.",
			},
			[]string{"probe_id"},
		),
		InjectPadded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cavs_probe_inject_padded_bytes_total",
				Help: "Total silence-padding bytes written into injection ring buffers.",
			},
			[]string{"probe_id"},
		),
		InjectOps: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cavs_probe_inject_ops_total",
				Help: "Total injection worker loop iterations.",
			},
			[]string{"probe_id"},
		),
		DroppedPackets: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "cavs_probe_dropped_packets_total",
				Help: "Total extracted packets dropped due to an unmapped probe-point id.",
			},
		),
		RingFaults: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cavs_probe_ring_faults_total",
				Help: "Total ring buffer faults (non-monotonic or overflowing position).",
			},
			[]string{"probe_id", "direction"},
		),
	}
}
