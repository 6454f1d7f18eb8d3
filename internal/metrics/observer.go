package metrics

import "strconv"

// PrometheusObserver implements Observer over a Metrics instance.
type PrometheusObserver struct {
	m *Metrics
}

// NewPrometheusObserver returns an Observer that records into m.
func NewPrometheusObserver(m *Metrics) *PrometheusObserver {
	return &PrometheusObserver{m: m}
}

func probeLabel(id int) string {
	return strconv.Itoa(id)
}

func (o *PrometheusObserver) ObserveExtract(probeID int, bytes int) {
	label := probeLabel(probeID)
	o.m.ExtractBytes.WithLabelValues(label).Add(float64(bytes))
	o.m.ExtractOps.WithLabelValues(label).Inc()
}

func (o *PrometheusObserver) ObserveInject(probeID int, bytes int, paddedBytes int) {
	label := probeLabel(probeID)
	o.m.InjectBytes.WithLabelValues(label).Add(float64(bytes))
	o.m.InjectPadded.WithLabelValues(label).Add(float64(paddedBytes))
	o.m.InjectOps.WithLabelValues(label).Inc()
}

func (o *PrometheusObserver) ObserveDrop(probePointID uint32) {
	o.m.DroppedPackets.Inc()
}

func (o *PrometheusObserver) ObserveRingFault(probeID int, direction string) {
	o.m.RingFaults.WithLabelValues(probeLabel(probeID), direction).Inc()
}

// NoOpObserver discards every observation; used by tests and by callers
// that don't want Prometheus wired in.
type NoOpObserver struct{}

func (NoOpObserver) ObserveExtract(int, int)     {}
func (NoOpObserver) ObserveInject(int, int, int) {}
func (NoOpObserver) ObserveDrop(uint32)          {}
func (NoOpObserver) ObserveRingFault(int, string) {}

var (
	_ Observer = (*PrometheusObserver)(nil)
	_ Observer = NoOpObserver{}
)
