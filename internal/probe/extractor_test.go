package probe

import (
	"testing"
	"time"

	"github.com/intel/cavs-debug-agent/internal/driver"
	"github.com/intel/cavs-debug-agent/internal/framer"
	"github.com/intel/cavs-debug-agent/internal/pqueue"
	"github.com/intel/cavs-debug-agent/internal/wire"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	drops     int
	ringFault int
}

func (o *countingObserver) ObserveExtract(int, int)      {}
func (o *countingObserver) ObserveInject(int, int, int)  {}
func (o *countingObserver) ObserveDrop(uint32)           { o.drops++ }
func (o *countingObserver) ObserveRingFault(int, string) { o.ringFault++ }

func TestExtractionWorkerDispatchRoutesToConfiguredQueue(t *testing.T) {
	svc, _, _ := newTestService(2)

	point := exampleProbePoint(5, 1)
	svc.probePointMap = buildProbePointMap([]EndpointConfig{
		{Enabled: true, Point: point, Purpose: PurposeExtract},
	})
	q := pqueue.NewBufferQueue(1024)
	q.Open()
	svc.extractQueues = map[Id]*pqueue.BufferQueue{0: q}

	w := &extractionWorker{svc: svc}
	w.dispatch(point.Pack(), []byte("payload"))

	chunk, ok := q.Read()
	require.True(t, ok)
	require.Equal(t, []byte("payload"), chunk)
}

func TestExtractionWorkerDropsUnmappedProbePoint(t *testing.T) {
	svc, _, _ := newTestService(2)
	obs := &countingObserver{}
	svc.observer = obs
	svc.probePointMap = map[wire.ProbePointID]Id{}
	svc.extractQueues = map[Id]*pqueue.BufferQueue{}

	w := &extractionWorker{svc: svc}
	w.dispatch(exampleProbePoint(9, 9).Pack(), []byte("x"))

	require.Equal(t, 1, obs.drops)
}

func TestExtractionWorkerRunDrainsRingAndDispatchesOnShutdown(t *testing.T) {
	svc, drv, _ := newTestService(2)
	obs := &countingObserver{}
	svc.observer = obs

	point := exampleProbePoint(1, 0)
	svc.probePointMap = buildProbePointMap([]EndpointConfig{
		{Enabled: true, Point: point, Purpose: PurposeExtract},
	})
	q := pqueue.NewBufferQueue(1024)
	q.Open()
	svc.extractQueues = map[Id]*pqueue.BufferQueue{0: q}

	encoded := framer.Encode(point.Pack(), []byte("sample"))
	base := make([]byte, 4096)
	copy(base, encoded)
	drv.SetRingBuffers(driver.RingBuffers{Extraction: driver.RingBufferView{Base: base, Size: 4096}})
	drv.SetExtractionProducerPos(uint64(len(encoded)))

	rb, err := drv.GetRingBuffers()
	require.NoError(t, err)
	event := driver.NewEventHandle()
	w := newExtractionWorker(svc, rb.Extraction, event)

	done := make(chan struct{})
	go func() {
		w.run()
		close(done)
	}()
	w.stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("extraction worker did not exit after stop")
	}

	chunk, ok := q.Read()
	require.True(t, ok)
	require.Equal(t, []byte("sample"), chunk)
}
