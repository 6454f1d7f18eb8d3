package probe

import (
	"sync"

	"github.com/intel/cavs-debug-agent/internal/agenterr"
	"github.com/intel/cavs-debug-agent/internal/driver"
	"github.com/intel/cavs-debug-agent/internal/framer"
	"github.com/intel/cavs-debug-agent/internal/ringbuf"
	"github.com/intel/cavs-debug-agent/internal/wire"
)

// extractionWorker is C4: the single goroutine created on entering
// Active that drains the extraction ring buffer, deframes packets, and
// routes each one to its probe's queue by probe-point id.
type extractionWorker struct {
	svc      *Service
	reader   *ringbuf.Reader
	event    *driver.EventHandle
	shutdown chan struct{}
	stopOnce sync.Once
	buf      []byte
}

const extractionReadBufSize = 64 * 1024

func newExtractionWorker(svc *Service, view driver.RingBufferView, event *driver.EventHandle) *extractionWorker {
	w := &extractionWorker{
		svc:      svc,
		event:    event,
		shutdown: make(chan struct{}),
		buf:      make([]byte, 0, extractionReadBufSize),
	}

	var lastPos uint64
	w.reader = ringbuf.NewReader(view.Base, view.Size, func() uint64 {
		pos, err := svc.drv.GetExtractionProducerPos()
		if err != nil {
			svc.logger.Warnf("extraction: failed to query producer position: %v", err)
			return lastPos
		}
		lastPos = pos
		return pos
	})
	return w
}

func (w *extractionWorker) stop() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

func (w *extractionWorker) run() {
	dec := framer.NewDecoder(w.dispatch)

	for {
		select {
		case <-w.shutdown:
			w.drainOnce(dec)
			w.closeQueues(nil)
			return
		case <-w.event.C():
		}

		if err := w.drainOnce(dec); err != nil {
			w.closeQueues(err)
			return
		}
	}
}

// drainOnce performs one read_available + feed cycle.
func (w *extractionWorker) drainOnce(dec *framer.Decoder) error {
	w.buf = w.buf[:0]
	out, err := w.reader.ReadAvailable(w.buf)
	if err != nil {
		w.svc.observer.ObserveRingFault(-1, "extraction")
		return agenterr.Wrap("extraction", err)
	}
	if len(out) == 0 {
		return nil
	}
	w.svc.observer.ObserveExtract(-1, len(out))
	if err := dec.Feed(out); err != nil {
		return agenterr.Wrap("extraction", err)
	}
	return nil
}

// dispatch is the framer.PacketHandler: it resolves the packet's
// probe-point id to a configured probe and enqueues the payload, or drops
// it and counts the drop if unmapped.
func (w *extractionWorker) dispatch(probePointID uint32, payload []byte) {
	point := wire.UnpackProbePointID(probePointID)
	id, ok := w.svc.probePointMap[point]
	if !ok {
		w.svc.observer.ObserveDrop(probePointID)
		return
	}
	q, ok := w.svc.extractQueues[id]
	if !ok {
		w.svc.observer.ObserveDrop(probePointID)
		return
	}
	payloadCopy := append([]byte(nil), payload...)
	q.Write(payloadCopy)
}

func (w *extractionWorker) closeQueues(cause error) {
	if cause != nil {
		w.svc.logger.Errorf("extraction worker exiting: %v", cause)
	}
	for _, q := range w.svc.extractQueues {
		q.Close()
	}
}
