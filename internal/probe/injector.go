package probe

import (
	"sync"

	"github.com/intel/cavs-debug-agent/internal/agenterr"
	"github.com/intel/cavs-debug-agent/internal/driver"
	"github.com/intel/cavs-debug-agent/internal/pqueue"
	"github.com/intel/cavs-debug-agent/internal/ringbuf"
)

// injectionWorker is C5: one goroutine per enabled injection endpoint.
// It paces bytes pulled from the endpoint's queue into the injection
// ring buffer, rounding the writable window down to a whole number of
// samples and padding with silence when the queue underflows.
type injectionWorker struct {
	svc            *Service
	id             Id
	writer         *ringbuf.Writer
	queue          *pqueue.ByteQueue
	event          *driver.EventHandle
	sampleByteSize int
	shutdown       chan struct{}
	stopOnce       sync.Once
}

func newInjectionWorker(svc *Service, id Id, view driver.RingBufferView, event *driver.EventHandle, sampleByteSize int) *injectionWorker {
	w := &injectionWorker{
		svc:            svc,
		id:             id,
		event:          event,
		sampleByteSize: sampleByteSize,
		shutdown:       make(chan struct{}),
	}
	w.queue = svc.injectQueues[id]
	w.writer = ringbuf.NewWriter(view.Base, view.Size, func() uint64 {
		pos, err := svc.drv.GetInjectionConsumerPos(int(id))
		if err != nil {
			svc.logger.Warnf("injection[%d]: failed to query consumer position: %v", id, err)
			return 0
		}
		return pos
	})
	return w
}

func (w *injectionWorker) stop() {
	w.stopOnce.Do(func() { close(w.shutdown) })
}

func (w *injectionWorker) run() {
	for {
		select {
		case <-w.shutdown:
			return
		case <-w.event.C():
		}

		exit, err := w.iterate()
		if err != nil {
			w.svc.observer.ObserveRingFault(int(w.id), "injection")
			w.svc.logger.Errorf("injection[%d] worker exiting: %v", w.id, err)
			return
		}
		if exit {
			return
		}
	}
}

// iterate computes the writable window, pulls bytes from the queue
// (padding the remainder with silence), and writes the assembled block.
// Returns exit=true when the queue is closed and empty.
func (w *injectionWorker) iterate() (exit bool, err error) {
	if w.sampleByteSize <= 0 {
		return false, agenterr.NewForProbe("injection", int(w.id), agenterr.CodeValidationError, "sample_byte_size must be positive")
	}

	free, err := w.writer.FreeSpace()
	if err != nil {
		return false, err
	}
	free -= free % uint64(w.sampleByteSize)
	if free == 0 {
		return false, nil
	}

	chunk, ok := w.queue.TryRead(int(free))
	if !ok {
		return true, nil
	}

	block := make([]byte, free)
	n := copy(block, chunk)
	padded := int(free) - n
	// Remaining bytes default to zero (silence).

	written, err := w.writer.Write(block)
	if err != nil {
		return false, err
	}
	realBytes := written - padded
	if realBytes < 0 {
		realBytes = 0
	}
	w.svc.observer.ObserveInject(int(w.id), realBytes, padded)
	return false, nil
}
