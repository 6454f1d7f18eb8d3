package ringbuf

import (
	"fmt"

	"github.com/intel/cavs-debug-agent/internal/agenterr"
)

// ConsumerPositionFunc returns the driver's current consumer linear
// position for the injection ring buffer.
type ConsumerPositionFunc func() uint64

// Writer abstracts the injection-direction ring buffer: it only ever
// writes bytes, bounds-checking against the driver's reported consumer
// position so it never overwrites bytes the driver hasn't consumed yet.
type Writer struct {
	base        []byte
	size        uint64
	getConsumer ConsumerPositionFunc
	producerPos uint64
}

// NewWriter constructs a Writer over base, which must have len(base) ==
// size.
func NewWriter(base []byte, size uint64, getConsumer ConsumerPositionFunc) *Writer {
	return &Writer{base: base, size: size, getConsumer: getConsumer}
}

func (w *Writer) Size() uint64 { return w.size }

// ProducerPosition returns the writer's current linear producer position.
func (w *Writer) ProducerPosition() uint64 { return w.producerPos }

// FreeSpace returns how many bytes can currently be written without
// passing the driver's consumer position.
func (w *Writer) FreeSpace() (uint64, error) {
	consumerPos := w.getConsumer()
	if consumerPos > w.producerPos {
		return 0, agenterr.New("write", agenterr.CodeRingBufferFault,
			fmt.Sprintf("driver consumer position ahead of producer: %d > %d", consumerPos, w.producerPos))
	}
	used := w.producerPos - consumerPos
	if used > w.size {
		return 0, agenterr.New("write", agenterr.CodeRingBufferFault,
			fmt.Sprintf("consumer has fallen behind by more than the ring size: used=%d size=%d", used, w.size))
	}
	return w.size - used, nil
}

// Write copies up to len(data) bytes into the ring, never writing past
// consumer+size. If fewer free bytes are available than len(data), the
// remainder is silently dropped — the caller (the injection worker) has
// already decided how much to offer based on sample-size rounding.
func (w *Writer) Write(data []byte) (int, error) {
	free, err := w.FreeSpace()
	if err != nil {
		return 0, err
	}

	n := uint64(len(data))
	if n > free {
		n = free
	}
	if n == 0 {
		return 0, nil
	}

	w.unsafeCopy(data[:n])
	w.producerPos += n
	return int(n), nil
}

func (w *Writer) unsafeCopy(data []byte) {
	producerOff := w.producerPos % w.size
	size := uint64(len(data))
	if size <= w.size-producerOff {
		copy(w.base[producerOff:producerOff+size], data)
		return
	}
	firstLen := w.size - producerOff
	copy(w.base[producerOff:w.size], data[:firstLen])
	copy(w.base[0:size-firstLen], data[firstLen:])
}
