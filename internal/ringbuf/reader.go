// Package ringbuf provides bounds-checked access to the shared-memory
// circular buffers whose opposite end is owned by the driver: a Reader for
// the extraction direction, a Writer for the injection direction.
package ringbuf

import (
	"fmt"

	"github.com/intel/cavs-debug-agent/internal/agenterr"
)

// ProducerPositionFunc returns the driver's current producer linear
// position. It must be monotonically increasing.
type ProducerPositionFunc func() uint64

// Reader abstracts the extraction-direction ring buffer: it can only ever
// read bytes the driver has already produced, bounds-checking against the
// driver's reported producer position.
//
// Class invariant in steady state: producerPos >= consumerPos (no
// underflow) and producerPos - consumerPos <= size (no overflow). Either
// violation is fatal and surfaces as a RingBufferFault.
type Reader struct {
	base        []byte
	size        uint64
	getProducer ProducerPositionFunc
	consumerPos uint64
}

// NewReader constructs a Reader over base, which must have len(base) ==
// size. getProducer is invoked once per ReadAvailable call.
func NewReader(base []byte, size uint64, getProducer ProducerPositionFunc) *Reader {
	return &Reader{base: base, size: size, getProducer: getProducer}
}

// Size returns the ring buffer's capacity in bytes.
func (r *Reader) Size() uint64 { return r.size }

// ConsumerPosition returns the reader's current linear consumer position.
func (r *Reader) ConsumerPosition() uint64 { return r.consumerPos }

// ReadAvailable queries the producer position once, and appends whatever
// bytes have become available since the last call to out. It never
// shrinks out and never partially appends on failure.
func (r *Reader) ReadAvailable(out []byte) ([]byte, error) {
	producerPos := r.getProducer()
	if producerPos < r.consumerPos {
		return out, agenterr.New("read_available", agenterr.CodeRingBufferFault,
			fmt.Sprintf("driver returned a non-monotonic producer position: %d < %d", producerPos, r.consumerPos))
	}

	available := producerPos - r.consumerPos
	if available == 0 {
		return out, nil
	}
	if available > r.size {
		return out, agenterr.New("read_available", agenterr.CodeRingBufferFault,
			fmt.Sprintf("producer has written over consumer position: available=%d size=%d", available, r.size))
	}

	out = r.unsafeCopy(available, out)
	r.consumerPos += available
	return out, nil
}

// unsafeCopy appends `size` bytes starting at the current consumer offset,
// performing at most two copies when the read wraps past the end of base.
func (r *Reader) unsafeCopy(size uint64, out []byte) []byte {
	consumerOff := r.consumerPos % r.size
	if size <= r.size-consumerOff {
		return append(out, r.base[consumerOff:consumerOff+size]...)
	}
	out = append(out, r.base[consumerOff:r.size]...)
	residual := size - (r.size - consumerOff)
	return append(out, r.base[0:residual]...)
}
