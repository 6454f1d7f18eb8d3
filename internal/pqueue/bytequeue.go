package pqueue

// ByteQueue is a bounded FIFO of raw bytes with arbitrary chunking: writes
// and reads need not agree on chunk boundaries, and the bound is the total
// number of buffered bytes, not a count of entries. Used on the injection
// path, where the HTTP handler writes client bytes of whatever size arrive
// off the socket and C5 pulls whatever it needs to fill the driver's free
// space.
type ByteQueue struct {
	c   *core
	buf []byte
}

// NewByteQueue creates an Open queue bounded by maxBytes.
func NewByteQueue(maxBytes int) *ByteQueue {
	return &ByteQueue{c: newCore(maxBytes)}
}

func (q *ByteQueue) Open()  { q.c.open() }
func (q *ByteQueue) Close() { q.c.close() }

// Write appends chunk to the tail of the buffered bytes, same blocking
// contract as BufferQueue.Write.
func (q *ByteQueue) Write(chunk []byte) bool {
	q.c.mu.Lock()
	defer q.c.mu.Unlock()

	if q.c.state == Closed {
		return false
	}
	for len(q.buf)+len(chunk) > q.c.maxBytes && q.c.state == Open {
		q.c.notFull.Wait()
	}
	if q.c.state == Closed {
		return false
	}

	q.buf = append(q.buf, chunk...)
	q.c.notEmpty.Signal()
	return true
}

// Read blocks until at least one byte is buffered or the queue closes, and
// returns everything currently buffered (not a fixed chunk size — this is
// the "arbitrary chunking" half of the contract). Returns (nil, false) on
// an empty, Closed queue.
func (q *ByteQueue) Read() ([]byte, bool) {
	q.c.mu.Lock()
	defer q.c.mu.Unlock()

	for len(q.buf) == 0 && q.c.state == Open {
		q.c.notEmpty.Wait()
	}
	if len(q.buf) == 0 {
		return nil, false
	}

	chunk := q.buf
	q.buf = nil
	q.c.notFull.Signal()
	return chunk, true
}

// TryRead pulls up to maxLen bytes without blocking, for the injection
// worker's non-blocking pull (§4.5): it must never wait on the queue, only
// take whatever is already there and pad the rest with silence itself.
// Returns an empty, non-nil slice if nothing is buffered and the queue is
// still Open; returns ok=false only once the queue is Closed and drained.
func (q *ByteQueue) TryRead(maxLen int) (chunk []byte, ok bool) {
	q.c.mu.Lock()
	defer q.c.mu.Unlock()

	if len(q.buf) == 0 {
		if q.c.state == Closed {
			return nil, false
		}
		return []byte{}, true
	}

	n := len(q.buf)
	if n > maxLen {
		n = maxLen
	}
	chunk = q.buf[:n]
	q.buf = q.buf[n:]
	q.c.notFull.Signal()
	return chunk, true
}
