// Package pqueue provides the blocking bounded queue that hands bytes off
// between a probe worker (producer or consumer) and the HTTP handler on the
// other side of a stream.
package pqueue

import "sync"

// State is the lifecycle state of a queue.
type State int

const (
	Open State = iota
	Closed
)

// core holds the open/closed lifecycle and wakeup machinery shared by
// BufferQueue and ByteQueue. Both variants are otherwise independent FIFOs;
// only Open/Close/blocking semantics are common.
type core struct {
	mu       sync.Mutex
	notEmpty sync.Cond
	notFull  sync.Cond
	state    State
	maxBytes int
	curBytes int
}

func newCore(maxBytes int) *core {
	c := &core{state: Open, maxBytes: maxBytes}
	c.notEmpty = *sync.NewCond(&c.mu)
	c.notFull = *sync.NewCond(&c.mu)
	return c
}

// Open reopens a closed queue, discarding nothing already buffered.
// Reopen is permitted per the exactly-once-close contract: a queue may be
// closed once, then reopened for a new session.
func (c *core) open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Open
	c.notEmpty.Broadcast()
	c.notFull.Broadcast()
}

// close transitions to Closed exactly once, waking every blocked reader and
// writer so they can observe it.
func (c *core) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Closed {
		return
	}
	c.state = Closed
	c.notEmpty.Broadcast()
	c.notFull.Broadcast()
}

func (c *core) isOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Open
}
