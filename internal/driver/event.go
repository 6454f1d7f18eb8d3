package driver

// EventHandle is a Go-channel stand-in for the OS event objects the real
// driver signals. The driver (or the Mock, in tests) calls Signal; C4/C5
// block on C() until it fires or their own shutdown flag does.
type EventHandle struct {
	signal chan struct{}
}

// NewEventHandle creates an unsignaled event handle.
func NewEventHandle() *EventHandle {
	return &EventHandle{signal: make(chan struct{}, 1)}
}

// Signal wakes one pending waiter. Signaling an already-pending handle is
// a no-op — workers only need to know "something happened since I last
// looked", not how many times.
func (e *EventHandle) Signal() {
	select {
	case e.signal <- struct{}{}:
	default:
	}
}

// C returns the channel a worker selects on to wait for this event.
func (e *EventHandle) C() <-chan struct{} {
	return e.signal
}
