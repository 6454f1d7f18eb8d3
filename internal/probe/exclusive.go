package probe

import (
	"fmt"
	"sync"

	"github.com/intel/cavs-debug-agent/internal/agenterr"
)

// exclusiveGuard is a pair of try-lockable mutexes per probe id — one for
// the extraction-side stream, one for injection — so at most one HTTP
// handler can hold each direction's stream at a time. Guards release on
// every path out of the holder's scope, including a panic, since callers
// always pair Acquire with a deferred Release.
type exclusiveGuard struct {
	extract sync.Mutex
	inject  sync.Mutex
}

// exclusiveSet owns one exclusiveGuard per configured probe id.
type exclusiveSet struct {
	mu     sync.Mutex
	guards map[Id]*exclusiveGuard
}

func newExclusiveSet() *exclusiveSet {
	return &exclusiveSet{guards: make(map[Id]*exclusiveGuard)}
}

func (s *exclusiveSet) guardFor(id Id) *exclusiveGuard {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.guards[id]
	if !ok {
		g = &exclusiveGuard{}
		s.guards[id] = g
	}
	return g
}

// StreamHold is the guard returned by AcquireExtractStream/AcquireInjectStream.
// Release must be called exactly once, typically via defer, to free the
// exclusive hold.
type StreamHold struct {
	mu       *sync.Mutex
	released bool
}

// Release frees the exclusive hold. Safe to call more than once.
func (h *StreamHold) Release() {
	if h == nil || h.released {
		return
	}
	h.released = true
	h.mu.Unlock()
}

func tryAcquire(id Id, mu *sync.Mutex, op string) (*StreamHold, error) {
	if !mu.TryLock() {
		return nil, agenterr.NewForProbe(op, int(id), agenterr.CodeResourceBusy,
			fmt.Sprintf("probe %d stream already held", id))
	}
	return &StreamHold{mu: mu}, nil
}
