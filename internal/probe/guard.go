package probe

import (
	"github.com/intel/cavs-debug-agent/internal/agenterr"
	"github.com/intel/cavs-debug-agent/internal/pqueue"
)

// ExtractStream is the guard returned by AcquireExtractStream. Release
// must be called exactly once (typically deferred) to free the
// exclusive hold; the HTTP handler's lifetime over this guard dictates
// how long a client can keep the extraction stream open.
type ExtractStream struct {
	hold  *StreamHold
	queue *pqueue.BufferQueue
}

// ReadChunk returns the next whole extracted payload, or ok=false once
// the stream is closed and drained.
func (s *ExtractStream) ReadChunk() (chunk []byte, ok bool) {
	return s.queue.Read()
}

// Release frees the exclusive hold on this probe's extraction stream.
func (s *ExtractStream) Release() {
	s.hold.Release()
}

// InjectStream is the guard returned by AcquireInjectStream.
type InjectStream struct {
	hold  *StreamHold
	queue *pqueue.ByteQueue
}

// WriteBytes pushes client bytes into the injection queue, blocking while
// full. Returns false if the queue is closed (the probe service has since
// left Active).
func (s *InjectStream) WriteBytes(chunk []byte) bool {
	return s.queue.Write(chunk)
}

// Release frees the exclusive hold on this probe's injection stream.
func (s *InjectStream) Release() {
	s.hold.Release()
}

// AcquireExtractStream returns an exclusive extraction stream guard for
// id. Fails if id is invalid, the service isn't Active, the endpoint
// isn't an enabled extraction endpoint, or the stream is already held.
func (s *Service) AcquireExtractStream(id Id) (*ExtractStream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.validID(id) {
		return nil, agenterr.NewForProbe("acquire_extract_stream", int(id), agenterr.CodeValidationError, "invalid probe id")
	}
	if s.state != StateActive {
		return nil, agenterr.NewForProbe("acquire_extract_stream", int(id), agenterr.CodeValidationError, "probe service is not Active")
	}
	q, ok := s.extractQueues[id]
	if !ok {
		return nil, agenterr.NewForProbe("acquire_extract_stream", int(id), agenterr.CodeValidationError, "probe is not an active extraction endpoint")
	}
	hold, err := tryAcquire(id, &s.exclusive.guardFor(id).extract, "acquire_extract_stream")
	if err != nil {
		return nil, err
	}
	return &ExtractStream{hold: hold, queue: q}, nil
}

// AcquireInjectStream returns an exclusive injection stream guard for id.
func (s *Service) AcquireInjectStream(id Id) (*InjectStream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.validID(id) {
		return nil, agenterr.NewForProbe("acquire_inject_stream", int(id), agenterr.CodeValidationError, "invalid probe id")
	}
	q, ok := s.injectQueues[id]
	if !ok {
		return nil, agenterr.NewForProbe("acquire_inject_stream", int(id), agenterr.CodeValidationError, "probe is not an active injection endpoint")
	}
	hold, err := tryAcquire(id, &s.exclusive.guardFor(id).inject, "acquire_inject_stream")
	if err != nil {
		return nil, err
	}
	return &InjectStream{hold: hold, queue: q}, nil
}
