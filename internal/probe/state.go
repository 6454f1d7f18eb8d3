package probe

import (
	"fmt"

	"github.com/intel/cavs-debug-agent/internal/agenterr"
	"github.com/intel/cavs-debug-agent/internal/driver"
	"github.com/intel/cavs-debug-agent/internal/pqueue"
	"github.com/intel/cavs-debug-agent/internal/wire"
)

// checkConsistency compares the driver's reported state to the cached
// one, reporting an inconsistency error without performing a transition.
// Caller must hold s.mu.
func (s *Service) checkConsistency() (ServiceState, error) {
	driverState, err := s.drv.GetProbeState()
	if err != nil {
		return s.state, agenterr.Wrap("get_state", err)
	}
	if ServiceState(driverState) != s.state {
		return s.state, agenterr.New("get_state", agenterr.CodeInconsistentState,
			fmt.Sprintf("cached state %s disagrees with driver-reported state %s", s.state, ServiceState(driverState)))
	}
	return s.state, nil
}

// SetState drives the C6 state machine toward target. Forward transitions
// must be a single step; requesting a state behind the current one walks
// stepwise through every intermediate state automatically.
func (s *Service) SetState(target ServiceState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if target == s.state {
		return agenterr.New("set_state", agenterr.CodeIllegalTransition, "already in requested state")
	}

	if target > s.state {
		if target-s.state != 1 {
			return agenterr.New("set_state", agenterr.CodeIllegalTransition,
				fmt.Sprintf("cannot skip from %s directly to %s", s.state, target))
		}
		return s.stepForward(target)
	}

	for s.state > target {
		next := s.state - 1
		if err := s.stepBackward(next); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) stepForward(next ServiceState) error {
	switch {
	case s.state == StateIdle && next == StateOwned:
		return s.enterOwned()
	case s.state == StateOwned && next == StateAllocated:
		return s.enterAllocated()
	case s.state == StateAllocated && next == StateActive:
		return s.enterActive()
	default:
		return agenterr.New("set_state", agenterr.CodeIllegalTransition,
			fmt.Sprintf("no forward transition %s -> %s", s.state, next))
	}
}

func (s *Service) stepBackward(next ServiceState) error {
	switch {
	case s.state == StateActive && next == StateAllocated:
		s.leaveActive()
	case s.state == StateAllocated && next == StateOwned:
		s.leaveAllocated()
	case s.state == StateOwned && next == StateIdle:
		s.leaveOwned()
	default:
		return agenterr.New("set_state", agenterr.CodeIllegalTransition,
			fmt.Sprintf("no backward transition %s -> %s", s.state, next))
	}
	s.state = next
	return nil
}

// enterOwned snapshots the current endpoint config cache into a new
// Session.
func (s *Service) enterOwned() error {
	session := &Session{
		Endpoints:      append([]EndpointConfig(nil), s.endpoints...),
		SampleByteSize: make(map[Id]int),
	}
	s.session = session
	s.state = StateOwned
	return nil
}

// enterAllocated pushes the cached configuration to the driver. On
// failure it rolls back through Owned to Idle, per §4.6, and surfaces the
// original error.
func (s *Service) enterAllocated() error {
	cfg := driver.ProbeConfig{Endpoints: make([]driver.EndpointConnection, len(s.session.Endpoints))}
	for i, ep := range s.session.Endpoints {
		cfg.Endpoints[i] = driver.EndpointConnection{
			Enabled: ep.Enabled,
			Point:   ep.Point,
			Purpose: driver.ProbePurpose(ep.Purpose),
		}
	}

	if err := s.drv.SetProbeConfig(cfg); err != nil {
		wrapped := agenterr.Wrap("set_state", err)
		s.leaveAllocated()
		s.leaveOwned()
		s.state = StateIdle
		return wrapped
	}
	s.state = StateAllocated
	return nil
}

// enterActive fetches ring-buffer views, resolves sample_byte_size for
// every enabled injection endpoint, validates extraction-endpoint
// probe-point uniqueness, builds the probe-point map, and launches C4/C5.
func (s *Service) enterActive() error {
	if err := s.validateExtractionUniqueness(); err != nil {
		return err
	}

	rb, err := s.drv.GetRingBuffers()
	if err != nil {
		return agenterr.Wrap("set_state", err)
	}

	for id, ep := range s.session.Endpoints {
		if !ep.Enabled || ep.Purpose == PurposeExtract {
			continue
		}
		size, err := s.resolveSampleByteSize(ep.Point)
		if err != nil {
			return err
		}
		s.session.SampleByteSize[Id(id)] = size
	}

	s.probePointMap = buildProbePointMap(s.session.Endpoints)
	s.extractQueues = make(map[Id]*pqueue.BufferQueue)
	s.injectQueues = make(map[Id]*pqueue.ByteQueue)

	for id, ep := range s.session.Endpoints {
		if !ep.Enabled {
			continue
		}
		if ep.Purpose == PurposeExtract {
			q := pqueue.NewBufferQueue(defaultQueueBytesBound)
			q.Open()
			s.extractQueues[Id(id)] = q
		} else {
			q := pqueue.NewByteQueue(defaultQueueBytesBound)
			q.Open()
			s.injectQueues[Id(id)] = q
		}
	}

	events, err := s.drv.NewEventHandles(len(s.session.Endpoints) + 1)
	if err != nil {
		return agenterr.Wrap("set_state", err)
	}
	extractEvent := events[0]

	s.extractor = newExtractionWorker(s, rb.Extraction, extractEvent)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.extractor.run()
	}()

	s.injectors = nil
	for id, ep := range s.session.Endpoints {
		if !ep.Enabled || ep.Purpose == PurposeExtract {
			continue
		}
		var view driver.RingBufferView
		if id < len(rb.Injection) {
			view = rb.Injection[id]
		}
		w := newInjectionWorker(s, Id(id), view, events[id+1], s.session.SampleByteSize[Id(id)])
		s.injectors = append(s.injectors, w)
		s.wg.Add(1)
		go func(w *injectionWorker) {
			defer s.wg.Done()
			w.run()
		}(w)
	}

	s.state = StateActive
	return nil
}

// leaveActive signals shutdown to every worker, waits for them to exit,
// and closes all queues.
func (s *Service) leaveActive() {
	if s.extractor != nil {
		s.extractor.stop()
	}
	for _, w := range s.injectors {
		w.stop()
	}
	// Workers never call back into Service, so waiting for them to exit
	// while holding s.mu cannot deadlock.
	s.wg.Wait()

	for _, q := range s.extractQueues {
		q.Close()
	}
	for _, q := range s.injectQueues {
		q.Close()
	}
	s.extractor = nil
	s.injectors = nil
}

// leaveAllocated discards the probe-point map and the per-probe queues
// built on entering Active (no-op if they were never built).
func (s *Service) leaveAllocated() {
	s.probePointMap = nil
	s.extractQueues = nil
	s.injectQueues = nil
}

// leaveOwned destroys the Session.
func (s *Service) leaveOwned() {
	s.session = nil
}

func (s *Service) validateExtractionUniqueness() error {
	seen := make(map[wire.ProbePointID]bool)
	for _, ep := range s.session.Endpoints {
		if !ep.Enabled || ep.Purpose != PurposeExtract {
			continue
		}
		if seen[ep.Point] {
			return agenterr.New("set_state", agenterr.CodeValidationError,
				fmt.Sprintf("duplicate extraction probe-point id %s", ep.Point))
		}
		seen[ep.Point] = true
	}
	return nil
}

func buildProbePointMap(endpoints []EndpointConfig) map[wire.ProbePointID]Id {
	m := make(map[wire.ProbePointID]Id)
	for id, ep := range endpoints {
		if ep.Enabled && ep.Purpose == PurposeExtract {
			m[ep.Point] = Id(id)
		}
	}
	return m
}

// resolveSampleByteSize computes (valid_bit_depth/8) * channel_count for
// the injection endpoint's input pin, per §4.9/§9's invariant. Fails the
// start if valid_bit_depth is not a whole number of bytes.
func (s *Service) resolveSampleByteSize(point wire.ProbePointID) (int, error) {
	props, err := s.modules.GetModuleInstanceProps(point.ModuleID, point.InstanceID)
	if err != nil {
		return 0, agenterr.Wrap("set_state", err)
	}
	if props.ValidBitDepth%8 != 0 {
		return 0, agenterr.New("set_state", agenterr.CodeValidationError,
			fmt.Sprintf("module instance (%d,%d) reports non-byte-aligned bit depth %d", point.ModuleID, point.InstanceID, props.ValidBitDepth))
	}
	return int(props.ValidBitDepth/8) * int(props.ChannelCount), nil
}

// defaultQueueBytesBound is the per-probe queue capacity: spec.md §4.2
// describes "a few MB or a few hundred buffers" as typical; this repo
// uses a flat byte bound for both queue variants.
const defaultQueueBytesBound = 4 * 1024 * 1024
