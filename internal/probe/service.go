package probe

import (
	"sync"

	"github.com/intel/cavs-debug-agent/internal/agenterr"
	"github.com/intel/cavs-debug-agent/internal/driver"
	"github.com/intel/cavs-debug-agent/internal/logging"
	"github.com/intel/cavs-debug-agent/internal/metrics"
	"github.com/intel/cavs-debug-agent/internal/modulehandler"
	"github.com/intel/cavs-debug-agent/internal/pqueue"
	"github.com/intel/cavs-debug-agent/internal/wire"
)

// Service is the probe service façade (C7): it owns the Session, the
// endpoint config cache, the extraction/injection workers, and the
// per-probe queues, and enforces the C6 state machine on every
// transition.
type Service struct {
	mu sync.Mutex

	n        int
	drv      driver.Driver
	modules  modulehandler.ModuleHandler
	logger   *logging.Logger
	observer metrics.Observer

	state     ServiceState
	session   *Session
	endpoints []EndpointConfig // cached slot config, mutable in Idle

	probePointMap map[wire.ProbePointID]Id
	extractQueues map[Id]*pqueue.BufferQueue
	injectQueues  map[Id]*pqueue.ByteQueue

	exclusive *exclusiveSet

	extractor *extractionWorker
	injectors []*injectionWorker
	wg        sync.WaitGroup
}

// New creates an idle Service managing n probe endpoint slots.
func New(n int, drv driver.Driver, modules modulehandler.ModuleHandler, observer metrics.Observer, logger *logging.Logger) *Service {
	if observer == nil {
		observer = metrics.NoOpObserver{}
	}
	if logger == nil {
		logger = logging.Default()
	}
	endpoints := make([]EndpointConfig, n)
	return &Service{
		n:         n,
		drv:       drv,
		modules:   modules,
		logger:    logger.With("probe"),
		observer:  observer,
		state:     StateIdle,
		endpoints: endpoints,
		exclusive: newExclusiveSet(),
	}
}

func (s *Service) validID(id Id) bool {
	return id >= 0 && int(id) < s.n
}

// GetEndpoint returns the cached configuration for id.
func (s *Service) GetEndpoint(id Id) (EndpointConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validID(id) {
		return EndpointConfig{}, agenterr.NewForProbe("get_endpoint", int(id), agenterr.CodeValidationError, "invalid probe id")
	}
	return s.endpoints[id], nil
}

// SetEndpoint updates the cached configuration for id. Only legal while
// the service is Idle.
func (s *Service) SetEndpoint(id Id, cfg EndpointConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validID(id) {
		return agenterr.NewForProbe("set_endpoint", int(id), agenterr.CodeValidationError, "invalid probe id")
	}
	if s.state != StateIdle {
		return agenterr.NewForProbe("set_endpoint", int(id), agenterr.CodeIllegalTransition, "endpoint config can only change while Idle")
	}
	s.endpoints[id] = cfg
	return nil
}

// GetState returns the cached service state, first checking that the
// driver's own reported state agrees.
func (s *Service) GetState() (ServiceState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkConsistency()
}
