package driver

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/intel/cavs-debug-agent/internal/agenterr"
)

// ioctlExpectation is one entry in the Mock's (expected_in, returned_out,
// returned_status) queue for IOControl.
type ioctlExpectation struct {
	code     uint32
	wantIn   []byte
	givenOut []byte
	err      error
}

// Mock is a fully in-memory Driver for tests. IOControl calls are checked
// against an ordered queue of expectations — any deviation fails with the
// exact index and expected-vs-actual diff. The higher-level typed
// operations (probe state/config, ring buffers, positions) are plain
// settable/gettable fields so probe-core tests can drive them directly
// without round-tripping through raw ioctl buffers.
type Mock struct {
	mu sync.Mutex

	ioctlExpectations []ioctlExpectation
	ioctlCalls        int

	probeState    ProbeState
	probeStateErr error

	probeConfig    ProbeConfig
	probeConfigErr error

	ringBuffers    RingBuffers
	ringBuffersErr error

	extractionPos    uint64
	extractionPosErr error

	injectionPos    map[int]uint64
	injectionPosErr error

	moduleProps    map[[2]int]ModuleInstanceProps
	modulePropsErr error

	eventHandlesErr error
	closed          bool

	// call counts, for white-box assertions
	getProbeStateCalls  int
	setProbeStateCalls  int
	getProbeConfigCalls int
	setProbeConfigCalls int
}

// NewMock creates an empty Mock; tests populate state via the exported
// setters below before exercising the code under test.
func NewMock() *Mock {
	return &Mock{
		injectionPos: make(map[int]uint64),
		moduleProps:  make(map[[2]int]ModuleInstanceProps),
	}
}

// ExpectIOControl enqueues one (expected_in, returned_out, returned_err)
// tuple. A nil wantIn skips the input comparison.
func (m *Mock) ExpectIOControl(code uint32, wantIn, givenOut []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ioctlExpectations = append(m.ioctlExpectations, ioctlExpectation{code, wantIn, givenOut, err})
}

func (m *Mock) IOControl(code uint32, in []byte, out []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.ioctlCalls
	m.ioctlCalls++

	if idx >= len(m.ioctlExpectations) {
		return agenterr.New("io_control", agenterr.CodeDriverError,
			fmt.Sprintf("unexpected IOControl call #%d (code=%d): no expectation queued", idx, code))
	}
	exp := m.ioctlExpectations[idx]

	if exp.code != code {
		return agenterr.New("io_control", agenterr.CodeDriverError,
			fmt.Sprintf("call #%d: code mismatch: want %d, got %d", idx, exp.code, code))
	}
	if exp.wantIn != nil && !reflect.DeepEqual(exp.wantIn, in) {
		return agenterr.New("io_control", agenterr.CodeDriverError,
			fmt.Sprintf("call #%d: in-buffer mismatch: want %x, got %x", idx, exp.wantIn, in))
	}
	if exp.err != nil {
		return exp.err
	}
	copy(out, exp.givenOut)
	return nil
}

func (m *Mock) SetProbeStateValue(s ProbeState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probeState = s
}

func (m *Mock) SetProbeStateErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probeStateErr = err
}

func (m *Mock) GetProbeState() (ProbeState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getProbeStateCalls++
	if m.probeStateErr != nil {
		return 0, m.probeStateErr
	}
	return m.probeState, nil
}

func (m *Mock) SetProbeState(s ProbeState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setProbeStateCalls++
	if m.probeStateErr != nil {
		return m.probeStateErr
	}
	m.probeState = s
	return nil
}

func (m *Mock) SetProbeConfigErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probeConfigErr = err
}

func (m *Mock) GetProbeConfig() (ProbeConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getProbeConfigCalls++
	if m.probeConfigErr != nil {
		return ProbeConfig{}, m.probeConfigErr
	}
	return m.probeConfig, nil
}

func (m *Mock) SetProbeConfig(cfg ProbeConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setProbeConfigCalls++
	if m.probeConfigErr != nil {
		return m.probeConfigErr
	}
	m.probeConfig = cfg
	return nil
}

func (m *Mock) SetRingBuffers(rb RingBuffers) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ringBuffers = rb
}

func (m *Mock) SetRingBuffersErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ringBuffersErr = err
}

func (m *Mock) GetRingBuffers() (RingBuffers, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ringBuffersErr != nil {
		return RingBuffers{}, m.ringBuffersErr
	}
	return m.ringBuffers, nil
}

func (m *Mock) SetExtractionProducerPos(pos uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extractionPos = pos
}

func (m *Mock) GetExtractionProducerPos() (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.extractionPosErr != nil {
		return 0, m.extractionPosErr
	}
	return m.extractionPos, nil
}

func (m *Mock) SetInjectionConsumerPos(probeID int, pos uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.injectionPos[probeID] = pos
}

func (m *Mock) GetInjectionConsumerPos(probeID int) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.injectionPosErr != nil {
		return 0, m.injectionPosErr
	}
	return m.injectionPos[probeID], nil
}

func (m *Mock) NewEventHandles(n int) ([]*EventHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.eventHandlesErr != nil {
		return nil, m.eventHandlesErr
	}
	handles := make([]*EventHandle, n)
	for i := range handles {
		handles[i] = NewEventHandle()
	}
	return handles, nil
}

func (m *Mock) SetModuleInstanceProps(moduleID uint16, instanceID uint8, props ModuleInstanceProps) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.moduleProps[[2]int{int(moduleID), int(instanceID)}] = props
}

func (m *Mock) GetModuleInstanceProps(moduleID uint16, instanceID uint8) (ModuleInstanceProps, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.modulePropsErr != nil {
		return ModuleInstanceProps{}, m.modulePropsErr
	}
	props, ok := m.moduleProps[[2]int{int(moduleID), int(instanceID)}]
	if !ok {
		return ModuleInstanceProps{}, agenterr.New("get_module_instance_props", agenterr.CodeFirmwareError,
			fmt.Sprintf("no module instance (%d,%d) registered on mock", moduleID, instanceID))
	}
	return props, nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// CallCounts returns how many times each typed operation has been invoked,
// for white-box assertions in tests.
func (m *Mock) CallCounts() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]int{
		"get_probe_state":  m.getProbeStateCalls,
		"set_probe_state":  m.setProbeStateCalls,
		"get_probe_config": m.getProbeConfigCalls,
		"set_probe_config": m.setProbeConfigCalls,
		"io_control":       m.ioctlCalls,
	}
}

var _ Driver = (*Mock)(nil)
