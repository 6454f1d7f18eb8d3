package modulehandler

import "fmt"

// MockHandler is a directly-settable ModuleHandler for tests that need
// module/pipeline/gateway data without round-tripping through a
// driver.Mock's large-config-access wire format.
type MockHandler struct {
	InstanceProps map[[2]int]ModuleInstanceProps
	Entries       []ModuleEntry
	Fw            FwConfig
	Hw            HwConfig
	PipelineIDs   []uint32
	Pipelines     map[uint32]PplProps
	Schedulers    map[uint32]SchedulersInfo
	Gateways      []GatewayProps

	Err error // if set, every call returns this error
}

// NewMockHandler returns an empty MockHandler ready for tests to populate.
func NewMockHandler() *MockHandler {
	return &MockHandler{
		InstanceProps: make(map[[2]int]ModuleInstanceProps),
		Pipelines:     make(map[uint32]PplProps),
		Schedulers:    make(map[uint32]SchedulersInfo),
	}
}

func (m *MockHandler) GetModuleInstanceProps(moduleID uint16, instanceID uint8) (ModuleInstanceProps, error) {
	if m.Err != nil {
		return ModuleInstanceProps{}, m.Err
	}
	props, ok := m.InstanceProps[[2]int{int(moduleID), int(instanceID)}]
	if !ok {
		return ModuleInstanceProps{}, fmt.Errorf("modulehandler: no module instance (%d,%d) registered on mock", moduleID, instanceID)
	}
	return props, nil
}

func (m *MockHandler) GetModuleEntries() ([]ModuleEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Entries, nil
}

func (m *MockHandler) GetFwConfig() (FwConfig, error) {
	if m.Err != nil {
		return FwConfig{}, m.Err
	}
	return m.Fw, nil
}

func (m *MockHandler) GetHwConfig() (HwConfig, error) {
	if m.Err != nil {
		return HwConfig{}, m.Err
	}
	return m.Hw, nil
}

func (m *MockHandler) GetPipelineIDs() ([]uint32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.PipelineIDs, nil
}

func (m *MockHandler) GetPipelineProps(id uint32) (PplProps, error) {
	if m.Err != nil {
		return PplProps{}, m.Err
	}
	props, ok := m.Pipelines[id]
	if !ok {
		return PplProps{}, fmt.Errorf("modulehandler: no pipeline %d registered on mock", id)
	}
	return props, nil
}

func (m *MockHandler) GetSchedulersInfo(core uint32) (SchedulersInfo, error) {
	if m.Err != nil {
		return SchedulersInfo{}, m.Err
	}
	return m.Schedulers[core], nil
}

func (m *MockHandler) GetGateways() ([]GatewayProps, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Gateways, nil
}

var _ ModuleHandler = (*MockHandler)(nil)
