package modulehandler

// ModuleHandler is the C9 capability set the probe core and the topology
// views depend on. Handler implements it over a real driver.Driver;
// MockHandler implements it directly for tests that don't want to drive a
// driver.Mock through the large-config-access wire format.
type ModuleHandler interface {
	GetModuleInstanceProps(moduleID uint16, instanceID uint8) (ModuleInstanceProps, error)
	GetModuleEntries() ([]ModuleEntry, error)
	GetFwConfig() (FwConfig, error)
	GetHwConfig() (HwConfig, error)
	GetPipelineIDs() ([]uint32, error)
	GetPipelineProps(id uint32) (PplProps, error)
	GetSchedulersInfo(core uint32) (SchedulersInfo, error)
	GetGateways() ([]GatewayProps, error)
}

var _ ModuleHandler = (*Handler)(nil)
