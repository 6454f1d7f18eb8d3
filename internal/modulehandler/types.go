// Package modulehandler is the typed RPC layer (C9) on top of the driver
// boundary (C10): every operation serializes a request header+body, issues
// one driver call, and deserializes the reply. A failed driver call keeps
// the code the driver gave it (an ioctl failure and a non-success driver
// status are both DriverError); a reply that cannot be decoded is a
// FirmwareError. No firmware-level status is read from the reply, so a
// firmware rejection is not reported as a distinct kind.
package modulehandler

// ModuleEntry describes one loaded module type, as reported by the
// firmware's module directory.
type ModuleEntry struct {
	ModuleID          uint16
	Name              string
	UUID              [16]byte
	StateFlags        uint32
	Type              uint32
	Hash              [20]byte
	EntryPoint        uint32
	CfgOffset         uint32
	CfgCount          uint32
	AffinityMask      uint32
	InstanceMaxCount  uint16
	InstanceStackSize uint32
}

// FwConfig is the firmware's global configuration block.
type FwConfig struct {
	FwVersion          string
	MemoryReclaimed    bool
	SlowClockFreqHz    uint32
	FastClockFreqHz    uint32
	DmaBufferConfig    []uint32
	AllocFlags         uint32
	GatewayCount       uint32
	ModulesCount       uint32
	MaxPplCount        uint32
	MaxAstateCount     uint32
	MaxModuleInstances uint32
	MaxMcpsCount       uint32
}

// HwConfig is the firmware's hardware capability block.
type HwConfig struct {
	CAvsVersion       uint32
	DspCoreCount      uint32
	MemPageSizeBytes  uint32
	TotalPhysMemPages uint32
	I2sCapsVersion    uint32
	GatewayCount      uint32
	EbbCount          uint32
}

// PplProps describes one pipeline instance.
type PplProps struct {
	ID               uint32
	Priority         uint32
	TotalMemoryBytes uint32
	UsedMemoryBytes  uint32
	ContextPages     uint32
	DPTasks          []uint32
	LLTasks          []uint32
	ModuleInstances  []uint32
}

// TaskProps describes one scheduler task.
type TaskProps struct {
	TaskID            uint32
	ModuleInstanceIDs []uint32
}

// SchedulerProps describes one scheduler on a core.
type SchedulerProps struct {
	CoreID           uint32
	ProcessingDomain uint32
	Tasks            []TaskProps
}

// SchedulersInfo is the per-core scheduler report.
type SchedulersInfo struct {
	CoreIndex  uint32
	Schedulers []SchedulerProps
}

// GatewayProps describes one DMA gateway.
type GatewayProps struct {
	TypeIndex  uint32
	TypeName   string
	InstanceID uint32
	Attribs    uint32
}

// ModuleInstanceProps is the subset of module instance properties the
// probe core needs to compute sample_byte_size: the bit depth and
// channel count of the module's input pin 0.
type ModuleInstanceProps struct {
	ValidBitDepth uint8
	ChannelCount  uint8
}
