package driver

// Driver is the capability set the probe core and the module handler are
// generic over. Every call must be expressible as "expect the following
// in-buffer; return the following out-buffer and status" so that a Mock
// can stand in for the real binding in tests.
type Driver interface {
	// IOControl is the synchronous request/response primitive everything
	// else is built from. code selects the operation; in is the request
	// body, out is filled with the reply body (truncated/grown by the
	// caller as needed). Returns an error classified by agenterr.
	IOControl(code uint32, in []byte, out []byte) error

	GetProbeState() (ProbeState, error)
	SetProbeState(ProbeState) error

	GetProbeConfig() (ProbeConfig, error)
	SetProbeConfig(ProbeConfig) error

	GetRingBuffers() (RingBuffers, error)
	GetExtractionProducerPos() (uint64, error)
	GetInjectionConsumerPos(probeID int) (uint64, error)

	// NewEventHandles creates n event handles the driver will signal:
	// index 0 is the extraction event, indices 1..n-1 are per-probe
	// injection events in probe id order.
	NewEventHandles(n int) ([]*EventHandle, error)

	// GetModuleInstanceProps resolves (module_id, instance_id) to the
	// properties the module handler (C9) needs for sample_byte_size.
	GetModuleInstanceProps(moduleID uint16, instanceID uint8) (ModuleInstanceProps, error)

	Close() error
}
