// Package driver models the narrow ioctl/read/write boundary to the
// kernel driver fronting the DSP firmware: a capability set that a real
// Linux binding and a Mock both satisfy, so the probe core is generic
// over the chosen implementation.
package driver

import "github.com/intel/cavs-debug-agent/internal/wire"

// ProbeState mirrors the four states the driver itself tracks, reported
// back on GetProbeState so the core can detect a cached/driver mismatch.
type ProbeState int

const (
	Idle ProbeState = iota
	Owned
	Allocated
	Active
)

func (s ProbeState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Owned:
		return "Owned"
	case Allocated:
		return "Allocated"
	case Active:
		return "Active"
	default:
		return "Unknown"
	}
}

// ProbePurpose is the driver-facing encoding of what an endpoint is
// programmed to do.
type ProbePurpose uint8

const (
	PurposeExtract ProbePurpose = iota
	PurposeInject
	PurposeInjectReextract
)

// EndpointConnection is one slot of the probe-point configuration pushed
// to the driver on Owned->Allocated.
type EndpointConnection struct {
	Enabled bool
	Point   wire.ProbePointID
	Purpose ProbePurpose
}

// ProbeConfig is the full N-sized endpoint configuration the driver
// programs into the firmware.
type ProbeConfig struct {
	Endpoints []EndpointConnection
}

// RingBufferView is the shared-memory region for one ring buffer
// direction: a byte-addressable window the core reads or writes within,
// plus its declared size.
type RingBufferView struct {
	Base []byte
	Size uint64
}

// RingBuffers is the full set of ring-buffer views the driver hands back
// once the session transitions to Active: one extraction buffer, and one
// injection buffer per probe id.
type RingBuffers struct {
	Extraction RingBufferView
	Injection  []RingBufferView
}

// ModuleInstanceProps is the subset of firmware-reported module instance
// properties the probe core needs to compute sample_byte_size.
type ModuleInstanceProps struct {
	ValidBitDepth uint8
	ChannelCount  uint8
}
