// Package probe implements the Probe subsystem: the bidirectional,
// bounded, lossy-or-blocking streaming path between shared-memory ring
// buffers and client HTTP streams, the probe-service state machine, and
// the extraction/injection workers that drive it.
package probe

import "github.com/intel/cavs-debug-agent/internal/wire"

// Id names a probe endpoint slot: 0 <= Id < N, N the firmware-reported max
// (typically 8).
type Id int

// ServiceState is the probe service's state machine position.
type ServiceState int

const (
	StateIdle ServiceState = iota
	StateOwned
	StateAllocated
	StateActive
)

func (s ServiceState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateOwned:
		return "Owned"
	case StateAllocated:
		return "Allocated"
	case StateActive:
		return "Active"
	default:
		return "Unknown"
	}
}

// Purpose is what an endpoint is configured to do.
type Purpose int

const (
	PurposeExtract Purpose = iota
	PurposeInject
	PurposeInjectReextract
)

// EndpointConfig is one slot's configuration. When Enabled is false, Point
// and Purpose are ignored by the service but still preserved verbatim.
type EndpointConfig struct {
	Enabled bool
	Point   wire.ProbePointID
	Purpose Purpose
}

// Session is the N-sized ordered EndpointConfig sequence plus the
// per-probe sample_byte_size map for injection endpoints, populated when
// the service starts (Allocated -> Active).
type Session struct {
	Endpoints      []EndpointConfig
	SampleByteSize map[Id]int
}
