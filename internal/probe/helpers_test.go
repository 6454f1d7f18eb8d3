package probe

import "github.com/intel/cavs-debug-agent/internal/wire"

func exampleProbePoint(moduleID uint16, index uint8) wire.ProbePointID {
	return wire.ProbePointID{ModuleID: moduleID, InstanceID: 0, Type: wire.ProbePointOutput, Index: index}
}
