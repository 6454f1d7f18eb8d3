// Package framer encodes and decodes length-prefixed probe packets on the
// extraction/injection byte streams.
package framer

import "github.com/intel/cavs-debug-agent/internal/wire"

// Encode writes the wire form of a single packet: header(probe_point_id,
// len) followed by payload.
func Encode(probePointID uint32, payload []byte) []byte {
	return wire.EncodePacket(probePointID, payload)
}
