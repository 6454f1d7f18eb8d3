package wire

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// PacketHeader precedes every payload on the extraction wire: the packed
// probe-point id the bytes were captured from, and the payload length that
// follows.
type PacketHeader struct {
	ProbePointID uint32
	PayloadLen   uint32
}

var _ [8]byte = [unsafe.Sizeof(PacketHeader{})]byte{}

const PacketHeaderSize = 8

func (h PacketHeader) Marshal() []byte {
	buf := make([]byte, PacketHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.ProbePointID)
	binary.LittleEndian.PutUint32(buf[4:8], h.PayloadLen)
	return buf
}

func UnmarshalPacketHeader(buf []byte) (PacketHeader, error) {
	if len(buf) < PacketHeaderSize {
		return PacketHeader{}, fmt.Errorf("wire: short packet header: got %d bytes, want %d", len(buf), PacketHeaderSize)
	}
	return PacketHeader{
		ProbePointID: binary.LittleEndian.Uint32(buf[0:4]),
		PayloadLen:   binary.LittleEndian.Uint32(buf[4:8]),
	}, nil
}

// EncodePacket builds a full wire packet: header followed by payload.
func EncodePacket(probePointID uint32, payload []byte) []byte {
	h := PacketHeader{ProbePointID: probePointID, PayloadLen: uint32(len(payload))}
	buf := h.Marshal()
	return append(buf, payload...)
}

// StreamHeader is the small fixed header prepended to every IFDK stream
// before framed packets begin.
type StreamHeader struct {
	System string // always "generic"
	Format string // always "probe"
	Major  uint16
	Minor  uint16
}

// DefaultStreamHeader is the header value every probe stream currently uses.
var DefaultStreamHeader = StreamHeader{System: "generic", Format: "probe", Major: 1, Minor: 0}

// Marshal encodes the stream header as fixed-width fields: two 8-byte
// zero-padded ASCII strings followed by two little-endian u16 version
// fields.
func (h StreamHeader) Marshal() []byte {
	buf := make([]byte, 20)
	copy(buf[0:8], h.System)
	copy(buf[8:16], h.Format)
	binary.LittleEndian.PutUint16(buf[16:18], h.Major)
	binary.LittleEndian.PutUint16(buf[18:20], h.Minor)
	return buf
}
