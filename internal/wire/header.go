// Package wire provides the little-endian struct encodings used on the
// driver ioctl boundary and the extraction/injection packet wire format.
package wire

import (
	"encoding/binary"
	"fmt"
	"unsafe"
)

// IoctlHeader is the fixed 8-byte header that precedes every ioctl body:
// a status code followed by the body size in bytes.
type IoctlHeader struct {
	Status int32
	Size   uint32
}

// Compile-time size check - must stay exactly 8 bytes to match the kernel
// contract.
var _ [8]byte = [unsafe.Sizeof(IoctlHeader{})]byte{}

const IoctlHeaderSize = 8

// Marshal encodes the header into its 8-byte little-endian wire form.
func (h IoctlHeader) Marshal() []byte {
	buf := make([]byte, IoctlHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Status))
	binary.LittleEndian.PutUint32(buf[4:8], h.Size)
	return buf
}

// UnmarshalIoctlHeader decodes an 8-byte little-endian header.
func UnmarshalIoctlHeader(buf []byte) (IoctlHeader, error) {
	if len(buf) < IoctlHeaderSize {
		return IoctlHeader{}, fmt.Errorf("wire: short ioctl header: got %d bytes, want %d", len(buf), IoctlHeaderSize)
	}
	return IoctlHeader{
		Status: int32(binary.LittleEndian.Uint32(buf[0:4])),
		Size:   binary.LittleEndian.Uint32(buf[4:8]),
	}, nil
}

// LargeConfigHeader precedes the payload of a "large" parameter access
// (the module handler's firmware parameter reads and the module instance
// props lookup): a parameter id and the payload size that follows it.
type LargeConfigHeader struct {
	ParamID   uint32
	ParamSize uint32
}

var _ [8]byte = [unsafe.Sizeof(LargeConfigHeader{})]byte{}

const LargeConfigHeaderSize = 8

func (h LargeConfigHeader) Marshal() []byte {
	buf := make([]byte, LargeConfigHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.ParamID)
	binary.LittleEndian.PutUint32(buf[4:8], h.ParamSize)
	return buf
}

func UnmarshalLargeConfigHeader(buf []byte) (LargeConfigHeader, error) {
	if len(buf) < LargeConfigHeaderSize {
		return LargeConfigHeader{}, fmt.Errorf("wire: short large-config header: got %d bytes, want %d", len(buf), LargeConfigHeaderSize)
	}
	return LargeConfigHeader{
		ParamID:   binary.LittleEndian.Uint32(buf[0:4]),
		ParamSize: binary.LittleEndian.Uint32(buf[4:8]),
	}, nil
}

// EncodeLargeConfig builds a full request/reply body: header followed by
// payload.
func EncodeLargeConfig(paramID uint32, payload []byte) []byte {
	h := LargeConfigHeader{ParamID: paramID, ParamSize: uint32(len(payload))}
	buf := h.Marshal()
	return append(buf, payload...)
}

// DecodeLargeConfig splits a body into its header and payload, validating
// that at least ParamSize bytes follow the header; bytes past ParamSize are
// ignored.
func DecodeLargeConfig(buf []byte) (LargeConfigHeader, []byte, error) {
	h, err := UnmarshalLargeConfigHeader(buf)
	if err != nil {
		return LargeConfigHeader{}, nil, err
	}
	rest := buf[LargeConfigHeaderSize:]
	if uint32(len(rest)) < h.ParamSize {
		return LargeConfigHeader{}, nil, fmt.Errorf("wire: large-config payload truncated: got %d bytes, want %d", len(rest), h.ParamSize)
	}
	return h, rest[:h.ParamSize], nil
}
