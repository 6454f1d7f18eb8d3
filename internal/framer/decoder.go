package framer

import (
	"fmt"

	"github.com/intel/cavs-debug-agent/internal/agenterr"
	"github.com/intel/cavs-debug-agent/internal/wire"
)

// MaxPayloadLen bounds what the decoder accepts as a plausible payload_len.
// A declared length past this is treated as framing corruption rather than
// an unusually large (but honest) packet.
const MaxPayloadLen = 64 * 1024 * 1024

// PacketHandler receives one fully-decoded packet.
type PacketHandler func(probePointID uint32, payload []byte)

// Decoder is a stateful sink: callers Feed it arbitrary byte chunks (the
// driver may split a packet across ring-buffer reads) and it emits whole
// packets to the handler, buffering any partial tail internally. For every
// byte fed in, either it is part of a yielded packet or it remains in the
// internal buffer — the decoder never drops bytes on its own.
type Decoder struct {
	buf   []byte
	onPkt PacketHandler
}

// NewDecoder constructs a Decoder that calls onPkt for each whole packet it
// assembles.
func NewDecoder(onPkt PacketHandler) *Decoder {
	return &Decoder{onPkt: onPkt}
}

// Feed appends chunk to the internal buffer and emits every whole packet
// that can now be assembled. Returns a RingBufferFault error on malformed
// framing (an impossible payload_len), at which point the decoder must not
// be fed further — the caller (C4) aborts and unblocks downstream readers.
func (d *Decoder) Feed(chunk []byte) error {
	d.buf = append(d.buf, chunk...)

	for {
		if len(d.buf) < wire.PacketHeaderSize {
			return nil
		}
		hdr, err := wire.UnmarshalPacketHeader(d.buf)
		if err != nil {
			return err
		}
		if hdr.PayloadLen > MaxPayloadLen {
			return agenterr.New("framer.decode", agenterr.CodeRingBufferFault,
				fmt.Sprintf("impossible payload length %d in packet header", hdr.PayloadLen))
		}

		total := wire.PacketHeaderSize + int(hdr.PayloadLen)
		if len(d.buf) < total {
			return nil
		}

		payload := make([]byte, hdr.PayloadLen)
		copy(payload, d.buf[wire.PacketHeaderSize:total])
		d.onPkt(hdr.ProbePointID, payload)

		d.buf = d.buf[total:]
	}
}

// Pending returns the number of bytes currently buffered awaiting the rest
// of a packet.
func (d *Decoder) Pending() int { return len(d.buf) }
