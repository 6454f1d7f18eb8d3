package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIoctlHeaderRoundTrip(t *testing.T) {
	h := IoctlHeader{Status: -5, Size: 128}
	got, err := UnmarshalIoctlHeader(h.Marshal())
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestIoctlHeaderShort(t *testing.T) {
	_, err := UnmarshalIoctlHeader([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestLargeConfigRoundTrip(t *testing.T) {
	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	buf := EncodeLargeConfig(7, payload)

	h, got, err := DecodeLargeConfig(buf)
	require.NoError(t, err)
	require.Equal(t, uint32(7), h.ParamID)
	require.Equal(t, payload, got)
}

func TestDecodeLargeConfigTruncated(t *testing.T) {
	h := LargeConfigHeader{ParamID: 1, ParamSize: 10}
	buf := append(h.Marshal(), []byte{1, 2, 3}...)

	_, _, err := DecodeLargeConfig(buf)
	require.Error(t, err)
}

func TestProbePointIDPackRoundTrip(t *testing.T) {
	tests := []ProbePointID{
		{ModuleID: 1, InstanceID: 2, Type: ProbePointOutput, Index: 0},
		{ModuleID: 0xffff, InstanceID: 0xff, Type: ProbePointInternal, Index: 0x3f},
		{ModuleID: 42, InstanceID: 7, Type: ProbePointInput, Index: 5},
	}

	for _, pp := range tests {
		packed := pp.Pack()
		got := UnpackProbePointID(packed)
		require.Equal(t, pp, got)
	}
}

func TestProbePointIDIndexTruncatesPastSixBits(t *testing.T) {
	pp := ProbePointID{Index: 0x7f} // 7 bits set, only low 6 survive packing
	got := UnpackProbePointID(pp.Pack())
	require.Equal(t, uint8(0x3f), got.Index)
}

func TestPacketHeaderRoundTrip(t *testing.T) {
	pp := ProbePointID{ModuleID: 1, InstanceID: 2, Type: ProbePointOutput, Index: 0}
	buf := EncodePacket(pp.Pack(), []byte("hello"))

	h, err := UnmarshalPacketHeader(buf[:PacketHeaderSize])
	require.NoError(t, err)
	require.Equal(t, pp.Pack(), h.ProbePointID)
	require.Equal(t, uint32(5), h.PayloadLen)
	require.Equal(t, []byte("hello"), buf[PacketHeaderSize:])
}

func TestStreamHeaderMarshal(t *testing.T) {
	buf := DefaultStreamHeader.Marshal()
	require.Len(t, buf, 20)
	require.Equal(t, "generic", string(buf[0:7]))
	require.Equal(t, "probe", string(buf[8:13]))
}
