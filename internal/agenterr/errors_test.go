package agenterr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("set_state", CodeIllegalTransition, "cannot skip Idle to Active")

	require.Equal(t, "set_state", err.Op)
	require.Equal(t, CodeIllegalTransition, err.Code)
	require.Equal(t, "agent: cannot skip Idle to Active (op=set_state)", err.Error())
}

func TestNewForProbe(t *testing.T) {
	err := NewForProbe("acquire_extract_stream", 3, CodeResourceBusy, "stream already held")

	require.Equal(t, 3, err.ProbeID)
	require.Equal(t, "agent: stream already held (op=acquire_extract_stream)", err.Error())
}

func TestNewWithStatus(t *testing.T) {
	err := NewWithStatus("get_module_instance_props", CodeFirmwareError, 12, "IXC non-success status")

	require.Equal(t, int32(12), err.Status)
	require.Equal(t, CodeFirmwareError, err.Code)
}

func TestWrapPreservesCode(t *testing.T) {
	original := New("io_control", CodeDriverError, "ioctl failed")
	wrapped := Wrap("set_probe_config", original)

	require.Equal(t, "set_probe_config", wrapped.Op)
	require.Equal(t, CodeDriverError, wrapped.Code)
	require.True(t, errors.Is(wrapped, original))
}

func TestWrapClassifiesPlainError(t *testing.T) {
	wrapped := Wrap("write", errors.New("short write"))

	require.Equal(t, CodeDriverError, wrapped.Code)
	require.ErrorContains(t, wrapped, "short write")
}

func TestWrapNil(t *testing.T) {
	require.Nil(t, Wrap("anything", nil))
}

func TestIs(t *testing.T) {
	err := New("read_available", CodeRingBufferFault, "producer went backwards")

	require.True(t, Is(err, CodeRingBufferFault))
	require.False(t, Is(err, CodeClientAbort))
	require.False(t, Is(nil, CodeRingBufferFault))
}

func TestErrorsAsUnwraps(t *testing.T) {
	inner := errors.New("EPIPE")
	wrapped := Wrap("write_bytes", inner)

	var ae *Error
	require.True(t, errors.As(wrapped, &ae))
	require.Equal(t, CodeDriverError, ae.Code)
}
