package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/intel/cavs-debug-agent/internal/driver"
	"github.com/intel/cavs-debug-agent/internal/framer"
	"github.com/intel/cavs-debug-agent/internal/logging"
	"github.com/intel/cavs-debug-agent/internal/modulehandler"
	"github.com/intel/cavs-debug-agent/internal/probe"
	"github.com/intel/cavs-debug-agent/internal/wire"
	"github.com/stretchr/testify/require"
)

func bringActiveWithExtraction(t *testing.T, point wire.ProbePointID, encoded []byte) (*Server, *probe.Service, *driver.Mock) {
	t.Helper()
	drv := driver.NewMock()
	mh := modulehandler.NewMockHandler()
	svc := probe.New(1, drv, mh, nil, logging.Default())

	require.NoError(t, svc.SetEndpoint(0, probe.EndpointConfig{Enabled: true, Point: point, Purpose: probe.PurposeExtract}))
	require.NoError(t, svc.SetState(probe.StateOwned))
	require.NoError(t, svc.SetState(probe.StateAllocated))

	base := make([]byte, 4096)
	copy(base, encoded)
	drv.SetRingBuffers(driver.RingBuffers{Extraction: driver.RingBufferView{Base: base, Size: 4096}})
	drv.SetExtractionProducerPos(uint64(len(encoded)))

	require.NoError(t, svc.SetState(probe.StateActive))

	return NewServer(svc, mh, nil), svc, drv
}

func TestHandleExtractStreamYieldsHeaderThenPayload(t *testing.T) {
	point := wire.ProbePointID{ModuleID: 1, InstanceID: 2, Type: wire.ProbePointOutput, Index: 0}
	encoded := framer.Encode(point.Pack(), []byte("hello-extract"))
	srv, svc, _ := bringActiveWithExtraction(t, point, encoded)

	req := httptest.NewRequest(http.MethodGet, "/instance/cavs.probe.endpoint/0/streaming", nil)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		srv.ServeHTTP(rec, req)
		close(done)
	}()

	// Tearing down Active drains whatever the worker already queued and
	// then closes the extraction queue, which is what lets the streaming
	// handler's blocking ReadChunk loop observe EOF and return.
	require.NoError(t, svc.SetState(probe.StateIdle))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("extract stream handler did not return after teardown")
	}

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.Bytes()
	require.True(t, len(body) >= 20)
	require.Equal(t, wire.DefaultStreamHeader.Marshal(), body[:20])
	require.Equal(t, []byte("hello-extract"), body[20:])
}

func TestHandleExtractStreamBusyOnSecondAcquisition(t *testing.T) {
	point := wire.ProbePointID{ModuleID: 1, InstanceID: 0, Type: wire.ProbePointOutput, Index: 0}
	srv, svc, _ := bringActiveWithExtraction(t, point, framer.Encode(point.Pack(), nil))
	t.Cleanup(func() { _ = svc.SetState(probe.StateIdle) })

	first, err := svc.AcquireExtractStream(0)
	require.NoError(t, err)
	defer first.Release()

	req := httptest.NewRequest(http.MethodGet, "/instance/cavs.probe.endpoint/0/streaming", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusLocked, rec.Code)
}

func TestHandleInjectStreamWritesBodyAndReturnsOK(t *testing.T) {
	drv := driver.NewMock()
	mh := modulehandler.NewMockHandler()
	svc := probe.New(1, drv, mh, nil, logging.Default())
	point := wire.ProbePointID{ModuleID: 3, InstanceID: 0, Type: wire.ProbePointInput, Index: 0}
	mh.InstanceProps[[2]int{3, 0}] = modulehandler.ModuleInstanceProps{ValidBitDepth: 16, ChannelCount: 2}

	require.NoError(t, svc.SetEndpoint(0, probe.EndpointConfig{Enabled: true, Point: point, Purpose: probe.PurposeInject}))
	require.NoError(t, svc.SetState(probe.StateOwned))
	require.NoError(t, svc.SetState(probe.StateAllocated))
	drv.SetRingBuffers(driver.RingBuffers{
		Extraction: driver.RingBufferView{Base: make([]byte, 64), Size: 64},
		Injection:  []driver.RingBufferView{{Base: make([]byte, 64), Size: 64}},
	})
	require.NoError(t, svc.SetState(probe.StateActive))

	srv := NewServer(svc, mh, nil)
	req := httptest.NewRequest(http.MethodPut, "/instance/cavs.probe.endpoint/0/streaming", strings.NewReader("clientbytes"))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, svc.SetState(probe.StateIdle))
}
