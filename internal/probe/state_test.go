package probe

import (
	"errors"
	"testing"

	"github.com/intel/cavs-debug-agent/internal/driver"
	"github.com/intel/cavs-debug-agent/internal/modulehandler"
	"github.com/stretchr/testify/require"
)

func newTestService(n int) (*Service, *driver.Mock, *modulehandler.MockHandler) {
	drv := driver.NewMock()
	mh := modulehandler.NewMockHandler()
	svc := New(n, drv, mh, nil, nil)
	return svc, drv, mh
}

func TestSetStateWalksForwardOneStepAtATime(t *testing.T) {
	svc, drv, _ := newTestService(2)

	require.NoError(t, svc.SetEndpoint(0, EndpointConfig{Enabled: false}))
	require.NoError(t, svc.SetEndpoint(1, EndpointConfig{Enabled: false}))

	require.NoError(t, svc.SetState(StateOwned))
	drv.SetProbeStateValue(driver.Owned)
	state, err := svc.GetState()
	require.NoError(t, err)
	require.Equal(t, StateOwned, state)

	require.NoError(t, svc.SetState(StateAllocated))
	drv.SetProbeStateValue(driver.Allocated)
	state, err = svc.GetState()
	require.NoError(t, err)
	require.Equal(t, StateAllocated, state)

	drv.SetRingBuffers(driver.RingBuffers{
		Extraction: driver.RingBufferView{Base: make([]byte, 4096), Size: 4096},
	})
	require.NoError(t, svc.SetState(StateActive))
	drv.SetProbeStateValue(driver.Active)
	state, err = svc.GetState()
	require.NoError(t, err)
	require.Equal(t, StateActive, state)

	require.NoError(t, svc.SetState(StateIdle))
	drv.SetProbeStateValue(driver.Idle)
	state, err = svc.GetState()
	require.NoError(t, err)
	require.Equal(t, StateIdle, state)
}

func TestSetStateRejectsMultiStepForward(t *testing.T) {
	svc, _, _ := newTestService(1)

	err := svc.SetState(StateAllocated)
	require.Error(t, err)
}

func TestSetStateRejectsSameState(t *testing.T) {
	svc, _, _ := newTestService(1)

	err := svc.SetState(StateIdle)
	require.Error(t, err)
}

func TestSetStateRollsBackToIdleOnAllocatedFailure(t *testing.T) {
	svc, drv, _ := newTestService(1)

	require.NoError(t, svc.SetState(StateOwned))
	drv.SetProbeConfigErr(errors.New("firmware rejected config"))

	err := svc.SetState(StateAllocated)
	require.Error(t, err)

	require.Equal(t, StateIdle, svc.state)
	require.Nil(t, svc.session)
}

func TestSetStateBackwardWalksStepwiseFromActive(t *testing.T) {
	svc, drv, _ := newTestService(1)

	require.NoError(t, svc.SetEndpoint(0, EndpointConfig{Enabled: false}))
	require.NoError(t, svc.SetState(StateOwned))
	require.NoError(t, svc.SetState(StateAllocated))
	drv.SetRingBuffers(driver.RingBuffers{
		Extraction: driver.RingBufferView{Base: make([]byte, 4096), Size: 4096},
	})
	require.NoError(t, svc.SetState(StateActive))

	require.NoError(t, svc.SetState(StateIdle))
	require.Equal(t, StateIdle, svc.state)
	require.Nil(t, svc.session)
	require.Nil(t, svc.extractor)
	require.Empty(t, svc.injectors)
}

func TestGetStateDetectsDriverInconsistency(t *testing.T) {
	svc, drv, _ := newTestService(1)

	drv.SetProbeStateValue(driver.Owned)
	_, err := svc.GetState()
	require.Error(t, err)
}

func TestEnterActiveRejectsDuplicateExtractionProbePoints(t *testing.T) {
	svc, drv, _ := newTestService(2)

	point := exampleProbePoint(1, 0)
	require.NoError(t, svc.SetEndpoint(0, EndpointConfig{Enabled: true, Point: point, Purpose: PurposeExtract}))
	require.NoError(t, svc.SetEndpoint(1, EndpointConfig{Enabled: true, Point: point, Purpose: PurposeExtract}))

	require.NoError(t, svc.SetState(StateOwned))
	require.NoError(t, svc.SetState(StateAllocated))
	drv.SetRingBuffers(driver.RingBuffers{
		Extraction: driver.RingBufferView{Base: make([]byte, 4096), Size: 4096},
	})

	err := svc.SetState(StateActive)
	require.Error(t, err)
}

func TestEnterActiveFailsOnNonByteAlignedBitDepth(t *testing.T) {
	svc, drv, mh := newTestService(1)

	point := exampleProbePoint(2, 0)
	require.NoError(t, svc.SetEndpoint(0, EndpointConfig{Enabled: true, Point: point, Purpose: PurposeInject}))
	mh.InstanceProps[[2]int{2, 0}] = modulehandler.ModuleInstanceProps{ValidBitDepth: 13, ChannelCount: 2}

	require.NoError(t, svc.SetState(StateOwned))
	require.NoError(t, svc.SetState(StateAllocated))
	drv.SetRingBuffers(driver.RingBuffers{
		Extraction: driver.RingBufferView{Base: make([]byte, 4096), Size: 4096},
		Injection:  []driver.RingBufferView{{Base: make([]byte, 4096), Size: 4096}},
	})

	err := svc.SetState(StateActive)
	require.Error(t, err)
}
