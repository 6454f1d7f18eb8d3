package topology

import (
	"errors"
	"testing"

	"github.com/intel/cavs-debug-agent/internal/modulehandler"
	"github.com/stretchr/testify/require"
)

func TestListModulesMapsEntries(t *testing.T) {
	mh := modulehandler.NewMockHandler()
	mh.Entries = []modulehandler.ModuleEntry{
		{ModuleID: 1, Name: "mixin", Type: 2, InstanceMaxCount: 4},
	}

	list, err := ListModules(mh)
	require.NoError(t, err)
	require.Len(t, list.Modules, 1)
	require.Equal(t, ModuleSummary{ModuleID: 1, Name: "mixin", Type: 2, MaxCount: 4}, list.Modules[0])
}

func TestGetSnapshotAssemblesGatewaysAndPipelines(t *testing.T) {
	mh := modulehandler.NewMockHandler()
	mh.Gateways = []modulehandler.GatewayProps{{TypeName: "dmic", InstanceID: 0}}
	mh.PipelineIDs = []uint32{7}
	mh.Pipelines[7] = modulehandler.PplProps{ID: 7, Priority: 1, ModuleInstances: []uint32{1, 2}}

	snap, err := GetSnapshot(mh)
	require.NoError(t, err)
	require.Equal(t, []GatewaySummary{{TypeName: "dmic", InstanceID: 0}}, snap.Gateways)
	require.Equal(t, []PipelineSummary{{ID: 7, Priority: 1, ModuleInstances: []uint32{1, 2}}}, snap.Pipelines)
}

func TestGetSnapshotPropagatesError(t *testing.T) {
	mh := modulehandler.NewMockHandler()
	mh.Err = errors.New("driver unavailable")

	_, err := GetSnapshot(mh)
	require.Error(t, err)
}
