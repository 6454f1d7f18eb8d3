// Package topology assembles read-only JSON snapshots of the firmware's
// module directory and running pipeline/gateway graph from C9 calls, for
// the two demo HTTP endpoints that supplement spec.md's distilled surface.
package topology

import (
	"github.com/intel/cavs-debug-agent/internal/agenterr"
	"github.com/intel/cavs-debug-agent/internal/modulehandler"
)

// ModuleList is the JSON shape returned by GET /instance/modules/list,
// grounded on DebugResources.cpp's ModuleListDebugResource (there an HTML
// table; here the same fields as JSON).
type ModuleList struct {
	Modules []ModuleSummary `json:"modules"`
}

// ModuleSummary is one entry of ModuleList.
type ModuleSummary struct {
	ModuleID uint16 `json:"module_id"`
	Name     string `json:"name"`
	Type     uint32 `json:"type"`
	MaxCount uint16 `json:"instance_max_count"`
}

// Snapshot is the JSON shape returned by GET /instance/topology, grounded
// on DebugResources.cpp's TopologyDebugResource: the set of gateways,
// pipelines, and the module instances each pipeline owns.
type Snapshot struct {
	Gateways  []GatewaySummary  `json:"gateways"`
	Pipelines []PipelineSummary `json:"pipelines"`
}

// GatewaySummary is one entry of Snapshot.Gateways.
type GatewaySummary struct {
	TypeName   string `json:"type_name"`
	InstanceID uint32 `json:"instance_id"`
}

// PipelineSummary is one entry of Snapshot.Pipelines.
type PipelineSummary struct {
	ID              uint32   `json:"id"`
	Priority        uint32   `json:"priority"`
	ModuleInstances []uint32 `json:"module_instances"`
}

// Reader is the narrow capability set topology needs from C9; satisfied
// by modulehandler.Handler and modulehandler.MockHandler alike.
type Reader = modulehandler.ModuleHandler

// ListModules assembles ModuleList from get_module_entries().
func ListModules(r Reader) (ModuleList, error) {
	entries, err := r.GetModuleEntries()
	if err != nil {
		return ModuleList{}, agenterr.Wrap("list_modules", err)
	}
	out := ModuleList{Modules: make([]ModuleSummary, len(entries))}
	for i, e := range entries {
		out.Modules[i] = ModuleSummary{
			ModuleID: e.ModuleID,
			Name:     e.Name,
			Type:     e.Type,
			MaxCount: e.InstanceMaxCount,
		}
	}
	return out, nil
}

// GetSnapshot assembles Snapshot from get_gateways(), get_pipeline_ids(),
// and get_pipeline_props() — no XML/IFDK object graph is reproduced, only
// the flat summary fields a demo surface needs.
func GetSnapshot(r Reader) (Snapshot, error) {
	gateways, err := r.GetGateways()
	if err != nil {
		return Snapshot{}, agenterr.Wrap("get_topology", err)
	}
	ids, err := r.GetPipelineIDs()
	if err != nil {
		return Snapshot{}, agenterr.Wrap("get_topology", err)
	}

	snap := Snapshot{
		Gateways:  make([]GatewaySummary, len(gateways)),
		Pipelines: make([]PipelineSummary, 0, len(ids)),
	}
	for i, g := range gateways {
		snap.Gateways[i] = GatewaySummary{TypeName: g.TypeName, InstanceID: g.InstanceID}
	}
	for _, id := range ids {
		props, err := r.GetPipelineProps(id)
		if err != nil {
			return Snapshot{}, agenterr.Wrap("get_topology", err)
		}
		snap.Pipelines = append(snap.Pipelines, PipelineSummary{
			ID:              props.ID,
			Priority:        props.Priority,
			ModuleInstances: props.ModuleInstances,
		})
	}
	return snap, nil
}
