package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/intel/cavs-debug-agent/internal/topology"
)

func (s *Server) handleModuleList(w http.ResponseWriter, r *http.Request) {
	list, err := topology.ListModules(s.topo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, list)
}

func (s *Server) handleTopology(w http.ResponseWriter, r *http.Request) {
	snap, err := topology.GetSnapshot(s.topo)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, snap)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
