package httpapi

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/http"

	"github.com/intel/cavs-debug-agent/internal/agenterr"
	"github.com/intel/cavs-debug-agent/internal/probe"
	"github.com/intel/cavs-debug-agent/internal/wire"
)

// serviceStateXML is the §6.1 XML body for the service-level
// control_parameters resource.
type serviceStateXML struct {
	XMLName xml.Name `xml:"control_parameters"`
	State   string   `xml:"state"`
}

func (s *Server) handleGetServiceState(w http.ResponseWriter, r *http.Request) {
	state, err := s.svc.GetState()
	if err != nil {
		writeError(w, err)
		return
	}
	writeXML(w, serviceStateXML{State: state.String()})
}

func (s *Server) handleSetServiceState(w http.ResponseWriter, r *http.Request) {
	var body serviceStateXML
	if err := readXML(r, &body); err != nil {
		writeError(w, agenterr.New("set_state", agenterr.CodeValidationError, err.Error()))
		return
	}

	target, err := parseServiceState(body.State)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.svc.SetState(target); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func parseServiceState(s string) (probe.ServiceState, error) {
	switch s {
	case "Idle":
		return probe.StateIdle, nil
	case "Owned":
		return probe.StateOwned, nil
	case "Allocated":
		return probe.StateAllocated, nil
	case "Active":
		return probe.StateActive, nil
	default:
		return 0, agenterr.New("set_state", agenterr.CodeValidationError, fmt.Sprintf("unknown state %q", s))
	}
}

// endpointXML is the §6.1 XML body for the per-endpoint
// control_parameters resource.
type endpointXML struct {
	XMLName    xml.Name `xml:"control_parameters"`
	Enabled    bool     `xml:"enabled"`
	ModuleID   uint16   `xml:"module_id"`
	InstanceID uint8    `xml:"instance_id"`
	Type       string   `xml:"type"`
	Index      uint8    `xml:"index"`
	Purpose    string   `xml:"purpose"`
}

func toEndpointXML(cfg probe.EndpointConfig) endpointXML {
	return endpointXML{
		Enabled:    cfg.Enabled,
		ModuleID:   cfg.Point.ModuleID,
		InstanceID: cfg.Point.InstanceID,
		Type:       cfg.Point.Type.String(),
		Index:      cfg.Point.Index,
		Purpose:    purposeString(cfg.Purpose),
	}
}

func (x endpointXML) toEndpointConfig() (probe.EndpointConfig, error) {
	ptype, err := parseProbePointType(x.Type)
	if err != nil {
		return probe.EndpointConfig{}, err
	}
	purpose, err := parsePurpose(x.Purpose)
	if err != nil {
		return probe.EndpointConfig{}, err
	}
	return probe.EndpointConfig{
		Enabled: x.Enabled,
		Point: wire.ProbePointID{
			ModuleID:   x.ModuleID,
			InstanceID: x.InstanceID,
			Type:       ptype,
			Index:      x.Index,
		},
		Purpose: purpose,
	}, nil
}

func purposeString(p probe.Purpose) string {
	switch p {
	case probe.PurposeExtract:
		return "Extract"
	case probe.PurposeInject:
		return "Inject"
	case probe.PurposeInjectReextract:
		return "InjectReextract"
	default:
		return "Unknown"
	}
}

func parsePurpose(s string) (probe.Purpose, error) {
	switch s {
	case "Extract":
		return probe.PurposeExtract, nil
	case "Inject":
		return probe.PurposeInject, nil
	case "InjectReextract":
		return probe.PurposeInjectReextract, nil
	default:
		return 0, agenterr.New("set_endpoint", agenterr.CodeValidationError, fmt.Sprintf("unknown purpose %q", s))
	}
}

func parseProbePointType(s string) (wire.ProbePointType, error) {
	switch s {
	case "Input":
		return wire.ProbePointInput, nil
	case "Output":
		return wire.ProbePointOutput, nil
	case "Internal":
		return wire.ProbePointInternal, nil
	default:
		return 0, agenterr.New("set_endpoint", agenterr.CodeValidationError, fmt.Sprintf("unknown probe-point type %q", s))
	}
}

func (s *Server) handleGetEndpoint(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	cfg, err := s.svc.GetEndpoint(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeXML(w, toEndpointXML(cfg))
}

func (s *Server) handleSetEndpoint(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var body endpointXML
	if err := readXML(r, &body); err != nil {
		writeError(w, agenterr.New("set_endpoint", agenterr.CodeValidationError, err.Error()))
		return
	}
	cfg, err := body.toEndpointConfig()
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.svc.SetEndpoint(id, cfg); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func writeXML(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_ = xml.NewEncoder(w).Encode(v)
}

func readXML(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	return xml.Unmarshal(body, v)
}
