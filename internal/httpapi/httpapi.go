// Package httpapi is the REST resource shim (§6.1) in front of the probe
// core: it parses the opaque path segments, marshals/unmarshals the XML
// control_parameters bodies, and, for the two streaming routes, copies
// bytes between the http.ResponseWriter or request body and a probe
// stream guard.
package httpapi

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/intel/cavs-debug-agent/internal/agenterr"
	"github.com/intel/cavs-debug-agent/internal/logging"
	"github.com/intel/cavs-debug-agent/internal/probe"
	"github.com/intel/cavs-debug-agent/internal/topology"
)

// Server wires the probe service façade and the supplemented topology
// reader onto the six REST routes of §6.1, plus the two supplemented
// demo routes of SPEC_FULL.md §11.
type Server struct {
	router *mux.Router
	svc    *probe.Service
	topo   topology.Reader
	logger *logging.Logger
}

// NewServer builds the route table. topo may be nil, in which case the
// two supplemented topology routes are not registered.
func NewServer(svc *probe.Service, topo topology.Reader, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Server{router: mux.NewRouter(), svc: svc, topo: topo, logger: logger.With("httpapi")}

	s.router.HandleFunc("/instance/{subsys}.probe/0/control_parameters", s.handleGetServiceState).Methods(http.MethodGet)
	s.router.HandleFunc("/instance/{subsys}.probe/0/control_parameters", s.handleSetServiceState).Methods(http.MethodPut)
	s.router.HandleFunc("/instance/{subsys}.probe.endpoint/{id}/control_parameters", s.handleGetEndpoint).Methods(http.MethodGet)
	s.router.HandleFunc("/instance/{subsys}.probe.endpoint/{id}/control_parameters", s.handleSetEndpoint).Methods(http.MethodPut)
	s.router.HandleFunc("/instance/{subsys}.probe.endpoint/{id}/streaming", s.handleExtractStream).Methods(http.MethodGet)
	s.router.HandleFunc("/instance/{subsys}.probe.endpoint/{id}/streaming", s.handleInjectStream).Methods(http.MethodPut)

	if topo != nil {
		s.router.HandleFunc("/instance/modules/list", s.handleModuleList).Methods(http.MethodGet)
		s.router.HandleFunc("/instance/topology", s.handleTopology).Methods(http.MethodGet)
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)
	s.logger.Debugf("request %s %s %s", requestID, r.Method, r.URL.Path)
	s.router.ServeHTTP(w, r)
}

// statusFor maps an agenterr.Code to its HTTP status, per spec.md §7 and
// §6.1's per-route error columns: one table, not scattered catch blocks.
var statusFor = map[agenterr.Code]int{
	agenterr.CodeValidationError:   http.StatusNotFound,
	agenterr.CodeResourceBusy:      http.StatusLocked,
	agenterr.CodeIllegalTransition: http.StatusInternalServerError,
	agenterr.CodeDriverError:       http.StatusInternalServerError,
	agenterr.CodeFirmwareError:     http.StatusInternalServerError,
	agenterr.CodeInconsistentState: http.StatusInternalServerError,
	agenterr.CodeRingBufferFault:   http.StatusInternalServerError,
	agenterr.CodeClientAbort:       http.StatusInternalServerError,
}

func writeError(w http.ResponseWriter, err error) {
	code := agenterr.CodeDriverError
	var ae *agenterr.Error
	if as, ok := err.(*agenterr.Error); ok {
		ae = as
		code = ae.Code
	}
	status, ok := statusFor[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	http.Error(w, err.Error(), status)
}

func parseID(r *http.Request) (probe.Id, error) {
	raw := mux.Vars(r)["id"]
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, agenterr.New("parse_id", agenterr.CodeValidationError, "non-numeric probe id")
	}
	return probe.Id(n), nil
}
