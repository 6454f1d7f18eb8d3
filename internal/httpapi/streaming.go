package httpapi

import (
	"io"
	"net/http"

	"github.com/intel/cavs-debug-agent/internal/wire"
)

const streamContentType = "application/vnd.ifdk-file"

func (s *Server) handleExtractStream(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	stream, err := s.svc.AcquireExtractStream(id)
	if err != nil {
		writeError(w, err)
		return
	}
	defer stream.Release()

	w.Header().Set("Content-Type", streamContentType)
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(wire.DefaultStreamHeader.Marshal()); err != nil {
		s.logger.Warnf("extract stream %d: client disconnected before header flushed: %v", id, err)
		return
	}
	flush(w)

	for {
		chunk, ok := stream.ReadChunk()
		if !ok {
			return
		}
		if _, err := w.Write(chunk); err != nil {
			s.logger.Warnf("extract stream %d: client disconnected: %v", id, err)
			return
		}
		flush(w)
	}
}

func (s *Server) handleInjectStream(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	stream, err := s.svc.AcquireInjectStream(id)
	if err != nil {
		writeError(w, err)
		return
	}
	defer stream.Release()

	buf := make([]byte, 64*1024)
	for {
		n, err := r.Body.Read(buf)
		if n > 0 {
			if !stream.WriteBytes(append([]byte(nil), buf[:n]...)) {
				http.Error(w, "injection queue closed", http.StatusInternalServerError)
				return
			}
		}
		if err == io.EOF {
			w.WriteHeader(http.StatusOK)
			return
		}
		if err != nil {
			s.logger.Warnf("inject stream %d: client aborted: %v", id, err)
			return
		}
	}
}

func flush(w http.ResponseWriter) {
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
