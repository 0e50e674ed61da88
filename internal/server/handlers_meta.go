package server

import (
	"encoding/json"
	"net/http"

	"ideavault/internal/api"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.StatusCounts(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	total := 0
	for _, count := range counts {
		total += count
	}

	schemaVersion := 0
	if versioned, ok := any(s.store).(interface{ SchemaVersion() (int, error) }); ok {
		if version, err := versioned.SchemaVersion(); err == nil {
			schemaVersion = version
		}
	}

	s.writeJSON(w, http.StatusOK, api.InfoResponse{
		SchemaVersion: schemaVersion,
		IdeaCounts:    counts,
		TotalIdeas:    total,
	})
}

// handleExport writes every idea visible to the caller as NDJSON, one
// record per line.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	s.withLimiter(w, r, s.exportLimiter, "export", func() {
		caller := s.callerOwner(r)

		entries, err := s.ideas.Export(r.Context(), caller)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.WriteHeader(http.StatusOK)
		enc := json.NewEncoder(w)
		for _, entry := range entries {
			if err := enc.Encode(entry); err != nil {
				// Headers already went out; log and cut the stream.
				s.log().Error("export failed", "error", err, "caller", caller)
				return
			}
		}
	})
}
