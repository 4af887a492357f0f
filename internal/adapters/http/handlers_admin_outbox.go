package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"growfitness/internal/adapters/http/middleware"
	"growfitness/internal/adapters/http/perf"
	"growfitness/internal/application/projections"
	"growfitness/internal/domain/outbox"
)

const perfWindow = time.Hour

func (s *Server) adminRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/outbox", s.handleListFailedOutbox)
		r.Post("/outbox/{id}/retry", s.handleRetryOutbox)
		r.Post("/outbox/{id}/abandon", s.handleAbandonOutbox)
		r.Get("/perf", s.handlePerf)
	})
}

// handleListFailedOutbox lists notifications that exhausted their retries (GET /api/admin/outbox).
func (s *Server) handleListFailedOutbox(w http.ResponseWriter, r *http.Request) {
	entries, err := projections.QueryFailedOutbox(r.Context(), s.Stores.Outbox)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []outbox.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleRetryOutbox re-arms a failed entry and attempts it once.
// PRE: the entry is not done or abandoned
// POST: the entry is returned with the outcome of the attempt recorded
func (s *Server) handleRetryOutbox(w http.ResponseWriter, r *http.Request) {
	if s.Outbox == nil {
		middleware.WriteError(w, r, http.StatusServiceUnavailable, middleware.CodeInternal, "Outbox processor is not running")
		return
	}
	entry, err := s.Outbox.ProcessSingle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleAbandonOutbox(w http.ResponseWriter, r *http.Request) {
	if s.Outbox == nil {
		middleware.WriteError(w, r, http.StatusServiceUnavailable, middleware.CodeInternal, "Outbox processor is not running")
		return
	}
	entry, err := s.Outbox.AbandonEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// handlePerf reports request and query latency over the last hour (GET /api/admin/perf).
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if s.Collector == nil {
		writeJSON(w, http.StatusOK, perf.Snapshot{})
		return
	}
	writeJSON(w, http.StatusOK, s.Collector.Snapshot(s.Now().Add(-perfWindow), 10))
}
