package web

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"growfitness/internal/application/listutil"
	"growfitness/internal/application/orchestrators"
	"growfitness/internal/application/projections"
	"growfitness/internal/domain/report"
)

func (s *Server) reportRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/", s.handleListReports)
		r.Post("/", s.handleCreateReport)
		r.Post("/generate", s.handleGenerateReport)
		r.Get("/{id}", s.handleGetReport)
		r.Delete("/{id}", s.handleDeleteReport)
		r.Get("/{id}/export/csv", s.handleExportReport)
	})
}

func (s *Server) reportDeps() orchestrators.ReportDeps {
	return orchestrators.ReportDeps{Runtime: s.runtime(), ReportStore: s.Stores.Reports, Generator: s.reportGen}
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := projections.QueryListReports(r.Context(), listutil.ParsePageParams(q), q.Get("type"), q.Get("status"), s.Stores.Reports)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	rep, err := projections.QueryGet[report.Report](r.Context(), chi.URLParam(r, "id"), s.Stores.Reports, report.ErrNotFound, "report")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.CreateReportInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ActorID = actorID(r)
	rep, err := orchestrators.ExecuteCreateReport(r.Context(), in, s.reportDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}

// handleGenerateReport creates a report and computes its data in the same request.
// POST: 201 with a GENERATED report, or a FAILED one carrying data.error
func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.CreateReportInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ActorID = actorID(r)
	rep, err := orchestrators.ExecuteGenerateReport(r.Context(), in, s.reportDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rep)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteReport(r.Context(), chi.URLParam(r, "id"), actorID(r), s.reportDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Report deleted successfully")
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var buf bytes.Buffer
	if err := projections.ExportReportCSV(r.Context(), &buf, id, s.Stores.Reports); err != nil {
		writeError(w, r, err)
		return
	}
	writeCSV(w, "report-"+id+".csv", buf.Bytes())
}
