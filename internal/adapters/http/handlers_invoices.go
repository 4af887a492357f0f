package web

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"growfitness/internal/application/listutil"
	"growfitness/internal/application/orchestrators"
	"growfitness/internal/application/projections"
)

func (s *Server) invoiceRoutes(r chi.Router) {
	r.Route("/invoices", func(r chi.Router) {
		r.Get("/", s.handleListInvoices)
		r.Post("/", s.handleCreateInvoice)
		r.Get("/summary/finance", s.handleFinanceSummary)
		r.Get("/export/csv", s.handleExportInvoices)
		r.Get("/{id}", s.handleGetInvoice)
		r.Patch("/{id}/payment-status", s.handleUpdatePaymentStatus)
	})
}

func (s *Server) invoiceDeps() orchestrators.InvoiceDeps {
	return orchestrators.InvoiceDeps{Runtime: s.runtime(), InvoiceStore: s.Stores.Invoices, Notifier: s.Notifier}
}

func (s *Server) invoiceQueryDeps() projections.InvoiceQueryDeps {
	return projections.InvoiceQueryDeps{InvoiceStore: s.Stores.Invoices, UserStore: s.Stores.Users, Now: s.Now}
}

func invoiceFilter(r *http.Request) projections.InvoiceFilter {
	q := r.URL.Query()
	return projections.InvoiceFilter{
		Type:     q.Get("type"),
		ParentID: q.Get("parentId"),
		CoachID:  q.Get("coachId"),
		Status:   q.Get("status"),
	}
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	page, err := projections.QueryListInvoices(r.Context(), listutil.ParsePageParams(r.URL.Query()), invoiceFilter(r), s.invoiceQueryDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	v, err := projections.QueryGetInvoice(r.Context(), chi.URLParam(r, "id"), s.invoiceQueryDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.CreateInvoiceInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ActorID = actorID(r)
	inv, err := orchestrators.ExecuteCreateInvoice(r.Context(), in, s.invoiceDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

// handleUpdatePaymentStatus moves an invoice between PENDING, PAID and OVERDUE.
// POST: PAID stamps paidAt; the parent of a PARENT_INVOICE is notified
func (s *Server) handleUpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.UpdatePaymentStatusInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ID, in.ActorID = chi.URLParam(r, "id"), actorID(r)
	inv, err := orchestrators.ExecuteUpdatePaymentStatus(r.Context(), in, s.invoiceDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleFinanceSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := projections.QueryFinanceSummary(r.Context(), s.invoiceQueryDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// handleExportInvoices streams the filtered invoice list as CSV (GET /api/invoices/export/csv).
func (s *Server) handleExportInvoices(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := projections.ExportInvoicesCSV(r.Context(), &buf, invoiceFilter(r), s.invoiceQueryDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeCSV(w, "invoices.csv", buf.Bytes())
}

// writeCSV sends a fully rendered CSV attachment.
func writeCSV(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
