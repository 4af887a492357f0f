package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"growfitness/internal/application/listutil"
	"growfitness/internal/application/projections"
)

func (s *Server) auditRoutes(r chi.Router) {
	r.Get("/audit", s.handleListAudit)
}

func (s *Server) auditQueryDeps() projections.AuditQueryDeps {
	return projections.AuditQueryDeps{AuditStore: s.Stores.Audit, UserStore: s.Stores.Users}
}

// handleListAudit lists audit entries newest first with the actor populated (GET /api/audit)
// PRE: caller is ADMIN
// POST: filters actorId, entityType, startDate and endDate are applied together
func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := queryDate(r, "startDate")
	if err != nil {
		writeError(w, r, err)
		return
	}
	end, err := queryDate(r, "endDate")
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := projections.QueryListAudit(r.Context(), projections.ListAuditQuery{
		PageParams: listutil.ParsePageParams(q),
		ActorID:    q.Get("actorId"),
		EntityType: q.Get("entityType"),
		StartDate:  start,
		EndDate:    end,
	}, s.auditQueryDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) dashboardRoutes(r chi.Router) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/stats", s.handleDashboardStats)
		r.Get("/weekly-sessions", s.handleDashboardWeeklySessions)
		r.Get("/finance", s.handleDashboardFinance)
		r.Get("/activity-logs", s.handleActivityLogs)
	})
}

func (s *Server) dashboardDeps() projections.DashboardDeps {
	return projections.DashboardDeps{
		UserStore:    s.Stores.Users,
		KidStore:     s.Stores.Kids,
		SessionStore: s.Stores.Sessions,
		RequestStore: s.Stores.Requests,
		InvoiceStore: s.Stores.Invoices,
		Cache:        s.Cache,
		CacheTTL:     s.Config.DashboardCacheTTL,
		Now:          s.Now,
	}
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := projections.QueryDashboardStats(r.Context(), s.dashboardDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleDashboardWeeklySessions(w http.ResponseWriter, r *http.Request) {
	sum, err := projections.QueryWeeklySessions(r.Context(), s.dashboardDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleDashboardFinance(w http.ResponseWriter, r *http.Request) {
	fin, err := projections.QueryDashboardFinance(r.Context(), s.dashboardDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fin)
}

// handleActivityLogs returns the most recent audit entries for the dashboard feed.
func (s *Server) handleActivityLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := projections.QueryActivityLogs(r.Context(), s.auditQueryDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
