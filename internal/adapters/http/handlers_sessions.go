package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"growfitness/internal/application/listutil"
	"growfitness/internal/application/orchestrators"
	"growfitness/internal/application/projections"
)

func (s *Server) sessionRoutes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.handleListSessions)
		r.Post("/", s.handleCreateSession)
		r.Get("/weekly-summary", s.handleWeeklySummary)
		r.Get("/{id}", s.handleGetSession)
		r.Patch("/{id}", s.handleUpdateSession)
		r.Delete("/{id}", s.handleDeleteSession)
	})
}

func (s *Server) sessionDeps() orchestrators.SessionDeps {
	return orchestrators.SessionDeps{
		Runtime:       s.runtime(),
		SessionStore:  s.Stores.Sessions,
		LocationStore: s.Stores.Locations,
		Notifier:      s.Notifier,
	}
}

func (s *Server) sessionQueryDeps() projections.SessionQueryDeps {
	return projections.SessionQueryDeps{
		SessionStore:  s.Stores.Sessions,
		UserStore:     s.Stores.Users,
		KidStore:      s.Stores.Kids,
		LocationStore: s.Stores.Locations,
	}
}

// handleListSessions lists sessions by dateTime with coach, location and kids populated (GET /api/sessions).
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
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
	page, err := projections.QueryListSessions(r.Context(), projections.ListSessionsQuery{
		PageParams: listutil.ParsePageParams(q),
		CoachID:    q.Get("coachId"),
		LocationID: q.Get("locationId"),
		Status:     q.Get("status"),
		StartDate:  start,
		EndDate:    end,
	}, s.sessionQueryDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	v, err := projections.QueryGetSession(r.Context(), chi.URLParam(r, "id"), s.sessionQueryDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleWeeklySummary counts sessions in [startDate, endDate) by type and status.
// Missing bounds default to the current ISO week.
func (s *Server) handleWeeklySummary(w http.ResponseWriter, r *http.Request) {
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
	weekStart, weekEnd := projections.WeekBounds(s.Now())
	if start.IsZero() {
		start = weekStart
	}
	if end.IsZero() {
		end = weekEnd
	}
	sum, err := projections.QueryWeeklySummary(r.Context(), start, end, s.Stores.Sessions)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.CreateSessionInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ActorID = actorID(r)
	sess, err := orchestrators.ExecuteCreateSession(r.Context(), in, s.sessionDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.UpdateSessionInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ID, in.ActorID = chi.URLParam(r, "id"), actorID(r)
	sess, err := orchestrators.ExecuteUpdateSession(r.Context(), in, s.sessionDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteSession(r.Context(), chi.URLParam(r, "id"), actorID(r), s.sessionDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Session deleted successfully")
}
