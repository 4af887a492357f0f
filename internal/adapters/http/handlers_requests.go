package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"growfitness/internal/adapters/http/middleware"
	"growfitness/internal/application/listutil"
	"growfitness/internal/application/orchestrators"
	"growfitness/internal/application/projections"
	"growfitness/internal/domain/user"
)

// requestRoutes mounts the three request queues. Submission is open to the
// role that owns the queue; listing and decisions stay with admins.
func (s *Server) requestRoutes(r chi.Router) {
	admin := middleware.RequireRole(user.RoleAdmin)
	r.Route("/requests", func(r chi.Router) {
		r.Route("/free-sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateFreeSessionRequest)
			r.With(admin).Get("/", s.handleListFreeSessionRequests)
			r.With(admin).Post("/{id}/select", s.handleSelectFreeSessionRequest)
		})
		r.Route("/reschedules", func(r chi.Router) {
			r.With(middleware.RequireRole(user.RoleParent, user.RoleCoach)).Post("/", s.handleCreateRescheduleRequest)
			r.With(admin).Get("/", s.handleListRescheduleRequests)
			r.With(admin).Post("/{id}/approve", s.handleDecideReschedule(true))
			r.With(admin).Post("/{id}/deny", s.handleDecideReschedule(false))
		})
		r.Route("/extra-sessions", func(r chi.Router) {
			r.With(middleware.RequireRole(user.RoleParent)).Post("/", s.handleCreateExtraSessionRequest)
			r.With(admin).Get("/", s.handleListExtraSessionRequests)
			r.With(admin).Post("/{id}/approve", s.handleDecideExtraSession(true))
			r.With(admin).Post("/{id}/deny", s.handleDecideExtraSession(false))
		})
	})
}

func (s *Server) requestDeps() orchestrators.RequestDeps {
	return orchestrators.RequestDeps{
		Runtime:      s.runtime(),
		RequestStore: s.Stores.Requests,
		SessionStore: s.Stores.Sessions,
		Notifier:     s.Notifier,
	}
}

func (s *Server) requestQueryDeps() projections.RequestQueryDeps {
	return projections.RequestQueryDeps{
		RequestStore:  s.Stores.Requests,
		SessionStore:  s.Stores.Sessions,
		UserStore:     s.Stores.Users,
		KidStore:      s.Stores.Kids,
		LocationStore: s.Stores.Locations,
	}
}

func listRequestsQuery(r *http.Request) projections.ListRequestsQuery {
	q := r.URL.Query()
	return projections.ListRequestsQuery{PageParams: listutil.ParsePageParams(q), Status: q.Get("status")}
}

// handleCreateFreeSessionRequest accepts the public trial form (POST /api/requests/free-sessions).
// PRE: no authentication
// POST: 201 with a PENDING request
func (s *Server) handleCreateFreeSessionRequest(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.CreateFreeSessionRequestInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	req, err := orchestrators.ExecuteCreateFreeSessionRequest(r.Context(), in, s.requestDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleListFreeSessionRequests(w http.ResponseWriter, r *http.Request) {
	page, err := projections.QueryListFreeSessionRequests(r.Context(), listRequestsQuery(r), s.requestQueryDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// handleSelectFreeSessionRequest marks a trial request as SELECTED, optionally
// attaching the session the child was placed in.
func (s *Server) handleSelectFreeSessionRequest(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.SelectFreeSessionInput
	if err := decodeOptional(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ID, in.ActorID = chi.URLParam(r, "id"), actorID(r)
	req, err := orchestrators.ExecuteSelectFreeSessionRequest(r.Context(), in, s.requestDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

func (s *Server) handleCreateRescheduleRequest(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.CreateRescheduleRequestInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ActorID = actorID(r)
	req, err := orchestrators.ExecuteCreateRescheduleRequest(r.Context(), in, s.requestDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleListRescheduleRequests(w http.ResponseWriter, r *http.Request) {
	page, err := projections.QueryListRescheduleRequests(r.Context(), listRequestsQuery(r), s.requestQueryDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// handleDecideReschedule approves or denies a reschedule request.
// POST: approval moves the session to newDateTime; the requester is notified either way
func (s *Server) handleDecideReschedule(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := orchestrators.ExecuteDecideRescheduleRequest(r.Context(), orchestrators.DecideRequestInput{
			ID:      chi.URLParam(r, "id"),
			ActorID: actorID(r),
			Approve: approve,
		}, s.requestDeps())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, req)
	}
}

func (s *Server) handleCreateExtraSessionRequest(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.CreateExtraSessionRequestInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ParentID = actorID(r)
	req, err := orchestrators.ExecuteCreateExtraSessionRequest(r.Context(), in, s.requestDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleListExtraSessionRequests(w http.ResponseWriter, r *http.Request) {
	page, err := projections.QueryListExtraSessionRequests(r.Context(), listRequestsQuery(r), s.requestQueryDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleDecideExtraSession(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := orchestrators.ExecuteDecideExtraSessionRequest(r.Context(), orchestrators.DecideRequestInput{
			ID:      chi.URLParam(r, "id"),
			ActorID: actorID(r),
			Approve: approve,
		}, s.requestDeps())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, req)
	}
}
