package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"growfitness/internal/application/listutil"
	"growfitness/internal/application/orchestrators"
	"growfitness/internal/application/projections"
)

var (
	userFilterKeys = []string{"location", "status"}
	kidFilterKeys  = []string{"parentId", "sessionType"}
)

func (s *Server) userRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Get("/parents", s.handleListParents)
		r.Post("/parents", s.handleCreateParent)
		r.Get("/parents/{id}", s.handleGetParent)
		r.Patch("/parents/{id}", s.handleUpdateParent)
		r.Delete("/parents/{id}", s.handleDeleteParent)

		r.Get("/coaches", s.handleListCoaches)
		r.Post("/coaches", s.handleCreateCoach)
		r.Get("/coaches/{id}", s.handleGetCoach)
		r.Patch("/coaches/{id}", s.handleUpdateCoach)
		r.Delete("/coaches/{id}", s.handleDeactivateCoach)
	})
}

func (s *Server) userDeps() orchestrators.UserDeps {
	return orchestrators.UserDeps{
		Runtime:   s.runtime(),
		UserStore: s.Stores.Users,
	}
}

func (s *Server) handleListParents(w http.ResponseWriter, r *http.Request) {
	q := projections.ListUsersQuery{ListParams: listutil.ParseListParams(r.URL.Query(), userFilterKeys)}
	page, err := projections.QueryListParents(r.Context(), q, s.Stores.Users)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetParent(w http.ResponseWriter, r *http.Request) {
	u, err := projections.QueryGetParent(r.Context(), chi.URLParam(r, "id"), s.Stores.Users)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// handleCreateParent creates a parent with its kids (POST /api/users/parents).
// PRE: caller is ADMIN
// POST: 201 with the parent and created kids; 409 EMAIL_ALREADY_EXISTS on a duplicate email
func (s *Server) handleCreateParent(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.CreateParentInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ActorID = actorID(r)
	res, err := orchestrators.ExecuteCreateParent(r.Context(), in, s.userDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleUpdateParent(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.UpdateUserInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ID, in.ActorID = chi.URLParam(r, "id"), actorID(r)
	u, err := orchestrators.ExecuteUpdateParent(r.Context(), in, s.userDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleDeleteParent(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteParent(r.Context(), chi.URLParam(r, "id"), actorID(r), s.userDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Parent deleted successfully")
}

func (s *Server) handleListCoaches(w http.ResponseWriter, r *http.Request) {
	q := projections.ListUsersQuery{ListParams: listutil.ParseListParams(r.URL.Query(), userFilterKeys)}
	page, err := projections.QueryListCoaches(r.Context(), q, s.Stores.Users)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetCoach(w http.ResponseWriter, r *http.Request) {
	u, err := projections.QueryGetCoach(r.Context(), chi.URLParam(r, "id"), s.Stores.Users)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleCreateCoach(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.CreateCoachInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ActorID = actorID(r)
	u, err := orchestrators.ExecuteCreateCoach(r.Context(), in, s.userDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleUpdateCoach(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.UpdateUserInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ID, in.ActorID = chi.URLParam(r, "id"), actorID(r)
	u, err := orchestrators.ExecuteUpdateCoach(r.Context(), in, s.userDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleDeactivateCoach(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeactivateCoach(r.Context(), chi.URLParam(r, "id"), actorID(r), s.userDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Coach deactivated successfully")
}

// --- Kids ---

func (s *Server) kidRoutes(r chi.Router) {
	r.Route("/kids", func(r chi.Router) {
		r.Get("/", s.handleListKids)
		r.Get("/{id}", s.handleGetKid)
		r.Patch("/{id}", s.handleUpdateKid)
		r.Post("/{id}/link-parent", s.handleLinkKid)
		r.Delete("/{id}/unlink-parent", s.handleUnlinkKid)
	})
}

func (s *Server) kidDeps() orchestrators.KidDeps {
	return orchestrators.KidDeps{
		Runtime:   s.runtime(),
		KidStore:  s.Stores.Kids,
		UserStore: s.Stores.Users,
	}
}

func (s *Server) kidQueryDeps() projections.KidQueryDeps {
	return projections.KidQueryDeps{KidStore: s.Stores.Kids, UserStore: s.Stores.Users}
}

func (s *Server) handleListKids(w http.ResponseWriter, r *http.Request) {
	q := projections.ListKidsQuery{ListParams: listutil.ParseListParams(r.URL.Query(), kidFilterKeys)}
	page, err := projections.QueryListKids(r.Context(), q, s.kidQueryDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetKid(w http.ResponseWriter, r *http.Request) {
	k, err := projections.QueryGetKid(r.Context(), chi.URLParam(r, "id"), s.kidQueryDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, k)
}

func (s *Server) handleUpdateKid(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.UpdateKidInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ID, in.ActorID = chi.URLParam(r, "id"), actorID(r)
	k, err := orchestrators.ExecuteUpdateKid(r.Context(), in, s.kidDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, k)
}

func (s *Server) handleLinkKid(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.LinkKidInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.KidID, in.ActorID = chi.URLParam(r, "id"), actorID(r)
	k, err := orchestrators.ExecuteLinkKidToParent(r.Context(), in, s.kidDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, k)
}

func (s *Server) handleUnlinkKid(w http.ResponseWriter, r *http.Request) {
	k, err := orchestrators.ExecuteUnlinkKidFromParent(r.Context(), chi.URLParam(r, "id"), actorID(r), s.kidDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, k)
}
