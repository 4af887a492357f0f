package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"growfitness/internal/application/listutil"
	"growfitness/internal/application/orchestrators"
	"growfitness/internal/application/projections"
	"growfitness/internal/domain/banner"
	"growfitness/internal/domain/location"
	"growfitness/internal/domain/quiz"
	"growfitness/internal/domain/resource"
)

// --- Locations ---

func (s *Server) locationRoutes(r chi.Router) {
	r.Route("/locations", func(r chi.Router) {
		r.Get("/", s.handleListLocations)
		r.Post("/", s.handleCreateLocation)
		r.Get("/{id}", s.handleGetLocation)
		r.Patch("/{id}", s.handleUpdateLocation)
		r.Delete("/{id}", s.handleDeleteLocation)
	})
}

func (s *Server) locationDeps() orchestrators.LocationDeps {
	return orchestrators.LocationDeps{Runtime: s.runtime(), LocationStore: s.Stores.Locations}
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	list, err := projections.QueryListLocations(r.Context(), s.Stores.Locations)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	l, err := projections.QueryGet[location.Location](r.Context(), chi.URLParam(r, "id"), s.Stores.Locations, location.ErrNotFound, "location")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.CreateLocationInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ActorID = actorID(r)
	l, err := orchestrators.ExecuteCreateLocation(r.Context(), in, s.locationDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.UpdateLocationInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ID, in.ActorID = chi.URLParam(r, "id"), actorID(r)
	l, err := orchestrators.ExecuteUpdateLocation(r.Context(), in, s.locationDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteLocation(r.Context(), chi.URLParam(r, "id"), actorID(r), s.locationDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Location deleted successfully")
}

// --- Banners ---

func (s *Server) bannerRoutes(r chi.Router) {
	r.Route("/banners", func(r chi.Router) {
		r.Get("/", s.handleListBanners)
		r.Post("/", s.handleCreateBanner)
		r.Patch("/reorder", s.handleReorderBanners)
		r.Get("/{id}", s.handleGetBanner)
		r.Patch("/{id}", s.handleUpdateBanner)
		r.Delete("/{id}", s.handleDeleteBanner)
	})
}

func (s *Server) bannerDeps() orchestrators.BannerDeps {
	return orchestrators.BannerDeps{Runtime: s.runtime(), BannerStore: s.Stores.Banners}
}

func (s *Server) handleListBanners(w http.ResponseWriter, r *http.Request) {
	list, err := projections.QueryListBanners(r.Context(), s.Stores.Banners)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetBanner(w http.ResponseWriter, r *http.Request) {
	b, err := projections.QueryGet[banner.Banner](r.Context(), chi.URLParam(r, "id"), s.Stores.Banners, banner.ErrNotFound, "banner")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleCreateBanner(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.CreateBannerInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ActorID = actorID(r)
	b, err := orchestrators.ExecuteCreateBanner(r.Context(), in, s.bannerDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) handleUpdateBanner(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.UpdateBannerInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ID, in.ActorID = chi.URLParam(r, "id"), actorID(r)
	b, err := orchestrators.ExecuteUpdateBanner(r.Context(), in, s.bannerDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBanner(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteBanner(r.Context(), chi.URLParam(r, "id"), actorID(r), s.bannerDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Banner deleted successfully")
}

// handleReorderBanners assigns order = index to each listed banner (PATCH /api/banners/reorder).
// POST: all orders change in one transaction, or none when an id is unknown
func (s *Server) handleReorderBanners(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.ReorderBannersInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ActorID = actorID(r)
	if err := orchestrators.ExecuteReorderBanners(r.Context(), in, s.bannerDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Banners reordered successfully")
}

// --- Quizzes ---

func (s *Server) quizRoutes(r chi.Router) {
	r.Route("/quizzes", func(r chi.Router) {
		r.Get("/", s.handleListQuizzes)
		r.Post("/", s.handleCreateQuiz)
		r.Get("/{id}", s.handleGetQuiz)
		r.Patch("/{id}", s.handleUpdateQuiz)
		r.Delete("/{id}", s.handleDeleteQuiz)
	})
}

func (s *Server) quizDeps() orchestrators.QuizDeps {
	return orchestrators.QuizDeps{Runtime: s.runtime(), QuizStore: s.Stores.Quizzes}
}

func (s *Server) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := projections.QueryListQuizzes(r.Context(), listutil.ParsePageParams(q), q.Get("targetAudience"), s.Stores.Quizzes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	qz, err := projections.QueryGet[quiz.Quiz](r.Context(), chi.URLParam(r, "id"), s.Stores.Quizzes, quiz.ErrNotFound, "quiz")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, qz)
}

func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.CreateQuizInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ActorID = actorID(r)
	qz, err := orchestrators.ExecuteCreateQuiz(r.Context(), in, s.quizDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, qz)
}

func (s *Server) handleUpdateQuiz(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.UpdateQuizInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ID, in.ActorID = chi.URLParam(r, "id"), actorID(r)
	qz, err := orchestrators.ExecuteUpdateQuiz(r.Context(), in, s.quizDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, qz)
}

func (s *Server) handleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteQuiz(r.Context(), chi.URLParam(r, "id"), actorID(r), s.quizDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Quiz deleted successfully")
}

// --- Resources ---

func (s *Server) resourceRoutes(r chi.Router) {
	r.Route("/resources", func(r chi.Router) {
		r.Get("/", s.handleListResources)
		r.Post("/", s.handleCreateResource)
		r.Get("/{id}", s.handleGetResource)
		r.Patch("/{id}", s.handleUpdateResource)
		r.Delete("/{id}", s.handleDeleteResource)
	})
}

func (s *Server) resourceDeps() orchestrators.ResourceDeps {
	return orchestrators.ResourceDeps{Runtime: s.runtime(), ResourceStore: s.Stores.Resources}
}

func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := projections.QueryListResources(r.Context(), listutil.ParsePageParams(q), q.Get("targetAudience"), q.Get("type"), s.Stores.Resources)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetResource(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryGet[resource.Resource](r.Context(), chi.URLParam(r, "id"), s.Stores.Resources, resource.ErrNotFound, "resource")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.CreateResourceInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ActorID = actorID(r)
	res, err := orchestrators.ExecuteCreateResource(r.Context(), in, s.resourceDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.UpdateResourceInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ID, in.ActorID = chi.URLParam(r, "id"), actorID(r)
	res, err := orchestrators.ExecuteUpdateResource(r.Context(), in, s.resourceDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteResource(r.Context(), chi.URLParam(r, "id"), actorID(r), s.resourceDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Resource deleted successfully")
}
