package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"growfitness/internal/application/listutil"
	"growfitness/internal/application/orchestrators"
	"growfitness/internal/application/projections"
	"growfitness/internal/domain/code"
	"growfitness/internal/domain/crm"
)

// --- Codes ---

func (s *Server) codeRoutes(r chi.Router) {
	r.Route("/codes", func(r chi.Router) {
		r.Get("/", s.handleListCodes)
		r.Post("/", s.handleCreateCode)
		r.Get("/{id}", s.handleGetCode)
		r.Patch("/{id}", s.handleUpdateCode)
		r.Delete("/{id}", s.handleDeleteCode)
	})
}

func (s *Server) codeDeps() orchestrators.CodeDeps {
	return orchestrators.CodeDeps{Runtime: s.runtime(), CodeStore: s.Stores.Codes}
}

func (s *Server) handleListCodes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := projections.QueryListCodes(r.Context(), listutil.ParsePageParams(q), q.Get("status"), s.Stores.Codes)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetCode(w http.ResponseWriter, r *http.Request) {
	c, err := projections.QueryGet[code.Code](r.Context(), chi.URLParam(r, "id"), s.Stores.Codes, code.ErrNotFound, "code")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleCreateCode stores a normalized promo code (POST /api/codes).
// POST: 201; 409 CODE_ALREADY_EXISTS when the uppercased code is taken
func (s *Server) handleCreateCode(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.CreateCodeInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ActorID = actorID(r)
	c, err := orchestrators.ExecuteCreateCode(r.Context(), in, s.codeDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateCode(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.UpdateCodeInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ID, in.ActorID = chi.URLParam(r, "id"), actorID(r)
	c, err := orchestrators.ExecuteUpdateCode(r.Context(), in, s.codeDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCode(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteCode(r.Context(), chi.URLParam(r, "id"), actorID(r), s.codeDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Code deleted successfully")
}

// --- CRM ---

func (s *Server) crmRoutes(r chi.Router) {
	r.Route("/crm", func(r chi.Router) {
		r.Get("/", s.handleListCrm)
		r.Post("/", s.handleCreateCrm)
		r.Get("/{id}", s.handleGetCrm)
		r.Patch("/{id}", s.handleUpdateCrm)
		r.Delete("/{id}", s.handleDeleteCrm)
		r.Post("/{id}/notes", s.handleAddCrmNote)
	})
}

func (s *Server) crmDeps() orchestrators.CrmDeps {
	return orchestrators.CrmDeps{Runtime: s.runtime(), CrmStore: s.Stores.Crm, UserStore: s.Stores.Users}
}

func (s *Server) handleListCrm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := projections.QueryListCrmContacts(r.Context(), listutil.ParsePageParams(q), q.Get("status"), q.Get("parentId"), s.Stores.Crm)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetCrm(w http.ResponseWriter, r *http.Request) {
	c, err := projections.QueryGet[crm.Contact](r.Context(), chi.URLParam(r, "id"), s.Stores.Crm, crm.ErrNotFound, "crm contact")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCreateCrm(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.CreateCrmContactInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ActorID = actorID(r)
	c, err := orchestrators.ExecuteCreateCrmContact(r.Context(), in, s.crmDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateCrm(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.UpdateCrmContactInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ID, in.ActorID = chi.URLParam(r, "id"), actorID(r)
	c, err := orchestrators.ExecuteUpdateCrmContact(r.Context(), in, s.crmDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCrm(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteCrmContact(r.Context(), chi.URLParam(r, "id"), actorID(r), s.crmDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "CRM contact deleted successfully")
}

func (s *Server) handleAddCrmNote(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.AddCrmNoteInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ContactID, in.ActorID = chi.URLParam(r, "id"), actorID(r)
	c, err := orchestrators.ExecuteAddCrmNote(r.Context(), in, s.crmDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
