package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/folioai/folio/internal/domain"
	"github.com/folioai/folio/internal/profile"
)

// PortfolioHandler exposes portfolio reads and admin CRUD.
type PortfolioHandler struct {
	store *profile.Store
}

// NewPortfolioHandler creates the portfolio HTTP handler.
func NewPortfolioHandler(store *profile.Store) *PortfolioHandler {
	return &PortfolioHandler{store: store}
}

// RegisterRoutes mounts the portfolio endpoints.
func (h *PortfolioHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/portfolio", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Post("/", h.handleAdd)
		r.Put("/", h.handleUpdate)
		r.Delete("/", h.handleDelete)
	})
}

func (h *PortfolioHandler) handleGet(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, h.store.Portfolio())
}

type addRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (h *PortfolioHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := Decode(w, r, &req); err != nil || len(req.Data) == 0 {
		Error(w, http.StatusBadRequest, "type and data are required")
		return
	}

	switch req.Type {
	case "achievement":
		var a domain.Achievement
		if err := json.Unmarshal(req.Data, &a); err != nil || a.Title == "" {
			Error(w, http.StatusBadRequest, "achievement requires a title")
			return
		}
		if err := h.store.AddAchievement(a); err != nil {
			Error(w, http.StatusInternalServerError, "failed to save portfolio")
			return
		}
		JSON(w, http.StatusCreated, a)

	case "project":
		var p domain.Project
		if err := json.Unmarshal(req.Data, &p); err != nil || p.Title == "" {
			Error(w, http.StatusBadRequest, "project requires a title")
			return
		}
		added, err := h.store.AddProject(p)
		if err != nil {
			Error(w, http.StatusInternalServerError, "failed to save portfolio")
			return
		}
		JSON(w, http.StatusCreated, added)

	case "certificate":
		var c domain.Certification
		if err := json.Unmarshal(req.Data, &c); err != nil || c.Name == "" {
			Error(w, http.StatusBadRequest, "certificate requires a name")
			return
		}
		if err := h.store.AddCertificate(c); err != nil {
			Error(w, http.StatusInternalServerError, "failed to save portfolio")
			return
		}
		JSON(w, http.StatusCreated, c)

	case "skill":
		var s struct {
			Category string `json:"category"`
			Skill    string `json:"skill"`
		}
		if err := json.Unmarshal(req.Data, &s); err != nil || s.Skill == "" {
			Error(w, http.StatusBadRequest, "skill requires a category and a skill")
			return
		}
		if err := h.store.AddSkill(s.Category, s.Skill); err != nil {
			Error(w, http.StatusBadRequest, err.Error())
			return
		}
		JSON(w, http.StatusCreated, s)

	default:
		Error(w, http.StatusBadRequest, "unknown portfolio entry type")
	}
}

type updateRequest struct {
	Type string          `json:"type"`
	ID   json.RawMessage `json:"id"`
	Data json.RawMessage `json:"data"`
}

func (h *PortfolioHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := Decode(w, r, &req); err != nil || len(req.Data) == 0 {
		Error(w, http.StatusBadRequest, "type and data are required")
		return
	}

	var err error
	switch req.Type {
	case "student":
		err = h.store.UpdateStudent(req.Data)

	case "project":
		var id int
		if jsonErr := json.Unmarshal(req.ID, &id); jsonErr != nil {
			Error(w, http.StatusBadRequest, "project updates require a numeric id")
			return
		}
		err = h.store.UpdateProject(id, req.Data)

	case "achievement":
		var title string
		if jsonErr := json.Unmarshal(req.ID, &title); jsonErr != nil || title == "" {
			Error(w, http.StatusBadRequest, "achievement updates require a title id")
			return
		}
		err = h.store.UpdateAchievement(title, req.Data)

	default:
		Error(w, http.StatusBadRequest, "unknown portfolio entry type")
		return
	}

	switch {
	case errors.Is(err, profile.ErrNotFound):
		Error(w, http.StatusNotFound, "portfolio entry not found")
	case err != nil:
		Error(w, http.StatusInternalServerError, "failed to save portfolio")
	default:
		JSON(w, http.StatusOK, map[string]bool{"updated": true})
	}
}

func (h *PortfolioHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	entryType := r.URL.Query().Get("type")
	id := r.URL.Query().Get("id")
	if id == "" {
		Error(w, http.StatusBadRequest, "id is required")
		return
	}

	var err error
	switch entryType {
	case "project":
		n, convErr := strconv.Atoi(id)
		if convErr != nil {
			Error(w, http.StatusBadRequest, "project ids are numeric")
			return
		}
		err = h.store.DeleteProject(n)

	case "achievement":
		err = h.store.DeleteAchievement(id)

	default:
		Error(w, http.StatusBadRequest, "unknown portfolio entry type")
		return
	}

	switch {
	case errors.Is(err, profile.ErrNotFound):
		Error(w, http.StatusNotFound, "portfolio entry not found")
	case err != nil:
		Error(w, http.StatusInternalServerError, "failed to save portfolio")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
