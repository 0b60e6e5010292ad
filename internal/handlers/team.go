package handlers

import (
	"net/http"

	"github.com/crucial707/hrms/internal/models"
	"github.com/crucial707/hrms/internal/service"
)

const teamNotFound = "Team not found"

// TeamHandler serves /api/teams.
type TeamHandler struct {
	Service *service.TeamService
}

type teamInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=1000"`
}

func (in teamInput) fields() models.TeamFields {
	return models.TeamFields{Name: in.Name, Description: in.Description}
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	teams, err := h.Service.List(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err, teamNotFound)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := urlID(r, "id")
	if !ok {
		JSONError(w, "invalid team id", http.StatusBadRequest)
		return
	}
	t, err := h.Service.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, r, err, teamNotFound)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	var input teamInput
	if !decodeAndValidate(w, r, &input) {
		return
	}
	t, err := h.Service.Create(r.Context(), actor, input.fields())
	if err != nil {
		writeServiceError(w, r, err, teamNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TeamHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := urlID(r, "id")
	if !ok {
		JSONError(w, "invalid team id", http.StatusBadRequest)
		return
	}
	var input teamInput
	if !decodeAndValidate(w, r, &input) {
		return
	}
	t, err := h.Service.Update(r.Context(), actor, id, input.fields())
	if err != nil {
		writeServiceError(w, r, err, teamNotFound)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := urlID(r, "id")
	if !ok {
		JSONError(w, "invalid team id", http.StatusBadRequest)
		return
	}
	if err := h.Service.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, r, err, teamNotFound)
		return
	}
	writeJSON(w, http.StatusOK, message{"Team deleted successfully"})
}
