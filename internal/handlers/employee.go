package handlers

import (
	"net/http"

	"github.com/crucial707/hrms/internal/models"
	"github.com/crucial707/hrms/internal/service"
)

const employeeNotFound = "Employee not found"

// EmployeeHandler serves /api/employees.
type EmployeeHandler struct {
	Service *service.EmployeeService
}

type employeeInput struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone" validate:"max=50"`
}

func (in employeeInput) fields() models.EmployeeFields {
	return models.EmployeeFields{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
	}
}

func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	employees, err := h.Service.List(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err, employeeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := urlID(r, "id")
	if !ok {
		JSONError(w, "invalid employee id", http.StatusBadRequest)
		return
	}
	e, err := h.Service.Get(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, r, err, employeeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	var input employeeInput
	if !decodeAndValidate(w, r, &input) {
		return
	}
	e, err := h.Service.Create(r.Context(), actor, input.fields())
	if err != nil {
		writeServiceError(w, r, err, employeeNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := urlID(r, "id")
	if !ok {
		JSONError(w, "invalid employee id", http.StatusBadRequest)
		return
	}
	var input employeeInput
	if !decodeAndValidate(w, r, &input) {
		return
	}
	e, err := h.Service.Update(r.Context(), actor, id, input.fields())
	if err != nil {
		writeServiceError(w, r, err, employeeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := urlID(r, "id")
	if !ok {
		JSONError(w, "invalid employee id", http.StatusBadRequest)
		return
	}
	if err := h.Service.Delete(r.Context(), actor, id); err != nil {
		writeServiceError(w, r, err, employeeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, message{"Employee deleted successfully"})
}

// AssignTeams replaces the employee's team set. An empty list clears it.
func (h *EmployeeHandler) AssignTeams(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := urlID(r, "id")
	if !ok {
		JSONError(w, "invalid employee id", http.StatusBadRequest)
		return
	}
	var input struct {
		TeamIDs []int `json:"teamIds" validate:"required,dive,gt=0"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	out, err := h.Service.AssignTeams(r.Context(), actor, id, input.TeamIDs)
	if err != nil {
		writeServiceError(w, r, err, employeeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
		*service.Assignment
	}{"Team assignments updated successfully", out})
}

func (h *EmployeeHandler) Teams(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	id, ok := urlID(r, "id")
	if !ok {
		JSONError(w, "invalid employee id", http.StatusBadRequest)
		return
	}
	teams, err := h.Service.Teams(r.Context(), actor, id)
	if err != nil {
		writeServiceError(w, r, err, employeeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, teams)
}
