package handlers

import (
	"net/http"

	"github.com/crucial707/hrms/internal/service"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Service *service.AuthService
}

// ==========================
// Register (creates organisation + first user)
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input struct {
		OrgName   string `json:"orgName" validate:"required,max=255"`
		AdminName string `json:"adminName" validate:"required,max=255"`
		Email     string `json:"email" validate:"required,email,max=255"`
		Password  string `json:"password" validate:"required,min=6,max=72"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	sess, err := h.Service.Register(r.Context(), service.RegisterInput{
		OrgName:   input.OrgName,
		AdminName: input.AdminName,
		Email:     input.Email,
		Password:  input.Password,
	})
	if err != nil {
		writeServiceError(w, r, err, "not found")
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if !decodeAndValidate(w, r, &input) {
		return
	}

	sess, err := h.Service.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		writeServiceError(w, r, err, "not found")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// ==========================
// Logout (records the event; tokens expire on their own)
// ==========================
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	if err := h.Service.Logout(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, message{"Logged out successfully"})
}
