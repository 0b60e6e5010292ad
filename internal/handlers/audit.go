package handlers

import (
	"net/http"
	"strconv"

	"github.com/crucial707/hrms/internal/models"
	"github.com/crucial707/hrms/internal/service"
)

// AuditHandler serves /api/logs.
type AuditHandler struct {
	Service *service.AuditService
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// List returns one page of entries. Query: page, limit, action, entityType.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	page, err := queryInt(r, "page", 1)
	if err != nil {
		JSONValidationError(w, "validation failed", map[string]string{"page": "must be a number"}, http.StatusBadRequest)
		return
	}
	limit, err := queryInt(r, "limit", service.DefaultLogLimit)
	if err != nil {
		JSONValidationError(w, "validation failed", map[string]string{"limit": "must be a number"}, http.StatusBadRequest)
		return
	}

	q := r.URL.Query()
	result, err := h.Service.Query(r.Context(), actor, models.LogFilter{
		Action:     models.Action(q.Get("action")),
		EntityType: models.EntityType(q.Get("entityType")),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		writeServiceError(w, r, err, "not found")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Logs       []models.LogEntry `json:"logs"`
		Pagination pagination        `json:"pagination"`
	}{
		Logs: result.Entries,
		Pagination: pagination{
			Page:  result.Page,
			Limit: result.Limit,
			Total: result.Total,
			Pages: result.Pages,
		},
	})
}

// Stats returns per-action counts. Query: days (default 30).
func (h *AuditHandler) Stats(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	days, err := queryInt(r, "days", service.DefaultStatsDays)
	if err != nil || days < 1 {
		JSONValidationError(w, "validation failed", map[string]string{"days": "must be a positive number"}, http.StatusBadRequest)
		return
	}

	stats, err := h.Service.Stats(r.Context(), actor, days)
	if err != nil {
		writeServiceError(w, r, err, "not found")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AuditHandler) Clear(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}
	n, err := h.Service.ClearAll(r.Context(), actor)
	if err != nil {
		writeServiceError(w, r, err, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Successfully cleared " + strconv.Itoa(n) + " log entries",
		"logsCleared": n,
	})
}

// ClearOld deletes entries older than {days}. A missing body or days uses the default.
func (h *AuditHandler) ClearOld(w http.ResponseWriter, r *http.Request) {
	actor, ok := identity(w, r)
	if !ok {
		return
	}

	var input struct {
		Days *int `json:"days"`
	}
	if !decodeOptional(w, r, &input) {
		return
	}
	days := service.DefaultClearDays
	if input.Days != nil {
		days = *input.Days
	}

	n, err := h.Service.ClearOlderThan(r.Context(), actor, days)
	if err != nil {
		writeServiceError(w, r, err, "not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Successfully cleared " + strconv.Itoa(n) + " log entries older than " + strconv.Itoa(days) + " days",
		"logsCleared": n,
		"days":        days,
	})
}
