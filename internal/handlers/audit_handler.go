package handlers

import (
	"net/http"
	"strconv"

	"safetrack/internal/repository"
)

// AuditHandler handles audit log requests
type AuditHandler struct {
	auditRepo *repository.AuditRepository
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditRepo *repository.AuditRepository) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}

// List lists recent audit log entries (admin only)
// @Summary List audit logs
// @Description Get the most recent audit log entries (admin only)
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries" default(100)
// @Success 200 {array} models.AuditLog "Audit logs"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden - admin only"
// @Router /admin/audit-logs [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}

	logs, err := h.auditRepo.List(limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve audit logs")
		return
	}

	respondWithJSON(w, http.StatusOK, logs)
}
