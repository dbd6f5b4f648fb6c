package handlers

import (
	"net/http"

	"safetrack/internal/config"
	"safetrack/internal/database"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	db     *database.Database
	config *config.Config
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.Database, cfg *config.Config) *HealthHandler {
	return &HealthHandler{db: db, config: cfg}
}

// Health reports service and database health
// @Summary Health check
// @Description Report service health including database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string "Healthy"
// @Failure 503 {object} map[string]string "Database unreachable"
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.HealthCheck(); err != nil {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unhealthy",
			"database": "unreachable",
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"name":    h.config.App.Name,
		"version": h.config.App.Version,
	})
}
