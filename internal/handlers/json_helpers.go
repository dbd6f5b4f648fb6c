package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"safetrack/internal/service"
)

// respondWithJSON writes a JSON response with the given status code
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		w.Write([]byte(`{"error":"Internal server error"}`))
	}
}

// respondWithError writes a JSON error response
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps the service error taxonomy onto HTTP status
// codes. Anything outside the taxonomy is a 500 with a generic message so
// internals never leak to clients.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		respondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		respondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadySubmitted):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
