package handlers

import (
	"encoding/json"
	"net/http"

	"safetrack/internal/middleware"
	"safetrack/internal/service"
)

// ActionHandler handles corrective action requests
type ActionHandler struct {
	actionService *service.ActionService
}

// NewActionHandler creates a new corrective action handler
func NewActionHandler(actionService *service.ActionService) *ActionHandler {
	return &ActionHandler{actionService: actionService}
}

// StatusRequest represents a status change request
type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// List lists corrective actions
// @Summary List corrective actions
// @Description List corrective actions, optionally filtered by status
// @Tags Actions
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status (pending, in_progress, done)"
// @Success 200 {array} models.CorrectiveAction "Corrective actions"
// @Failure 400 {object} map[string]string "Invalid status"
// @Router /actions [get]
func (h *ActionHandler) List(w http.ResponseWriter, r *http.Request) {
	actions, err := h.actionService.List(r.URL.Query().Get("status"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, actions)
}

// Get returns one corrective action
// @Summary Get a corrective action
// @Description Get a corrective action by ID
// @Tags Actions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Action ID"
// @Success 200 {object} models.CorrectiveAction "Corrective action"
// @Failure 404 {object} map[string]string "Not found"
// @Router /actions/{id} [get]
func (h *ActionHandler) Get(w http.ResponseWriter, r *http.Request) {
	actionID, ok := pathID(w, r, "id", ErrMsgInvalidActionID)
	if !ok {
		return
	}

	action, err := h.actionService.Get(actionID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, action)
}

// Create creates a corrective action manually
// @Summary Create a corrective action
// @Description Create a corrective action outside the submission pipeline
// @Tags Actions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ActionInput true "Action details"
// @Success 201 {object} models.CorrectiveAction "Created action"
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /actions [post]
func (h *ActionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	var input service.ActionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	action, err := h.actionService.Create(userID, input)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, action)
}

// UpdateStatus changes a corrective action's status
// @Summary Update action status
// @Description Move a corrective action through pending, in_progress and done
// @Tags Actions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Action ID"
// @Param request body StatusRequest true "New status"
// @Success 200 {object} models.CorrectiveAction "Updated action"
// @Failure 400 {object} map[string]string "Invalid status"
// @Failure 404 {object} map[string]string "Not found"
// @Router /actions/{id}/status [put]
func (h *ActionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	actionID, ok := pathID(w, r, "id", ErrMsgInvalidActionID)
	if !ok {
		return
	}

	var req StatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	action, err := h.actionService.UpdateStatus(userID, actionID, req.Status)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, action)
}
