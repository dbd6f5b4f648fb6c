package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"safetrack/internal/middleware"
	"safetrack/internal/service"
)

// ChecklistHandler handles checklist catalog requests
type ChecklistHandler struct {
	checklistService *service.ChecklistService
}

// NewChecklistHandler creates a new checklist handler
func NewChecklistHandler(checklistService *service.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{checklistService: checklistService}
}

// List lists checklists
// @Summary List checklists
// @Description List checklists. Pass active=true to restrict to active ones.
// @Tags Checklists
// @Produce json
// @Security BearerAuth
// @Param active query bool false "Only active checklists"
// @Success 200 {array} models.Checklist "Checklists"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /checklists [get]
func (h *ChecklistHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	checklists, err := h.checklistService.List(activeOnly)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, checklists)
}

// Get returns one checklist with its items
// @Summary Get a checklist
// @Description Get a checklist with its ordered items
// @Tags Checklists
// @Produce json
// @Security BearerAuth
// @Param id path int true "Checklist ID"
// @Success 200 {object} models.ChecklistWithItems "Checklist"
// @Failure 404 {object} map[string]string "Not found"
// @Router /checklists/{id} [get]
func (h *ChecklistHandler) Get(w http.ResponseWriter, r *http.Request) {
	checklistID, ok := pathID(w, r, "id", ErrMsgInvalidChecklistID)
	if !ok {
		return
	}

	checklist, err := h.checklistService.Get(checklistID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, checklist)
}

// Create creates a checklist (admin only)
// @Summary Create a checklist
// @Description Create a new checklist
// @Tags Checklists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ChecklistInput true "Checklist details"
// @Success 201 {object} models.Checklist "Created checklist"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Forbidden - admin only"
// @Router /checklists [post]
func (h *ChecklistHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	var input service.ChecklistInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	checklist, err := h.checklistService.Create(userID, input)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, checklist)
}

// Update updates a checklist (admin only)
// @Summary Update a checklist
// @Description Update a checklist's name, category and active flag
// @Tags Checklists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Checklist ID"
// @Param request body service.ChecklistInput true "Checklist details"
// @Success 200 {object} models.Checklist "Updated checklist"
// @Failure 404 {object} map[string]string "Not found"
// @Router /checklists/{id} [put]
func (h *ChecklistHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	checklistID, ok := pathID(w, r, "id", ErrMsgInvalidChecklistID)
	if !ok {
		return
	}

	var input service.ChecklistInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	checklist, err := h.checklistService.Update(userID, checklistID, input)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, checklist)
}

// AddItem adds an item to a checklist (admin only)
// @Summary Add a checklist item
// @Description Append an item to a checklist
// @Tags Checklists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Checklist ID"
// @Param request body service.ItemInput true "Item details"
// @Success 201 {object} models.ChecklistItem "Created item"
// @Failure 404 {object} map[string]string "Not found"
// @Router /checklists/{id}/items [post]
func (h *ChecklistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	checklistID, ok := pathID(w, r, "id", ErrMsgInvalidChecklistID)
	if !ok {
		return
	}

	var input service.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	item, err := h.checklistService.AddItem(userID, checklistID, input)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, item)
}

// UpdateItem updates a checklist item (admin only)
// @Summary Update a checklist item
// @Description Update an item's text, critical flag and sort order
// @Tags Checklists
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Checklist ID"
// @Param itemID path int true "Item ID"
// @Param request body service.ItemInput true "Item details"
// @Success 200 {object} models.ChecklistItem "Updated item"
// @Failure 404 {object} map[string]string "Not found"
// @Router /checklists/{id}/items/{itemID} [put]
func (h *ChecklistHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	checklistID, ok := pathID(w, r, "id", ErrMsgInvalidChecklistID)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID", ErrMsgInvalidItemID)
	if !ok {
		return
	}

	var input service.ItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	item, err := h.checklistService.UpdateItem(userID, checklistID, itemID, input)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, item)
}

// RemoveItem deletes a checklist item (admin only)
// @Summary Delete a checklist item
// @Description Remove an item from a checklist
// @Tags Checklists
// @Produce json
// @Security BearerAuth
// @Param id path int true "Checklist ID"
// @Param itemID path int true "Item ID"
// @Success 200 {object} map[string]string "Deleted"
// @Failure 404 {object} map[string]string "Not found"
// @Router /checklists/{id}/items/{itemID} [delete]
func (h *ChecklistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	checklistID, ok := pathID(w, r, "id", ErrMsgInvalidChecklistID)
	if !ok {
		return
	}
	itemID, ok := pathID(w, r, "itemID", ErrMsgInvalidItemID)
	if !ok {
		return
	}

	if err := h.checklistService.RemoveItem(userID, checklistID, itemID); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}

// pathID parses a numeric path parameter, writing an error response when the
// value is missing or not a positive integer
func pathID(w http.ResponseWriter, r *http.Request, name, errMsg string) (uint, bool) {
	raw := r.PathValue(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		respondWithError(w, http.StatusBadRequest, errMsg)
		return 0, false
	}
	return uint(id), true
}
