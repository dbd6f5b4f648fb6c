package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"safetrack/internal/middleware"
	"safetrack/internal/models"
	"safetrack/internal/report"
	"safetrack/internal/service"
)

// InspectionHandler handles inspection lifecycle requests
type InspectionHandler struct {
	inspectionService *service.InspectionService
	authService       *service.AuthService
}

// NewInspectionHandler creates a new inspection handler
func NewInspectionHandler(inspectionService *service.InspectionService, authService *service.AuthService) *InspectionHandler {
	return &InspectionHandler{
		inspectionService: inspectionService,
		authService:       authService,
	}
}

// StartRequest represents a start-inspection request
type StartRequest struct {
	ChecklistID uint `json:"checklist_id" validate:"required"`
}

// SubmitRequest represents a submission payload
type SubmitRequest struct {
	Responses []models.ResponseInput `json:"responses"`
}

// Start starts or resumes an inspection
// @Summary Start an inspection
// @Description Create the open inspection for the caller on a checklist, or return the existing one
// @Tags Inspections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body StartRequest true "Checklist to inspect"
// @Success 201 {object} models.Inspection "Open inspection"
// @Failure 404 {object} map[string]string "Checklist missing or inactive"
// @Router /inspections [post]
func (h *InspectionHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.ChecklistID == 0 {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidChecklistID)
		return
	}

	inspection, err := h.inspectionService.Start(userID, req.ChecklistID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, inspection)
}

// ListMine lists the caller's inspections
// @Summary List own inspections
// @Description List the caller's inspections, open and submitted
// @Tags Inspections
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.InspectionWithDetails "Inspections"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /inspections [get]
func (h *InspectionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	inspections, err := h.inspectionService.GetForInspector(userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, inspections)
}

// Get returns one inspection with its responses
// @Summary Get an inspection
// @Description Get an inspection and its recorded responses
// @Tags Inspections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Inspection ID"
// @Success 200 {object} map[string]interface{} "Inspection with responses"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Router /inspections/{id} [get]
func (h *InspectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, roles, ok := h.caller(w, r)
	if !ok {
		return
	}

	inspectionID, ok := pathID(w, r, "id", ErrMsgInvalidInspectionID)
	if !ok {
		return
	}

	inspection, responses, err := h.inspectionService.Get(userID, roles, inspectionID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	if responses == nil {
		responses = []models.Response{}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"inspection": inspection,
		"reference":  service.InspectionRef(inspectionID),
		"responses":  responses,
	})
}

// Submit submits an inspection's responses
// @Summary Submit an inspection
// @Description Persist the response set, create corrective actions for critical failures and notify safety managers
// @Tags Inspections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Inspection ID"
// @Param request body SubmitRequest true "Responses"
// @Success 200 {object} models.SubmissionResult "Submission result"
// @Failure 400 {object} map[string]string "Invalid responses"
// @Failure 409 {object} map[string]string "Already submitted"
// @Router /inspections/{id}/submit [post]
func (h *InspectionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return
	}

	inspectionID, ok := pathID(w, r, "id", ErrMsgInvalidInspectionID)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}

	result, err := h.inspectionService.Submit(userID, inspectionID, req.Responses)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Stats returns an inspection's summary counts
// @Summary Get inspection stats
// @Description Get the pass/fail/na summary counts for an inspection
// @Tags Inspections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Inspection ID"
// @Success 200 {object} models.InspectionStats "Summary counts"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Router /inspections/{id}/stats [get]
func (h *InspectionHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, roles, ok := h.caller(w, r)
	if !ok {
		return
	}

	inspectionID, ok := pathID(w, r, "id", ErrMsgInvalidInspectionID)
	if !ok {
		return
	}

	stats, err := h.inspectionService.Stats(userID, roles, inspectionID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// Report returns the compiled report document for an inspection. Open
// inspections yield a partial report with no submission time.
// @Summary Get inspection report
// @Description Get the structured report document for an inspection
// @Tags Inspections
// @Produce json
// @Security BearerAuth
// @Param id path int true "Inspection ID"
// @Success 200 {object} report.Document "Report document"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Router /inspections/{id}/report [get]
func (h *InspectionHandler) Report(w http.ResponseWriter, r *http.Request) {
	userID, roles, ok := h.caller(w, r)
	if !ok {
		return
	}

	inspectionID, ok := pathID(w, r, "id", ErrMsgInvalidInspectionID)
	if !ok {
		return
	}

	doc, err := h.inspectionService.Report(userID, roles, inspectionID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, doc)
}

// ReportPDF renders the report as a downloadable PDF
// @Summary Download inspection report PDF
// @Description Render an inspection's report as a PDF
// @Tags Inspections
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "Inspection ID"
// @Success 200 {file} file "PDF report"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not found"
// @Router /inspections/{id}/report/pdf [get]
func (h *InspectionHandler) ReportPDF(w http.ResponseWriter, r *http.Request) {
	userID, roles, ok := h.caller(w, r)
	if !ok {
		return
	}

	inspectionID, ok := pathID(w, r, "id", ErrMsgInvalidInspectionID)
	if !ok {
		return
	}

	doc, err := h.inspectionService.Report(userID, roles, inspectionID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	pdf, err := report.RenderPDF(doc)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, doc.Reference))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// caller resolves the authenticated user and their role names
func (h *InspectionHandler) caller(w http.ResponseWriter, r *http.Request) (uint, []string, bool) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, ErrMsgUserIDNotFound)
		return 0, nil, false
	}

	roles, err := h.authService.RoleNames(userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to get user roles")
		return 0, nil, false
	}

	return userID, roles, true
}
