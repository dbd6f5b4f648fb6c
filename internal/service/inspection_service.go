package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"safetrack/internal/config"
	"safetrack/internal/email"
	"safetrack/internal/models"
	"safetrack/internal/report"
	"safetrack/internal/repository"
)

// Corrective actions fall due one week after submission
const actionDueOffset = 7 * 24 * time.Hour

// Fallback text when a failing response carries no note
const defaultCorrectiveAction = "Investigate and resolve the reported failure"

// ChecklistStore is the catalog read surface the lifecycle depends on.
// GetByID ignores the active flag: submissions and reports must keep working
// after a checklist is deactivated.
type ChecklistStore interface {
	GetActiveWithItems(checklistID uint) (*models.ChecklistWithItems, error)
	GetByID(checklistID uint) (*models.Checklist, error)
	GetItems(checklistID uint) ([]models.ChecklistItem, error)
}

// InspectionStore persists inspections and their state transition
type InspectionStore interface {
	GetOpen(checklistID, inspectorID uint) (*models.Inspection, error)
	Create(inspection *models.Inspection) error
	GetByID(inspectionID uint) (*models.Inspection, error)
	SubmitResponses(inspectionID uint, responses []models.Response, submittedAt time.Time) (bool, error)
	GetByInspectorWithDetails(inspectorID uint) ([]models.InspectionWithDetails, error)
}

// ResponseStore reads back persisted responses
type ResponseStore interface {
	GetByInspectionID(inspectionID uint) ([]models.Response, error)
}

// ActionStore creates derived corrective actions
type ActionStore interface {
	Create(action *models.CorrectiveAction) error
}

// RecipientStore resolves role-based notification recipients and single
// users for report headers
type RecipientStore interface {
	GetByID(userID uint) (*models.User, error)
	ListActiveByRole(roleName string) ([]models.User, error)
}

// AlertSender delivers critical-failure notifications
type AlertSender interface {
	SendInspectionFailedAlert(to string, alert email.InspectionAlert) error
}

// AuditStore records audit trail entries
type AuditStore interface {
	Create(entry *models.AuditLog) error
}

// InspectionService owns the inspection lifecycle: start, submit with
// escalation and fan-out, and the summary statistics
type InspectionService struct {
	checklists  ChecklistStore
	inspections InspectionStore
	responses   ResponseStore
	actions     ActionStore
	recipients  RecipientStore
	alerts      AlertSender
	audit       AuditStore
	notifyCfg   config.NotifyConfig
}

// NewInspectionService creates a new inspection service
func NewInspectionService(
	checklists ChecklistStore,
	inspections InspectionStore,
	responses ResponseStore,
	actions ActionStore,
	recipients RecipientStore,
	alerts AlertSender,
	audit AuditStore,
	notifyCfg config.NotifyConfig,
) *InspectionService {
	return &InspectionService{
		checklists:  checklists,
		inspections: inspections,
		responses:   responses,
		actions:     actions,
		recipients:  recipients,
		alerts:      alerts,
		audit:       audit,
		notifyCfg:   notifyCfg,
	}
}

// InspectionRef builds the stable human-readable reference for an inspection
func InspectionRef(inspectionID uint) string {
	return fmt.Sprintf("INS-%d", inspectionID)
}

// Start creates or resumes the single open inspection for the given
// (inspector, checklist) pair. Calling it twice never creates two open
// inspections: an existing open inspection is returned unchanged, and an
// insert losing the uniqueness race falls back to re-reading the winner.
func (s *InspectionService) Start(inspectorID, checklistID uint) (*models.Inspection, error) {
	if inspectorID == 0 {
		return nil, ErrUnauthenticated
	}

	checklist, err := s.checklists.GetActiveWithItems(checklistID)
	if err != nil {
		return nil, err
	}
	if checklist == nil {
		return nil, fmt.Errorf("checklist %d missing or inactive: %w", checklistID, ErrNotFound)
	}

	existing, err := s.inspections.GetOpen(checklistID, inspectorID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	inspection := &models.Inspection{
		ChecklistID: checklistID,
		InspectorID: inspectorID,
	}
	if err := s.inspections.Create(inspection); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			// Lost the race against a concurrent start; the winner's row is
			// the open inspection for this pair
			winner, readErr := s.inspections.GetOpen(checklistID, inspectorID)
			if readErr != nil {
				return nil, readErr
			}
			if winner == nil {
				return nil, err
			}
			return winner, nil
		}
		return nil, err
	}

	if err := s.audit.Create(&models.AuditLog{
		UserID:   &inspectorID,
		Action:   "start",
		Resource: "inspection",
		Details:  fmt.Sprintf("Started inspection %s for checklist %d", InspectionRef(inspection.ID), checklistID),
	}); err != nil {
		slog.Error("Failed to write audit entry",
			"action", "start",
			"inspection_id", inspection.ID,
			"error", err,
		)
	}

	return inspection, nil
}

// Submit validates and persists the response set, derives corrective actions
// for critical failures, and fans out notifications. Only the response
// persistence is all-or-nothing; escalation and notification are best-effort
// and independently observable through the returned counts.
func (s *InspectionService) Submit(inspectorID, inspectionID uint, inputs []models.ResponseInput) (*models.SubmissionResult, error) {
	if inspectorID == 0 {
		return nil, ErrUnauthenticated
	}

	inspection, err := s.inspections.GetByID(inspectionID)
	if err != nil {
		return nil, err
	}
	if inspection == nil {
		return nil, fmt.Errorf("inspection %d: %w", inspectionID, ErrNotFound)
	}
	if inspection.InspectorID != inspectorID {
		return nil, fmt.Errorf("inspection %d belongs to another inspector: %w", inspectionID, ErrForbidden)
	}
	if inspection.SubmittedAt != nil {
		return nil, ErrAlreadySubmitted
	}

	items, err := s.checklists.GetItems(inspection.ChecklistID)
	if err != nil {
		return nil, err
	}

	responses, err := buildResponses(inspectionID, inputs, items)
	if err != nil {
		return nil, err
	}

	// Phase 1: persist responses and stamp submitted_at atomically. A
	// concurrent double-submit loses the update race here and reports
	// AlreadySubmitted without reaching escalation.
	submittedAt := time.Now().UTC().Truncate(time.Second)
	committed, err := s.inspections.SubmitResponses(inspectionID, responses, submittedAt)
	if err != nil {
		return nil, err
	}
	if !committed {
		return nil, ErrAlreadySubmitted
	}

	// Phase 2: derive one corrective action per critical failure, best-effort
	// per item
	criticalItems := make(map[uint]models.ChecklistItem)
	for _, item := range items {
		if item.Critical {
			criticalItems[item.ID] = item
		}
	}

	qualifying := 0
	created := 0
	for _, response := range responses {
		item, ok := criticalItems[response.ItemID]
		if !ok || response.Result != models.ResultFail {
			continue
		}
		qualifying++

		correctiveAction := response.Note
		if correctiveAction == "" {
			correctiveAction = defaultCorrectiveAction
		}

		action := &models.CorrectiveAction{
			Description:      fmt.Sprintf("Inspection failure: %s", item.Text),
			CorrectiveAction: correctiveAction,
			TargetDate:       submittedAt.Add(actionDueOffset),
			Priority:         "high",
			Status:           models.ActionStatusPending,
			Attachments:      response.Photos,
			CreatedBy:        inspectorID,
		}
		if err := s.actions.Create(action); err != nil {
			slog.Error("Failed to create corrective action",
				"inspection_id", inspectionID,
				"item_id", response.ItemID,
				"error", err,
			)
			continue
		}
		created++
	}

	if created < qualifying {
		slog.Warn("Escalation completed partially",
			"inspection_id", inspectionID,
			"qualifying_failures", qualifying,
			"created_actions", created,
		)
	}

	// Phase 3: fan out notifications, at most one attempt per recipient;
	// failures never surface to the caller
	if qualifying > 0 {
		s.notifyFailures(inspection, qualifying)
	}

	if err := s.audit.Create(&models.AuditLog{
		UserID:   &inspectorID,
		Action:   "submit",
		Resource: "inspection",
		Details: fmt.Sprintf("Submitted inspection %s with %d critical failure(s), %d action(s) created",
			InspectionRef(inspectionID), qualifying, created),
	}); err != nil {
		slog.Error("Failed to write audit entry",
			"action", "submit",
			"inspection_id", inspectionID,
			"error", err,
		)
	}

	return &models.SubmissionResult{
		SubmittedAt:        submittedAt,
		QualifyingFailures: qualifying,
		CreatedActions:     created,
	}, nil
}

// buildResponses validates the submission payload against the checklist items
func buildResponses(inspectionID uint, inputs []models.ResponseInput, items []models.ChecklistItem) ([]models.Response, error) {
	knownItems := make(map[uint]bool, len(items))
	for _, item := range items {
		knownItems[item.ID] = true
	}

	seen := make(map[uint]bool, len(inputs))
	responses := make([]models.Response, 0, len(inputs))
	for _, input := range inputs {
		if !knownItems[input.ItemID] {
			return nil, fmt.Errorf("item %d is not on the checklist: %w", input.ItemID, ErrValidation)
		}
		if seen[input.ItemID] {
			return nil, fmt.Errorf("duplicate response for item %d: %w", input.ItemID, ErrValidation)
		}
		seen[input.ItemID] = true

		result := input.Result
		if result == "" {
			// An item the form never touched defaults to not-applicable
			result = models.ResultNA
		}
		switch result {
		case models.ResultPass, models.ResultFail, models.ResultNA:
		default:
			return nil, fmt.Errorf("invalid result %q for item %d: %w", input.Result, input.ItemID, ErrValidation)
		}

		responses = append(responses, models.Response{
			InspectionID: inspectionID,
			ItemID:       input.ItemID,
			Result:       result,
			Note:         input.Note,
			Photos:       input.Photos,
		})
	}

	return responses, nil
}

// notifyFailures resolves the alert-role recipients and sends each one an
// inspection-failed notification. One attempt per recipient, no retry.
func (s *InspectionService) notifyFailures(inspection *models.Inspection, qualifying int) {
	checklist, err := s.checklists.GetByID(inspection.ChecklistID)
	checklistName := ""
	if err == nil && checklist != nil {
		checklistName = checklist.Name
	}

	users, err := s.recipients.ListActiveByRole(s.notifyCfg.AlertRole)
	if err != nil {
		slog.Error("Failed to resolve notification recipients",
			"role", s.notifyCfg.AlertRole,
			"inspection_id", inspection.ID,
			"error", err,
		)
		return
	}

	alert := email.InspectionAlert{
		ChecklistName: checklistName,
		FailureCount:  qualifying,
		Reference:     InspectionRef(inspection.ID),
		Link:          fmt.Sprintf("%s/%d", s.notifyCfg.InspectionLinkBase, inspection.ID),
	}

	for _, user := range users {
		if err := s.alerts.SendInspectionFailedAlert(user.Email, alert); err != nil {
			slog.Error("Failed to send inspection-failed notification",
				"recipient", user.Email,
				"inspection_id", inspection.ID,
				"error", err,
			)
		}
	}
}

// Stats computes the summary counts for an inspection. The counting rules are
// shared with the report compiler so the dashboard and the formal report can
// never disagree.
func (s *InspectionService) Stats(userID uint, userRoles []string, inspectionID uint) (*models.InspectionStats, error) {
	inspection, _, _, err := s.loadForRead(userID, userRoles, inspectionID)
	if err != nil {
		return nil, err
	}

	items, err := s.checklists.GetItems(inspection.ChecklistID)
	if err != nil {
		return nil, err
	}
	responses, err := s.responses.GetByInspectionID(inspectionID)
	if err != nil {
		return nil, err
	}

	stats := report.CountResponses(items, responses)
	return &stats, nil
}

// Get returns one inspection with its recorded responses. Open inspections
// have no responses yet.
func (s *InspectionService) Get(userID uint, userRoles []string, inspectionID uint) (*models.Inspection, []models.Response, error) {
	inspection, _, _, err := s.loadForRead(userID, userRoles, inspectionID)
	if err != nil {
		return nil, nil, err
	}
	responses, err := s.responses.GetByInspectionID(inspectionID)
	if err != nil {
		return nil, nil, err
	}
	return inspection, responses, nil
}

// Report compiles the formal report document for an inspection. An open
// inspection yields a partial report with a zero submission time. It shares
// its counting rules with Stats, so the two can never disagree.
func (s *InspectionService) Report(userID uint, userRoles []string, inspectionID uint) (*report.Document, error) {
	inspection, _, _, err := s.loadForRead(userID, userRoles, inspectionID)
	if err != nil {
		return nil, err
	}

	checklist, err := s.checklists.GetByID(inspection.ChecklistID)
	if err != nil {
		return nil, err
	}
	if checklist == nil {
		return nil, fmt.Errorf("checklist %d: %w", inspection.ChecklistID, ErrNotFound)
	}

	items, err := s.checklists.GetItems(inspection.ChecklistID)
	if err != nil {
		return nil, err
	}
	responses, err := s.responses.GetByInspectionID(inspectionID)
	if err != nil {
		return nil, err
	}
	inspector, err := s.recipients.GetByID(inspection.InspectorID)
	if err != nil {
		return nil, err
	}

	return report.Compile(InspectionRef(inspectionID), inspection, checklist, inspector, items, responses), nil
}

// GetForInspector returns the caller's inspections, newest first
func (s *InspectionService) GetForInspector(inspectorID uint) ([]models.InspectionWithDetails, error) {
	if inspectorID == 0 {
		return nil, ErrUnauthenticated
	}
	return s.inspections.GetByInspectorWithDetails(inspectorID)
}

// loadForRead fetches an inspection and enforces read permissions: the owner,
// safety managers and admins may view
func (s *InspectionService) loadForRead(userID uint, userRoles []string, inspectionID uint) (*models.Inspection, bool, bool, error) {
	if userID == 0 {
		return nil, false, false, ErrUnauthenticated
	}

	inspection, err := s.inspections.GetByID(inspectionID)
	if err != nil {
		return nil, false, false, err
	}
	if inspection == nil {
		return nil, false, false, fmt.Errorf("inspection %d: %w", inspectionID, ErrNotFound)
	}

	isOwner := inspection.InspectorID == userID
	isElevated := hasAnyRole(userRoles, s.notifyCfg.AlertRole, "admin")
	if !isOwner && !isElevated {
		return nil, false, false, fmt.Errorf("inspection %d: %w", inspectionID, ErrForbidden)
	}

	return inspection, isOwner, isElevated, nil
}

func hasAnyRole(roles []string, wanted ...string) bool {
	for _, role := range roles {
		for _, w := range wanted {
			if role == w {
				return true
			}
		}
	}
	return false
}
