package service

import (
	"fmt"
	"time"

	"safetrack/internal/models"
)

// ActionAdminStore is the corrective action surface used by administration
type ActionAdminStore interface {
	Create(action *models.CorrectiveAction) error
	GetByID(actionID uint) (*models.CorrectiveAction, error)
	List(status string) ([]models.CorrectiveAction, error)
	ListOverdue(now time.Time) ([]models.CorrectiveAction, error)
	UpdateStatus(actionID uint, status string) error
}

// ActionService manages corrective actions after they have been created,
// whether derived from inspections or entered manually
type ActionService struct {
	actions ActionAdminStore
	audit   AuditStore
}

// NewActionService creates a new corrective action service
func NewActionService(actions ActionAdminStore, audit AuditStore) *ActionService {
	return &ActionService{actions: actions, audit: audit}
}

// ActionInput is the payload for manually creating a corrective action
type ActionInput struct {
	Description      string    `json:"description"`
	CorrectiveAction string    `json:"corrective_action"`
	TargetDate       time.Time `json:"target_date"`
	Priority         string    `json:"priority"`
	Attachments      []string  `json:"attachments,omitempty"`
}

// List returns corrective actions, optionally filtered by status
func (s *ActionService) List(status string) ([]models.CorrectiveAction, error) {
	if status != "" && !validActionStatus(status) {
		return nil, fmt.Errorf("invalid status %q: %w", status, ErrValidation)
	}
	return s.actions.List(status)
}

// Get returns one corrective action
func (s *ActionService) Get(actionID uint) (*models.CorrectiveAction, error) {
	action, err := s.actions.GetByID(actionID)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, fmt.Errorf("corrective action %d: %w", actionID, ErrNotFound)
	}
	return action, nil
}

// Create creates a corrective action outside the submission pipeline, for
// issues spotted outside a formal inspection
func (s *ActionService) Create(creatorID uint, input ActionInput) (*models.CorrectiveAction, error) {
	if input.Description == "" {
		return nil, fmt.Errorf("description is required: %w", ErrValidation)
	}
	if input.CorrectiveAction == "" {
		return nil, fmt.Errorf("corrective action text is required: %w", ErrValidation)
	}
	if input.TargetDate.IsZero() {
		return nil, fmt.Errorf("target date is required: %w", ErrValidation)
	}

	priority := input.Priority
	if priority == "" {
		priority = "medium"
	}
	switch priority {
	case "low", "medium", "high":
	default:
		return nil, fmt.Errorf("invalid priority %q: %w", input.Priority, ErrValidation)
	}

	action := &models.CorrectiveAction{
		Description:      input.Description,
		CorrectiveAction: input.CorrectiveAction,
		TargetDate:       input.TargetDate,
		Priority:         priority,
		Status:           models.ActionStatusPending,
		Attachments:      input.Attachments,
		CreatedBy:        creatorID,
	}
	if err := s.actions.Create(action); err != nil {
		return nil, err
	}

	s.audit.Create(&models.AuditLog{
		UserID:   &creatorID,
		Action:   "create",
		Resource: "corrective_action",
		Details:  fmt.Sprintf("Created corrective action %d", action.ID),
	})

	return action, nil
}

// UpdateStatus moves an action through pending, in_progress and done
func (s *ActionService) UpdateStatus(updaterID, actionID uint, status string) (*models.CorrectiveAction, error) {
	if !validActionStatus(status) {
		return nil, fmt.Errorf("invalid status %q: %w", status, ErrValidation)
	}

	if err := s.actions.UpdateStatus(actionID, status); err != nil {
		return nil, fmt.Errorf("corrective action %d: %w", actionID, ErrNotFound)
	}

	s.audit.Create(&models.AuditLog{
		UserID:   &updaterID,
		Action:   "update",
		Resource: "corrective_action",
		Details:  fmt.Sprintf("Set corrective action %d status to %s", actionID, status),
	})

	return s.Get(actionID)
}

func validActionStatus(status string) bool {
	switch status {
	case models.ActionStatusPending, models.ActionStatusInProgress, models.ActionStatusDone:
		return true
	}
	return false
}
