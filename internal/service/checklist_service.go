package service

import (
	"fmt"
	"strings"

	"safetrack/internal/models"
)

// ChecklistAdminStore is the full catalog surface used by administration
type ChecklistAdminStore interface {
	Create(checklist *models.Checklist) error
	Update(checklist *models.Checklist) error
	GetByID(checklistID uint) (*models.Checklist, error)
	GetActiveWithItems(checklistID uint) (*models.ChecklistWithItems, error)
	GetItems(checklistID uint) ([]models.ChecklistItem, error)
	CreateItem(item *models.ChecklistItem) error
	UpdateItem(item *models.ChecklistItem) error
	DeleteItem(checklistID, itemID uint) error
	List(activeOnly bool) ([]models.Checklist, error)
}

// ChecklistService manages the checklist catalog
type ChecklistService struct {
	checklists ChecklistAdminStore
	audit      AuditStore
}

// NewChecklistService creates a new checklist service
func NewChecklistService(checklists ChecklistAdminStore, audit AuditStore) *ChecklistService {
	return &ChecklistService{checklists: checklists, audit: audit}
}

// ChecklistInput is the create/update payload for a checklist
type ChecklistInput struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// ItemInput is the create/update payload for a checklist item
type ItemInput struct {
	Text      string `json:"text"`
	Critical  bool   `json:"critical"`
	SortOrder int    `json:"sort_order"`
}

// List returns checklists. Inspectors see active ones only; admins see all.
func (s *ChecklistService) List(activeOnly bool) ([]models.Checklist, error) {
	return s.checklists.List(activeOnly)
}

// GetActive returns an active checklist with its items, for inspectors
// picking a checklist to start
func (s *ChecklistService) GetActive(checklistID uint) (*models.ChecklistWithItems, error) {
	checklist, err := s.checklists.GetActiveWithItems(checklistID)
	if err != nil {
		return nil, err
	}
	if checklist == nil {
		return nil, fmt.Errorf("checklist %d missing or inactive: %w", checklistID, ErrNotFound)
	}
	return checklist, nil
}

// Get returns a checklist with its items regardless of the active flag, for
// administration
func (s *ChecklistService) Get(checklistID uint) (*models.ChecklistWithItems, error) {
	checklist, err := s.checklists.GetByID(checklistID)
	if err != nil {
		return nil, err
	}
	if checklist == nil {
		return nil, fmt.Errorf("checklist %d: %w", checklistID, ErrNotFound)
	}
	items, err := s.checklists.GetItems(checklistID)
	if err != nil {
		return nil, err
	}
	return &models.ChecklistWithItems{Checklist: *checklist, Items: items}, nil
}

// Create creates a new checklist
func (s *ChecklistService) Create(creatorID uint, input ChecklistInput) (*models.Checklist, error) {
	if err := validateChecklistInput(input); err != nil {
		return nil, err
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	checklist := &models.Checklist{
		Name:      strings.TrimSpace(input.Name),
		Category:  strings.TrimSpace(input.Category),
		IsActive:  active,
		CreatedBy: &creatorID,
	}
	if err := s.checklists.Create(checklist); err != nil {
		return nil, err
	}

	s.audit.Create(&models.AuditLog{
		UserID:   &creatorID,
		Action:   "create",
		Resource: "checklist",
		Details:  fmt.Sprintf("Created checklist %d (%s)", checklist.ID, checklist.Name),
	})

	return checklist, nil
}

// Update updates a checklist's name, category and active flag. Deactivating a
// checklist blocks new inspections but never touches existing ones.
func (s *ChecklistService) Update(updaterID, checklistID uint, input ChecklistInput) (*models.Checklist, error) {
	if err := validateChecklistInput(input); err != nil {
		return nil, err
	}

	checklist, err := s.checklists.GetByID(checklistID)
	if err != nil {
		return nil, err
	}
	if checklist == nil {
		return nil, fmt.Errorf("checklist %d: %w", checklistID, ErrNotFound)
	}

	checklist.Name = strings.TrimSpace(input.Name)
	checklist.Category = strings.TrimSpace(input.Category)
	if input.IsActive != nil {
		checklist.IsActive = *input.IsActive
	}
	if err := s.checklists.Update(checklist); err != nil {
		return nil, err
	}

	s.audit.Create(&models.AuditLog{
		UserID:   &updaterID,
		Action:   "update",
		Resource: "checklist",
		Details:  fmt.Sprintf("Updated checklist %d (%s, active=%t)", checklist.ID, checklist.Name, checklist.IsActive),
	})

	return checklist, nil
}

// AddItem appends an item to a checklist
func (s *ChecklistService) AddItem(updaterID, checklistID uint, input ItemInput) (*models.ChecklistItem, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, fmt.Errorf("item text is required: %w", ErrValidation)
	}

	checklist, err := s.checklists.GetByID(checklistID)
	if err != nil {
		return nil, err
	}
	if checklist == nil {
		return nil, fmt.Errorf("checklist %d: %w", checklistID, ErrNotFound)
	}

	item := &models.ChecklistItem{
		ChecklistID: checklistID,
		Text:        strings.TrimSpace(input.Text),
		Critical:    input.Critical,
		SortOrder:   input.SortOrder,
	}
	if err := s.checklists.CreateItem(item); err != nil {
		return nil, err
	}

	s.audit.Create(&models.AuditLog{
		UserID:   &updaterID,
		Action:   "create",
		Resource: "checklist_item",
		Details:  fmt.Sprintf("Added item %d to checklist %d", item.ID, checklistID),
	})

	return item, nil
}

// UpdateItem updates an item's text, critical flag and sort order. Existing
// responses keep pointing at the item; its text at read time is what reports
// show.
func (s *ChecklistService) UpdateItem(updaterID, checklistID, itemID uint, input ItemInput) (*models.ChecklistItem, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, fmt.Errorf("item text is required: %w", ErrValidation)
	}

	item := &models.ChecklistItem{
		ID:          itemID,
		ChecklistID: checklistID,
		Text:        strings.TrimSpace(input.Text),
		Critical:    input.Critical,
		SortOrder:   input.SortOrder,
	}
	if err := s.checklists.UpdateItem(item); err != nil {
		return nil, fmt.Errorf("item %d on checklist %d: %w", itemID, checklistID, ErrNotFound)
	}

	s.audit.Create(&models.AuditLog{
		UserID:   &updaterID,
		Action:   "update",
		Resource: "checklist_item",
		Details:  fmt.Sprintf("Updated item %d on checklist %d", itemID, checklistID),
	})

	return item, nil
}

// RemoveItem deletes an item from a checklist
func (s *ChecklistService) RemoveItem(updaterID, checklistID, itemID uint) error {
	if err := s.checklists.DeleteItem(checklistID, itemID); err != nil {
		return fmt.Errorf("item %d on checklist %d: %w", itemID, checklistID, ErrNotFound)
	}

	s.audit.Create(&models.AuditLog{
		UserID:   &updaterID,
		Action:   "delete",
		Resource: "checklist_item",
		Details:  fmt.Sprintf("Removed item %d from checklist %d", itemID, checklistID),
	})

	return nil
}

func validateChecklistInput(input ChecklistInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("checklist name is required: %w", ErrValidation)
	}
	if strings.TrimSpace(input.Category) == "" {
		return fmt.Errorf("checklist category is required: %w", ErrValidation)
	}
	return nil
}
