package repository

import (
	"database/sql"
	"fmt"

	"safetrack/internal/models"
)

// ChecklistRepository handles database operations for checklists and items
type ChecklistRepository struct {
	db *sql.DB
}

// NewChecklistRepository creates a new checklist repository
func NewChecklistRepository(db *sql.DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

// Create creates a new checklist
func (r *ChecklistRepository) Create(checklist *models.Checklist) error {
	query := `
		INSERT INTO checklists (name, category, is_active, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(
		query,
		checklist.Name,
		checklist.Category,
		checklist.IsActive,
		checklist.CreatedBy,
	).Scan(&checklist.ID, &checklist.CreatedAt, &checklist.UpdatedAt)
}

// Update updates a checklist's name, category and active flag
func (r *ChecklistRepository) Update(checklist *models.Checklist) error {
	query := `
		UPDATE checklists
		SET name = $1, category = $2, is_active = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING updated_at
	`
	err := r.db.QueryRow(
		query,
		checklist.Name,
		checklist.Category,
		checklist.IsActive,
		checklist.ID,
	).Scan(&checklist.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("checklist not found")
	}
	return err
}

// GetByID retrieves a checklist by ID regardless of its active flag
func (r *ChecklistRepository) GetByID(checklistID uint) (*models.Checklist, error) {
	var checklist models.Checklist
	query := `
		SELECT id, name, category, is_active, created_by, created_at, updated_at
		FROM checklists
		WHERE id = $1
	`
	err := r.db.QueryRow(query, checklistID).Scan(
		&checklist.ID,
		&checklist.Name,
		&checklist.Category,
		&checklist.IsActive,
		&checklist.CreatedBy,
		&checklist.CreatedAt,
		&checklist.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &checklist, nil
}

// GetActiveWithItems retrieves an active checklist together with its ordered
// items, or nil when the checklist is missing or inactive
func (r *ChecklistRepository) GetActiveWithItems(checklistID uint) (*models.ChecklistWithItems, error) {
	checklist, err := r.GetByID(checklistID)
	if err != nil {
		return nil, err
	}
	if checklist == nil || !checklist.IsActive {
		return nil, nil
	}

	items, err := r.GetItems(checklistID)
	if err != nil {
		return nil, err
	}

	return &models.ChecklistWithItems{Checklist: *checklist, Items: items}, nil
}

// GetItems retrieves a checklist's items in stable sort order
func (r *ChecklistRepository) GetItems(checklistID uint) ([]models.ChecklistItem, error) {
	query := `
		SELECT id, checklist_id, text, critical, sort_order, created_at, updated_at
		FROM checklist_items
		WHERE checklist_id = $1
		ORDER BY sort_order ASC, id ASC
	`
	rows, err := r.db.Query(query, checklistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ChecklistItem
	for rows.Next() {
		var item models.ChecklistItem
		if err := rows.Scan(
			&item.ID,
			&item.ChecklistID,
			&item.Text,
			&item.Critical,
			&item.SortOrder,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CreateItem creates a new checklist item
func (r *ChecklistRepository) CreateItem(item *models.ChecklistItem) error {
	query := `
		INSERT INTO checklist_items (checklist_id, text, critical, sort_order)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(
		query,
		item.ChecklistID,
		item.Text,
		item.Critical,
		item.SortOrder,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
}

// UpdateItem updates a checklist item
func (r *ChecklistRepository) UpdateItem(item *models.ChecklistItem) error {
	query := `
		UPDATE checklist_items
		SET text = $1, critical = $2, sort_order = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4 AND checklist_id = $5
		RETURNING updated_at
	`
	err := r.db.QueryRow(
		query,
		item.Text,
		item.Critical,
		item.SortOrder,
		item.ID,
		item.ChecklistID,
	).Scan(&item.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("checklist item not found")
	}
	return err
}

// DeleteItem deletes a checklist item
func (r *ChecklistRepository) DeleteItem(checklistID, itemID uint) error {
	result, err := r.db.Exec(
		`DELETE FROM checklist_items WHERE id = $1 AND checklist_id = $2`,
		itemID, checklistID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("checklist item not found")
	}
	return nil
}

// List retrieves checklists, optionally restricted to active ones
func (r *ChecklistRepository) List(activeOnly bool) ([]models.Checklist, error) {
	query := `
		SELECT id, name, category, is_active, created_by, created_at, updated_at
		FROM checklists
	`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY category ASC, name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var checklists []models.Checklist
	for rows.Next() {
		var checklist models.Checklist
		if err := rows.Scan(
			&checklist.ID,
			&checklist.Name,
			&checklist.Category,
			&checklist.IsActive,
			&checklist.CreatedBy,
			&checklist.CreatedAt,
			&checklist.UpdatedAt,
		); err != nil {
			return nil, err
		}
		checklists = append(checklists, checklist)
	}
	return checklists, rows.Err()
}
