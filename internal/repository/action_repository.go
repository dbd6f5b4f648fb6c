package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"safetrack/internal/models"
)

// ActionRepository handles database operations for corrective actions
type ActionRepository struct {
	db *sql.DB
}

// NewActionRepository creates a new corrective action repository
func NewActionRepository(db *sql.DB) *ActionRepository {
	return &ActionRepository{db: db}
}

// Create creates a new corrective action
func (r *ActionRepository) Create(action *models.CorrectiveAction) error {
	query := `
		INSERT INTO corrective_actions
			(description, corrective_action, target_date, priority, status, attachments, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(
		query,
		action.Description,
		action.CorrectiveAction,
		action.TargetDate,
		action.Priority,
		action.Status,
		pq.Array(action.Attachments),
		action.CreatedBy,
	).Scan(&action.ID, &action.CreatedAt, &action.UpdatedAt)
}

// GetByID retrieves a corrective action by ID
func (r *ActionRepository) GetByID(actionID uint) (*models.CorrectiveAction, error) {
	var action models.CorrectiveAction
	query := `
		SELECT id, description, corrective_action, target_date, priority, status,
		       attachments, created_by, created_at, updated_at
		FROM corrective_actions
		WHERE id = $1
	`
	err := r.db.QueryRow(query, actionID).Scan(
		&action.ID,
		&action.Description,
		&action.CorrectiveAction,
		&action.TargetDate,
		&action.Priority,
		&action.Status,
		pq.Array(&action.Attachments),
		&action.CreatedBy,
		&action.CreatedAt,
		&action.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &action, nil
}

// List retrieves corrective actions, optionally filtered by status
func (r *ActionRepository) List(status string) ([]models.CorrectiveAction, error) {
	query := `
		SELECT id, description, corrective_action, target_date, priority, status,
		       attachments, created_by, created_at, updated_at
		FROM corrective_actions
	`
	var args []interface{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY target_date ASC, id ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActions(rows)
}

// ListOverdue retrieves unfinished actions whose target date has passed
func (r *ActionRepository) ListOverdue(now time.Time) ([]models.CorrectiveAction, error) {
	query := `
		SELECT id, description, corrective_action, target_date, priority, status,
		       attachments, created_by, created_at, updated_at
		FROM corrective_actions
		WHERE status != 'done' AND target_date < $1
		ORDER BY target_date ASC
	`
	rows, err := r.db.Query(query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanActions(rows)
}

// UpdateStatus updates the status of a corrective action
func (r *ActionRepository) UpdateStatus(actionID uint, status string) error {
	result, err := r.db.Exec(
		`UPDATE corrective_actions SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		status, actionID,
	)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("corrective action not found")
	}
	return nil
}

func scanActions(rows *sql.Rows) ([]models.CorrectiveAction, error) {
	var actions []models.CorrectiveAction
	for rows.Next() {
		var action models.CorrectiveAction
		if err := rows.Scan(
			&action.ID,
			&action.Description,
			&action.CorrectiveAction,
			&action.TargetDate,
			&action.Priority,
			&action.Status,
			pq.Array(&action.Attachments),
			&action.CreatedBy,
			&action.CreatedAt,
			&action.UpdatedAt,
		); err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, rows.Err()
}
