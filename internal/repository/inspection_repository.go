package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"safetrack/internal/models"
)

// InspectionRepository handles database operations for inspections
type InspectionRepository struct {
	db *sql.DB
}

// NewInspectionRepository creates a new inspection repository
func NewInspectionRepository(db *sql.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// GetOpen retrieves the single open (unsubmitted) inspection for a
// (checklist, inspector) pair, or nil if none exists
func (r *InspectionRepository) GetOpen(checklistID, inspectorID uint) (*models.Inspection, error) {
	var inspection models.Inspection
	query := `
		SELECT id, checklist_id, inspector_id, started_at, submitted_at
		FROM inspections
		WHERE checklist_id = $1 AND inspector_id = $2 AND submitted_at IS NULL
	`
	err := r.db.QueryRow(query, checklistID, inspectorID).Scan(
		&inspection.ID,
		&inspection.ChecklistID,
		&inspection.InspectorID,
		&inspection.StartedAt,
		&inspection.SubmittedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inspection, nil
}

// Create inserts a new inspection. When the partial unique index rejects a
// second open inspection for the same (checklist, inspector) pair the error
// wraps ErrUniqueViolation so the caller can re-read the winner's row.
func (r *InspectionRepository) Create(inspection *models.Inspection) error {
	query := `
		INSERT INTO inspections (checklist_id, inspector_id, started_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		RETURNING id, started_at
	`
	err := r.db.QueryRow(
		query,
		inspection.ChecklistID,
		inspection.InspectorID,
	).Scan(&inspection.ID, &inspection.StartedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("open inspection already exists: %w", ErrUniqueViolation)
		}
		return err
	}
	return nil
}

// GetByID retrieves an inspection by ID
func (r *InspectionRepository) GetByID(inspectionID uint) (*models.Inspection, error) {
	var inspection models.Inspection
	query := `
		SELECT id, checklist_id, inspector_id, started_at, submitted_at
		FROM inspections
		WHERE id = $1
	`
	err := r.db.QueryRow(query, inspectionID).Scan(
		&inspection.ID,
		&inspection.ChecklistID,
		&inspection.InspectorID,
		&inspection.StartedAt,
		&inspection.SubmittedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inspection, nil
}

// SubmitResponses atomically records the full response set and stamps
// submitted_at. Returns false without writing anything when the inspection was
// already submitted, which also guards a concurrent double-submit: the loser
// of the update race sees zero affected rows.
func (r *InspectionRepository) SubmitResponses(inspectionID uint, responses []models.Response, submittedAt time.Time) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`UPDATE inspections SET submitted_at = $1 WHERE id = $2 AND submitted_at IS NULL`,
		submittedAt, inspectionID,
	)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	stmt, err := tx.Prepare(`
		INSERT INTO responses (inspection_id, item_id, result, note, photos)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return false, err
	}
	defer stmt.Close()

	for _, response := range responses {
		if _, err := stmt.Exec(
			inspectionID,
			response.ItemID,
			response.Result,
			response.Note,
			pq.Array(response.Photos),
		); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// GetByInspectorWithDetails retrieves all inspections for an inspector with
// checklist names, newest first
func (r *InspectionRepository) GetByInspectorWithDetails(inspectorID uint) ([]models.InspectionWithDetails, error) {
	query := `
		SELECT i.id, i.checklist_id, i.inspector_id, i.started_at, i.submitted_at,
		       c.name as checklist_name
		FROM inspections i
		JOIN checklists c ON i.checklist_id = c.id
		WHERE i.inspector_id = $1
		ORDER BY i.started_at DESC
	`
	rows, err := r.db.Query(query, inspectorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inspections []models.InspectionWithDetails
	for rows.Next() {
		var inspection models.InspectionWithDetails
		if err := rows.Scan(
			&inspection.ID,
			&inspection.ChecklistID,
			&inspection.InspectorID,
			&inspection.StartedAt,
			&inspection.SubmittedAt,
			&inspection.ChecklistName,
		); err != nil {
			return nil, err
		}
		inspections = append(inspections, inspection)
	}
	return inspections, rows.Err()
}

// GetStaleOpen retrieves open inspections started before the cutoff, with
// inspector contact details for reminder mails
func (r *InspectionRepository) GetStaleOpen(cutoff time.Time) ([]models.InspectionWithDetails, error) {
	query := `
		SELECT i.id, i.checklist_id, i.inspector_id, i.started_at, i.submitted_at,
		       c.name as checklist_name,
		       u.first_name || ' ' || u.last_name as inspector_name, u.email as inspector_email
		FROM inspections i
		JOIN checklists c ON i.checklist_id = c.id
		JOIN users u ON i.inspector_id = u.id
		WHERE i.submitted_at IS NULL AND i.started_at < $1
		ORDER BY i.started_at ASC
	`
	rows, err := r.db.Query(query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inspections []models.InspectionWithDetails
	for rows.Next() {
		var inspection models.InspectionWithDetails
		if err := rows.Scan(
			&inspection.ID,
			&inspection.ChecklistID,
			&inspection.InspectorID,
			&inspection.StartedAt,
			&inspection.SubmittedAt,
			&inspection.ChecklistName,
			&inspection.InspectorName,
			&inspection.InspectorEmail,
		); err != nil {
			return nil, err
		}
		inspections = append(inspections, inspection)
	}
	return inspections, rows.Err()
}
