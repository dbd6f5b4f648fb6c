package repository

import (
	"database/sql"

	"github.com/lib/pq"

	"safetrack/internal/models"
)

// ResponseRepository handles database operations for inspection responses
type ResponseRepository struct {
	db *sql.DB
}

// NewResponseRepository creates a new response repository
func NewResponseRepository(db *sql.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// GetByInspectionID retrieves all responses for an inspection in checklist
// item order. Both the stats operation and the report compiler read from
// here, so they always see the same persisted set.
func (r *ResponseRepository) GetByInspectionID(inspectionID uint) ([]models.Response, error) {
	query := `
		SELECT r.id, r.inspection_id, r.item_id, r.result, r.note, r.photos, r.created_at
		FROM responses r
		JOIN checklist_items ci ON r.item_id = ci.id
		WHERE r.inspection_id = $1
		ORDER BY ci.sort_order ASC, ci.id ASC
	`
	rows, err := r.db.Query(query, inspectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var responses []models.Response
	for rows.Next() {
		var response models.Response
		if err := rows.Scan(
			&response.ID,
			&response.InspectionID,
			&response.ItemID,
			&response.Result,
			&response.Note,
			pq.Array(&response.Photos),
			&response.CreatedAt,
		); err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, rows.Err()
}

// CountByInspectionID counts the responses recorded for an inspection
func (r *ResponseRepository) CountByInspectionID(inspectionID uint) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM responses WHERE inspection_id = $1`,
		inspectionID,
	).Scan(&count)
	return count, err
}
