package repository

import (
	"database/sql"

	"safetrack/internal/models"
)

// AuditRepository handles database operations for audit logs
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create creates a new audit log entry
func (r *AuditRepository) Create(entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (user_id, action, resource, details)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.db.QueryRow(
		query,
		entry.UserID,
		entry.Action,
		entry.Resource,
		entry.Details,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// List retrieves the most recent audit log entries
func (r *AuditRepository) List(limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, user_id, action, resource, details, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.AuditLog
	for rows.Next() {
		var entry models.AuditLog
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.Resource,
			&entry.Details,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
