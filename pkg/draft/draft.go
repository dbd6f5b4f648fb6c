// Package draft stores in-progress inspection form state on the client side,
// so a half-filled checklist survives app restarts. Drafts are keyed by
// checklist ID; one draft per checklist.
package draft

import (
	"time"

	"safetrack/internal/models"
)

// Draft is the locally persisted state of an unfinished inspection form
type Draft struct {
	ChecklistID uint                   `json:"checklist_id"`
	Responses   []models.ResponseInput `json:"responses"`
	SavedAt     time.Time              `json:"saved_at"`
}

// Store persists drafts. Get returns nil when no draft exists for the
// checklist.
type Store interface {
	Get(checklistID uint) (*Draft, error)
	Put(draft Draft) error
	Delete(checklistID uint) error
}
