package models

import (
	"time"
)

// User represents a user in the system
type User struct {
	ID           uint       `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty" db:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Role represents a user role (inspector, safety_manager, admin)
type Role struct {
	ID          uint      `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// UserRole represents the many-to-many relationship between users and roles
type UserRole struct {
	UserID    uint      `json:"user_id" db:"user_id"`
	RoleID    uint      `json:"role_id" db:"role_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// UserWithRoles extends User with roles information
type UserWithRoles struct {
	User
	Roles []Role `json:"roles"`
}

// Checklist represents a named, categorized inspection checklist
type Checklist struct {
	ID        uint      `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Category  string    `json:"category" db:"category"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedBy *uint     `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ChecklistItem represents one item on a checklist. Critical items require a
// corrective action when they fail.
type ChecklistItem struct {
	ID          uint      `json:"id" db:"id"`
	ChecklistID uint      `json:"checklist_id" db:"checklist_id"`
	Text        string    `json:"text" db:"text"`
	Critical    bool      `json:"critical" db:"critical"`
	SortOrder   int       `json:"sort_order" db:"sort_order"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ChecklistWithItems extends Checklist with its ordered items
type ChecklistWithItems struct {
	Checklist
	Items []ChecklistItem `json:"items"`
}

// Inspection represents one inspector's pass through a checklist.
// At most one inspection per (inspector, checklist) may have a null
// submitted_at; the database enforces this with a partial unique index.
type Inspection struct {
	ID          uint       `json:"id" db:"id"`
	ChecklistID uint       `json:"checklist_id" db:"checklist_id"`
	InspectorID uint       `json:"inspector_id" db:"inspector_id"`
	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty" db:"submitted_at"`
}

// InspectionWithDetails includes checklist and inspector information
type InspectionWithDetails struct {
	Inspection
	ChecklistName  string `json:"checklist_name,omitempty"`
	InspectorName  string `json:"inspector_name,omitempty"`
	InspectorEmail string `json:"inspector_email,omitempty"`
}

// Result tags for a response
const (
	ResultPass = "pass"
	ResultFail = "fail"
	ResultNA   = "na"
)

// Response records one item's outcome within an inspection. At most one
// response exists per (inspection, item); responses are immutable once written.
type Response struct {
	ID           uint      `json:"id" db:"id"`
	InspectionID uint      `json:"inspection_id" db:"inspection_id"`
	ItemID       uint      `json:"item_id" db:"item_id"`
	Result       string    `json:"result" db:"result"` // pass, fail, na
	Note         string    `json:"note" db:"note"`
	Photos       []string  `json:"photos" db:"photos"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// ResponseInput is the submission payload for a single item
type ResponseInput struct {
	ItemID uint     `json:"item_id"`
	Result string   `json:"result,omitempty"` // defaults to na
	Note   string   `json:"note,omitempty"`
	Photos []string `json:"photos,omitempty"`
}

// Corrective action status values
const (
	ActionStatusPending    = "pending"
	ActionStatusInProgress = "in_progress"
	ActionStatusDone       = "done"
)

// CorrectiveAction is a derived follow-up task created automatically for each
// critical failure at submission time. It references the failing item only
// through the generated description text; there is no foreign key back to the
// inspection.
type CorrectiveAction struct {
	ID               uint      `json:"id" db:"id"`
	Description      string    `json:"description" db:"description"`
	CorrectiveAction string    `json:"corrective_action" db:"corrective_action"`
	TargetDate       time.Time `json:"target_date" db:"target_date"`
	Priority         string    `json:"priority" db:"priority"`
	Status           string    `json:"status" db:"status"`
	Attachments      []string  `json:"attachments" db:"attachments"`
	CreatedBy        uint      `json:"created_by" db:"created_by"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// InspectionStats holds the summary counts for one inspection. The same
// counting rules feed the report compiler; the two must never disagree.
type InspectionStats struct {
	Total         int `json:"total"`
	Passed        int `json:"passed"`
	Failed        int `json:"failed"`
	NA            int `json:"na"`
	CriticalFails int `json:"critical_fails"`
}

// SubmissionResult is returned from a successful submission. CreatedActions
// below QualifyingFailures signals a partial escalation failure that an
// operator is expected to reconcile manually.
type SubmissionResult struct {
	SubmittedAt        time.Time `json:"submitted_at"`
	QualifyingFailures int       `json:"qualifying_failures"`
	CreatedActions     int       `json:"created_actions"`
}

// AuditLog represents an audit log entry
type AuditLog struct {
	ID        uint      `json:"id" db:"id"`
	UserID    *uint     `json:"user_id,omitempty" db:"user_id"`
	Action    string    `json:"action" db:"action"`
	Resource  string    `json:"resource" db:"resource"`
	Details   string    `json:"details,omitempty" db:"details"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
