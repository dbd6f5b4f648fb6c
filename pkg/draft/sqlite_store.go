package draft

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists drafts in a SQLite database
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore creates (or opens) a draft database at the given path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS drafts (
		checklist_id INTEGER PRIMARY KEY,
		responses TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);`)
	return err
}

// Get returns the draft for a checklist, or nil when none exists
func (s *SQLiteStore) Get(checklistID uint) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var responsesJSON, savedAt string
	err := s.db.QueryRow(
		`SELECT responses, saved_at FROM drafts WHERE checklist_id = ?`,
		checklistID,
	).Scan(&responsesJSON, &savedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	draft := &Draft{ChecklistID: checklistID}
	if err := json.Unmarshal([]byte(responsesJSON), &draft.Responses); err != nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339, savedAt); err == nil {
		draft.SavedAt = t
	}
	return draft, nil
}

// Put inserts or replaces the draft for a checklist
func (s *SQLiteStore) Put(draft Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	responsesJSON, err := json.Marshal(draft.Responses)
	if err != nil {
		return err
	}
	savedAt := draft.SavedAt
	if savedAt.IsZero() {
		savedAt = time.Now()
	}

	_, err = s.db.Exec(
		`INSERT INTO drafts (checklist_id, responses, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(checklist_id) DO UPDATE SET responses = excluded.responses, saved_at = excluded.saved_at`,
		draft.ChecklistID,
		string(responsesJSON),
		savedAt.Format(time.RFC3339),
	)
	return err
}

// Delete removes the draft for a checklist. Deleting a missing draft is not
// an error.
func (s *SQLiteStore) Delete(checklistID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`DELETE FROM drafts WHERE checklist_id = ?`, checklistID)
	return err
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
