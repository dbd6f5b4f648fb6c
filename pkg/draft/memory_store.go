package draft

import (
	"sync"
	"time"
)

// MemoryStore keeps drafts in memory. Used in tests and as a fallback when
// the SQLite database cannot be opened.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[uint]Draft
}

// NewMemoryStore creates an empty in-memory draft store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[uint]Draft)}
}

// Get returns the draft for a checklist, or nil when none exists
func (s *MemoryStore) Get(checklistID uint) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[checklistID]
	if !ok {
		return nil, nil
	}
	return &draft, nil
}

// Put inserts or replaces the draft for a checklist
func (s *MemoryStore) Put(draft Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if draft.SavedAt.IsZero() {
		draft.SavedAt = time.Now()
	}
	s.drafts[draft.ChecklistID] = draft
	return nil
}

// Delete removes the draft for a checklist
func (s *MemoryStore) Delete(checklistID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, checklistID)
	return nil
}

var _ Store = (*MemoryStore)(nil)
