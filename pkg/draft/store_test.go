package draft

import (
	"path/filepath"
	"testing"

	"safetrack/internal/models"
)

func testDraft() Draft {
	return Draft{
		ChecklistID: 1,
		Responses: []models.ResponseInput{
			{ItemID: 11, Result: "fail", Note: "Brake pedal goes to the floor", Photos: []string{"brakes.jpg"}},
			{ItemID: 12, Result: "pass"},
		},
	}
}

// exerciseStore runs the shared Store contract against an implementation
func exerciseStore(t *testing.T, store Store) {
	t.Helper()

	// No draft yet
	saved, err := store.Get(1)
	if err != nil {
		t.Fatalf("Failed to get draft: %v", err)
	}
	if saved != nil {
		t.Fatal("Expected nil for a missing draft")
	}

	// Deleting a missing draft is not an error
	if err := store.Delete(1); err != nil {
		t.Errorf("Deleting a missing draft should not fail: %v", err)
	}

	// Round trip
	if err := store.Put(testDraft()); err != nil {
		t.Fatalf("Failed to put draft: %v", err)
	}
	saved, err = store.Get(1)
	if err != nil {
		t.Fatalf("Failed to get draft: %v", err)
	}
	if saved == nil {
		t.Fatal("Expected a draft after put")
	}
	if len(saved.Responses) != 2 {
		t.Fatalf("Expected 2 responses, got %d", len(saved.Responses))
	}
	if saved.Responses[0].Note != "Brake pedal goes to the floor" {
		t.Errorf("Unexpected note: %q", saved.Responses[0].Note)
	}
	if len(saved.Responses[0].Photos) != 1 {
		t.Errorf("Expected 1 photo, got %d", len(saved.Responses[0].Photos))
	}
	if saved.SavedAt.IsZero() {
		t.Error("SavedAt should be stamped on put")
	}

	// Put replaces the existing draft
	updated := testDraft()
	updated.Responses = updated.Responses[:1]
	if err := store.Put(updated); err != nil {
		t.Fatalf("Failed to replace draft: %v", err)
	}
	saved, err = store.Get(1)
	if err != nil {
		t.Fatalf("Failed to get draft: %v", err)
	}
	if len(saved.Responses) != 1 {
		t.Errorf("Replace should overwrite, got %d responses", len(saved.Responses))
	}

	// Drafts are keyed per checklist
	other := testDraft()
	other.ChecklistID = 2
	if err := store.Put(other); err != nil {
		t.Fatalf("Failed to put second draft: %v", err)
	}
	if err := store.Delete(1); err != nil {
		t.Fatalf("Failed to delete draft: %v", err)
	}
	saved, err = store.Get(1)
	if err != nil {
		t.Fatalf("Failed to get draft: %v", err)
	}
	if saved != nil {
		t.Error("Draft 1 should be gone after delete")
	}
	saved, err = store.Get(2)
	if err != nil {
		t.Fatalf("Failed to get draft: %v", err)
	}
	if saved == nil {
		t.Error("Draft 2 should survive deleting draft 1")
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts.db")
	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	exerciseStore(t, store)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drafts.db")

	store, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if err := store.Put(testDraft()); err != nil {
		t.Fatalf("Failed to put draft: %v", err)
	}
	store.Close()

	reopened, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	saved, err := reopened.Get(1)
	if err != nil {
		t.Fatalf("Failed to get draft: %v", err)
	}
	if saved == nil {
		t.Fatal("Draft should survive a restart")
	}
	if len(saved.Responses) != 2 {
		t.Errorf("Expected 2 responses after reopen, got %d", len(saved.Responses))
	}
}
