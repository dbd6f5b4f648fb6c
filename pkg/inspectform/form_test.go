package inspectform

import (
	"errors"
	"sync"
	"testing"
	"time"

	"safetrack/internal/models"
	"safetrack/pkg/draft"
)

type fakeSubmitter struct {
	inspectionID uint
	responses    []models.ResponseInput
	err          error
}

func (f *fakeSubmitter) Submit(inspectionID uint, responses []models.ResponseInput) (*models.SubmissionResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inspectionID = inspectionID
	f.responses = responses
	return &models.SubmissionResult{}, nil
}

func testChecklist() *models.ChecklistWithItems {
	return &models.ChecklistWithItems{
		Checklist: models.Checklist{ID: 1, Name: "Forklift Pre-Shift", Category: "equipment", IsActive: true},
		Items: []models.ChecklistItem{
			{ID: 11, ChecklistID: 1, Text: "Brakes respond correctly", Critical: true, SortOrder: 1},
			{ID: 12, ChecklistID: 1, Text: "Horn is audible", Critical: false, SortOrder: 2},
			{ID: 13, ChecklistID: 1, Text: "Hydraulic lines show no leaks", Critical: true, SortOrder: 3},
		},
	}
}

func TestDefaultResultDoesNotCountAsAnswered(t *testing.T) {
	form, err := New(7, testChecklist(), draft.NewMemoryStore(), &fakeSubmitter{})
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	if form.Answered() != 0 {
		t.Errorf("Fresh form should have 0 answered items, got %d", form.Answered())
	}
	if form.CanSubmit() {
		t.Error("Fresh form must not be submittable")
	}
}

func TestExplicitNACountsAsAnswered(t *testing.T) {
	form, err := New(7, testChecklist(), draft.NewMemoryStore(), &fakeSubmitter{})
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	// Explicitly selecting na is an answer; the untouched default is not
	if err := form.SetResult(11, "na"); err != nil {
		t.Fatalf("Failed to set result: %v", err)
	}
	form.Flush()

	if form.Answered() != 1 {
		t.Errorf("Expected 1 answered item, got %d", form.Answered())
	}
}

func TestSetResultRejectsInvalidValues(t *testing.T) {
	form, err := New(7, testChecklist(), draft.NewMemoryStore(), &fakeSubmitter{})
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	if err := form.SetResult(11, "maybe"); err == nil {
		t.Error("Should reject an invalid result")
	}
	if err := form.SetResult(11, ""); err == nil {
		t.Error("Should reject an empty result")
	}
	if err := form.SetResult(99, "pass"); err == nil {
		t.Error("Should reject an unknown item")
	}
}

func TestSubmitGatedOnCompleteness(t *testing.T) {
	form, err := New(7, testChecklist(), draft.NewMemoryStore(), &fakeSubmitter{})
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	form.SetResult(11, "pass")
	form.SetResult(12, "pass")

	_, err = form.Submit()
	if !errors.Is(err, ErrIncomplete) {
		t.Errorf("Expected ErrIncomplete with one item unanswered, got %v", err)
	}
}

func TestSubmitDeliversResponsesInItemOrder(t *testing.T) {
	drafts := draft.NewMemoryStore()
	submitter := &fakeSubmitter{}
	form, err := New(7, testChecklist(), drafts, submitter)
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	// Answer out of order
	form.SetResult(13, "pass")
	form.SetResult(11, "fail")
	form.SetNote(11, "Brake pedal goes to the floor")
	form.AddPhoto(11, "brakes.jpg")
	form.SetResult(12, "na")

	if _, err := form.Submit(); err != nil {
		t.Fatalf("Failed to submit: %v", err)
	}

	if submitter.inspectionID != 7 {
		t.Errorf("Expected inspection 7, got %d", submitter.inspectionID)
	}
	if len(submitter.responses) != 3 {
		t.Fatalf("Expected 3 responses, got %d", len(submitter.responses))
	}

	first := submitter.responses[0]
	if first.ItemID != 11 || first.Result != "fail" {
		t.Errorf("Responses should follow checklist order, got %+v first", first)
	}
	if first.Note != "Brake pedal goes to the floor" || len(first.Photos) != 1 {
		t.Errorf("Response should carry note and photos, got %+v", first)
	}
	if submitter.responses[1].ItemID != 12 || submitter.responses[2].ItemID != 13 {
		t.Errorf("Responses out of order: %+v", submitter.responses)
	}

	// Draft is gone after a confirmed submit
	saved, err := drafts.Get(1)
	if err != nil {
		t.Fatalf("Failed to read draft store: %v", err)
	}
	if saved != nil {
		t.Error("Draft should be deleted after a successful submit")
	}
}

func TestSubmitErrorRetainsDraft(t *testing.T) {
	drafts := draft.NewMemoryStore()
	submitter := &fakeSubmitter{err: errors.New("backend unreachable")}
	form, err := New(7, testChecklist(), drafts, submitter)
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	form.SetResult(11, "pass")
	form.SetResult(12, "pass")
	form.SetResult(13, "fail")

	if _, err := form.Submit(); err == nil {
		t.Fatal("Submit should surface the backend error")
	}

	saved, err := drafts.Get(1)
	if err != nil {
		t.Fatalf("Failed to read draft store: %v", err)
	}
	if saved == nil {
		t.Fatal("Draft must survive a failed submit")
	}
	if len(saved.Responses) != 3 {
		t.Errorf("Draft should hold all 3 answers, got %d", len(saved.Responses))
	}
}

// laggyStore delays its first write so an out-of-order writer would let a
// later snapshot finish first and then clobber it with the stale one
type laggyStore struct {
	inner *draft.MemoryStore
	mu    sync.Mutex
	puts  int
}

func (s *laggyStore) Get(checklistID uint) (*draft.Draft, error) { return s.inner.Get(checklistID) }

func (s *laggyStore) Delete(checklistID uint) error { return s.inner.Delete(checklistID) }

func (s *laggyStore) Put(d draft.Draft) error {
	s.mu.Lock()
	s.puts++
	first := s.puts == 1
	s.mu.Unlock()

	if first {
		time.Sleep(50 * time.Millisecond)
	}
	return s.inner.Put(d)
}

func TestDraftWritesAppliedInEditOrder(t *testing.T) {
	drafts := &laggyStore{inner: draft.NewMemoryStore()}
	form, err := New(7, testChecklist(), drafts, &fakeSubmitter{})
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}
	defer form.Close()

	form.SetResult(11, "pass")
	form.SetResult(12, "pass")
	form.SetResult(13, "fail")
	form.Flush()

	saved, err := drafts.Get(1)
	if err != nil {
		t.Fatalf("Failed to read draft store: %v", err)
	}
	if saved == nil {
		t.Fatal("Expected a draft after flush")
	}
	if len(saved.Responses) != 3 {
		t.Errorf("Draft must hold the newest snapshot with all 3 answers, got %d", len(saved.Responses))
	}
}

func TestDraftRestore(t *testing.T) {
	drafts := draft.NewMemoryStore()
	drafts.Put(draft.Draft{
		ChecklistID: 1,
		Responses: []models.ResponseInput{
			{ItemID: 11, Result: "fail", Note: "Brake pedal goes to the floor"},
			{ItemID: 99, Result: "pass"}, // item no longer on the checklist
		},
	})

	form, err := New(7, testChecklist(), drafts, &fakeSubmitter{})
	if err != nil {
		t.Fatalf("Failed to create form: %v", err)
	}

	// The orphaned answer is dropped; the valid one counts as answered
	if form.Answered() != 1 {
		t.Errorf("Expected 1 restored answer, got %d", form.Answered())
	}
}
