// Package inspectform drives an inspection form on the client side: it
// tracks which items have actually been answered, persists drafts in the
// background, and gates submission until every item carries an explicit
// result.
package inspectform

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"safetrack/internal/models"
	"safetrack/pkg/draft"
	"safetrack/pkg/validator"
)

// ErrIncomplete is returned when submission is attempted before every item
// has been explicitly answered
var ErrIncomplete = errors.New("form incomplete")

// Submitter delivers the finished response set to the backend
type Submitter interface {
	Submit(inspectionID uint, responses []models.ResponseInput) (*models.SubmissionResult, error)
}

type answer struct {
	result string
	note   string
	photos []string
	// answered is set only by an explicit result selection. Restored drafts
	// keep it: a draft never contains untouched items.
	answered bool
}

// saveQueueDepth bounds how many draft snapshots may be queued before an
// edit blocks on the writer
const saveQueueDepth = 16

// Form is the state of one in-progress inspection. Not safe for concurrent
// mutation from multiple goroutines except through its own methods.
type Form struct {
	inspectionID uint
	checklistID  uint
	items        []models.ChecklistItem
	answers      map[uint]*answer
	drafts       draft.Store
	submitter    Submitter

	mu     sync.Mutex
	closed bool
	saves  chan draft.Draft
	wg     sync.WaitGroup
}

// New creates a form for an open inspection. An existing draft for the
// checklist is restored; draft answers count as answered because a draft only
// ever records explicit selections.
func New(inspectionID uint, checklist *models.ChecklistWithItems, drafts draft.Store, submitter Submitter) (*Form, error) {
	f := &Form{
		inspectionID: inspectionID,
		checklistID:  checklist.ID,
		items:        checklist.Items,
		answers:      make(map[uint]*answer, len(checklist.Items)),
		drafts:       drafts,
		submitter:    submitter,
		saves:        make(chan draft.Draft, saveQueueDepth),
	}
	for _, item := range checklist.Items {
		f.answers[item.ID] = &answer{result: models.ResultNA}
	}

	saved, err := drafts.Get(checklist.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	if saved != nil {
		for _, input := range saved.Responses {
			a, ok := f.answers[input.ItemID]
			if !ok {
				// Checklist changed since the draft was written; drop the
				// orphaned answer
				continue
			}
			if validator.ValidateResult(input.Result) != nil || input.Result == "" {
				continue
			}
			a.result = input.Result
			a.note = input.Note
			a.photos = input.Photos
			a.answered = true
		}
	}

	go f.saveLoop()

	return f, nil
}

// SetResult records an explicit result for an item. Selecting any result,
// including na, marks the item answered.
func (f *Form) SetResult(itemID uint, result string) error {
	if err := validator.ValidateResult(result); err != nil || result == "" {
		return fmt.Errorf("invalid result %q", result)
	}

	f.mu.Lock()
	a, ok := f.answers[itemID]
	if !ok {
		f.mu.Unlock()
		return fmt.Errorf("unknown item %d", itemID)
	}
	a.result = result
	a.answered = true
	f.mu.Unlock()

	f.saveDraftAsync()
	return nil
}

// SetNote records a note for an item without touching its answered state
func (f *Form) SetNote(itemID uint, note string) error {
	f.mu.Lock()
	a, ok := f.answers[itemID]
	if !ok {
		f.mu.Unlock()
		return fmt.Errorf("unknown item %d", itemID)
	}
	a.note = note
	f.mu.Unlock()

	f.saveDraftAsync()
	return nil
}

// AddPhoto attaches a photo reference to an item
func (f *Form) AddPhoto(itemID uint, photo string) error {
	f.mu.Lock()
	a, ok := f.answers[itemID]
	if !ok {
		f.mu.Unlock()
		return fmt.Errorf("unknown item %d", itemID)
	}
	a.photos = append(a.photos, photo)
	f.mu.Unlock()

	f.saveDraftAsync()
	return nil
}

// Answered reports how many items have been explicitly answered
func (f *Form) Answered() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, a := range f.answers {
		if a.answered {
			count++
		}
	}
	return count
}

// CanSubmit reports whether every item has an explicit result. The initial
// na default does not count; the inspector has to touch each item.
func (f *Form) CanSubmit() bool {
	return f.Answered() == len(f.items)
}

// Submit delivers the response set. On success the draft is deleted; on any
// error it is retained so nothing the inspector entered is lost.
func (f *Form) Submit() (*models.SubmissionResult, error) {
	if !f.CanSubmit() {
		return nil, fmt.Errorf("%w: %d of %d items answered", ErrIncomplete, f.Answered(), len(f.items))
	}

	// Wait for in-flight draft writes so the draft on disk is current if the
	// submission fails
	f.wg.Wait()

	result, err := f.submitter.Submit(f.inspectionID, f.snapshot())
	if err != nil {
		return nil, err
	}

	if err := f.drafts.Delete(f.checklistID); err != nil {
		slog.Warn("Failed to delete draft after submit",
			"checklist_id", f.checklistID,
			"error", err,
		)
	}
	return result, nil
}

// snapshot builds the submission payload in checklist item order
func (f *Form) snapshot() []models.ResponseInput {
	f.mu.Lock()
	defer f.mu.Unlock()

	inputs := make([]models.ResponseInput, 0, len(f.items))
	for _, item := range f.items {
		a := f.answers[item.ID]
		inputs = append(inputs, models.ResponseInput{
			ItemID: item.ID,
			Result: a.result,
			Note:   a.note,
			Photos: a.photos,
		})
	}
	return inputs
}

// saveDraftAsync queues the current answered state for the background
// writer. Snapshots are applied strictly in edit order, so the persisted
// draft is always the newest state; a failed write is logged and the form
// carries on.
func (f *Form) saveDraftAsync() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}

	responses := make([]models.ResponseInput, 0, len(f.items))
	for _, item := range f.items {
		a := f.answers[item.ID]
		if !a.answered {
			continue
		}
		responses = append(responses, models.ResponseInput{
			ItemID: item.ID,
			Result: a.result,
			Note:   a.note,
			Photos: a.photos,
		})
	}

	// Enqueue while holding the lock so the writer sees snapshots in the
	// same order the edits happened
	f.wg.Add(1)
	f.saves <- draft.Draft{
		ChecklistID: f.checklistID,
		Responses:   responses,
	}
}

// saveLoop is the single draft writer. One consumer means a newer snapshot
// can never be overwritten by an older one.
func (f *Form) saveLoop() {
	for d := range f.saves {
		if err := f.drafts.Put(d); err != nil {
			slog.Warn("Failed to save draft",
				"checklist_id", d.ChecklistID,
				"error", err,
			)
		}
		f.wg.Done()
	}
}

// Flush waits for all queued draft writes. Tests and shutdown paths use it.
func (f *Form) Flush() {
	f.wg.Wait()
}

// Close flushes queued draft writes and stops the background writer. The
// form must not be used afterwards.
func (f *Form) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	close(f.saves)
	f.mu.Unlock()

	f.wg.Wait()
}
