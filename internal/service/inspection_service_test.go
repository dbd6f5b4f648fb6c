package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"safetrack/internal/config"
	"safetrack/internal/email"
	"safetrack/internal/models"
	"safetrack/internal/repository"
)

// fakeChecklists backs ChecklistStore with in-memory maps
type fakeChecklists struct {
	active map[uint]*models.ChecklistWithItems
	byID   map[uint]*models.Checklist
	items  map[uint][]models.ChecklistItem
}

func (f *fakeChecklists) GetActiveWithItems(checklistID uint) (*models.ChecklistWithItems, error) {
	return f.active[checklistID], nil
}

func (f *fakeChecklists) GetByID(checklistID uint) (*models.Checklist, error) {
	return f.byID[checklistID], nil
}

func (f *fakeChecklists) GetItems(checklistID uint) ([]models.ChecklistItem, error) {
	return f.items[checklistID], nil
}

// fakeInspections backs InspectionStore. onCreate lets a test inject race
// behavior.
type fakeInspections struct {
	nextID    uint
	byID      map[uint]*models.Inspection
	submitted map[uint][]models.Response
	onCreate  func(*models.Inspection) error
}

func newFakeInspections() *fakeInspections {
	return &fakeInspections{
		byID:      make(map[uint]*models.Inspection),
		submitted: make(map[uint][]models.Response),
	}
}

func (f *fakeInspections) GetOpen(checklistID, inspectorID uint) (*models.Inspection, error) {
	for _, inspection := range f.byID {
		if inspection.ChecklistID == checklistID && inspection.InspectorID == inspectorID && inspection.SubmittedAt == nil {
			copied := *inspection
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeInspections) Create(inspection *models.Inspection) error {
	if f.onCreate != nil {
		if err := f.onCreate(inspection); err != nil {
			return err
		}
	}
	f.nextID++
	inspection.ID = f.nextID
	inspection.StartedAt = time.Now().UTC()
	copied := *inspection
	f.byID[inspection.ID] = &copied
	return nil
}

func (f *fakeInspections) GetByID(inspectionID uint) (*models.Inspection, error) {
	inspection, ok := f.byID[inspectionID]
	if !ok {
		return nil, nil
	}
	copied := *inspection
	return &copied, nil
}

func (f *fakeInspections) SubmitResponses(inspectionID uint, responses []models.Response, submittedAt time.Time) (bool, error) {
	inspection, ok := f.byID[inspectionID]
	if !ok {
		return false, fmt.Errorf("inspection %d not found", inspectionID)
	}
	if inspection.SubmittedAt != nil {
		return false, nil
	}
	stamp := submittedAt
	inspection.SubmittedAt = &stamp
	f.submitted[inspectionID] = responses
	return true, nil
}

func (f *fakeInspections) GetByInspectorWithDetails(inspectorID uint) ([]models.InspectionWithDetails, error) {
	var result []models.InspectionWithDetails
	for _, inspection := range f.byID {
		if inspection.InspectorID == inspectorID {
			result = append(result, models.InspectionWithDetails{Inspection: *inspection})
		}
	}
	return result, nil
}

// fakeResponses serves the responses recorded by fakeInspections
type fakeResponses struct {
	inspections *fakeInspections
}

func (f *fakeResponses) GetByInspectionID(inspectionID uint) ([]models.Response, error) {
	return f.inspections.submitted[inspectionID], nil
}

// fakeActions records created corrective actions and can fail on demand
type fakeActions struct {
	created  []models.CorrectiveAction
	failWhen func(*models.CorrectiveAction) bool
}

func (f *fakeActions) Create(action *models.CorrectiveAction) error {
	if f.failWhen != nil && f.failWhen(action) {
		return errors.New("action store unavailable")
	}
	f.created = append(f.created, *action)
	return nil
}

// fakeRecipients backs RecipientStore
type fakeRecipients struct {
	byID   map[uint]*models.User
	byRole map[string][]models.User
}

func (f *fakeRecipients) GetByID(userID uint) (*models.User, error) {
	return f.byID[userID], nil
}

func (f *fakeRecipients) ListActiveByRole(roleName string) ([]models.User, error) {
	return f.byRole[roleName], nil
}

// fakeAlerts records sent alerts and can fail on demand
type fakeAlerts struct {
	sent    []string
	alerts  []email.InspectionAlert
	sendErr error
}

func (f *fakeAlerts) SendInspectionFailedAlert(to string, alert email.InspectionAlert) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, to)
	f.alerts = append(f.alerts, alert)
	return nil
}

// fakeAudit records audit entries and can fail on demand
type fakeAudit struct {
	entries []models.AuditLog
	failErr error
}

func (f *fakeAudit) Create(entry *models.AuditLog) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.entries = append(f.entries, *entry)
	return nil
}

// testEnv bundles the fakes behind one service instance
type testEnv struct {
	checklists  *fakeChecklists
	inspections *fakeInspections
	actions     *fakeActions
	recipients  *fakeRecipients
	alerts      *fakeAlerts
	audit       *fakeAudit
	service     *InspectionService
}

const (
	inspectorID = uint(10)
	managerID   = uint(20)
	checklistID = uint(1)
)

// newTestEnv builds a service around one active checklist with four items,
// two of them critical
func newTestEnv() *testEnv {
	items := []models.ChecklistItem{
		{ID: 101, ChecklistID: checklistID, Text: "Brakes respond correctly", Critical: true, SortOrder: 1},
		{ID: 102, ChecklistID: checklistID, Text: "Horn is audible", Critical: false, SortOrder: 2},
		{ID: 103, ChecklistID: checklistID, Text: "Hydraulic lines show no leaks", Critical: true, SortOrder: 3},
		{ID: 104, ChecklistID: checklistID, Text: "Operator cabin is clean", Critical: false, SortOrder: 4},
	}
	checklist := models.Checklist{ID: checklistID, Name: "Forklift Pre-Shift", Category: "equipment", IsActive: true}

	checklists := &fakeChecklists{
		active: map[uint]*models.ChecklistWithItems{
			checklistID: {Checklist: checklist, Items: items},
		},
		byID:  map[uint]*models.Checklist{checklistID: &checklist},
		items: map[uint][]models.ChecklistItem{checklistID: items},
	}

	inspections := newFakeInspections()
	actions := &fakeActions{}
	recipients := &fakeRecipients{
		byID: map[uint]*models.User{
			inspectorID: {ID: inspectorID, Email: "inspector@test.com", FirstName: "Ivy", LastName: "Inspector", IsActive: true},
			managerID:   {ID: managerID, Email: "manager@test.com", FirstName: "Safety", LastName: "Manager", IsActive: true},
		},
		byRole: map[string][]models.User{
			"safety_manager": {
				{ID: managerID, Email: "manager@test.com", IsActive: true},
				{ID: 21, Email: "manager2@test.com", IsActive: true},
			},
		},
	}
	alerts := &fakeAlerts{}
	audit := &fakeAudit{}

	svc := NewInspectionService(
		checklists,
		inspections,
		&fakeResponses{inspections: inspections},
		actions,
		recipients,
		alerts,
		audit,
		config.NotifyConfig{
			AlertRole:          "safety_manager",
			InspectionLinkBase: "https://safety.example.com/inspections",
		},
	)

	return &testEnv{
		checklists:  checklists,
		inspections: inspections,
		actions:     actions,
		recipients:  recipients,
		alerts:      alerts,
		audit:       audit,
		service:     svc,
	}
}

func TestStartCreatesInspection(t *testing.T) {
	env := newTestEnv()

	inspection, err := env.service.Start(inspectorID, checklistID)
	if err != nil {
		t.Fatalf("Failed to start inspection: %v", err)
	}

	if inspection.ID == 0 {
		t.Error("Inspection should have an ID")
	}
	if inspection.SubmittedAt != nil {
		t.Error("New inspection should not be submitted")
	}
	if len(env.audit.entries) != 1 {
		t.Errorf("Expected 1 audit entry, got %d", len(env.audit.entries))
	}
}

func TestStartResumesOpenInspection(t *testing.T) {
	env := newTestEnv()

	first, err := env.service.Start(inspectorID, checklistID)
	if err != nil {
		t.Fatalf("Failed to start inspection: %v", err)
	}

	second, err := env.service.Start(inspectorID, checklistID)
	if err != nil {
		t.Fatalf("Failed to start inspection again: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("Second start should resume inspection %d, got %d", first.ID, second.ID)
	}
	if len(env.inspections.byID) != 1 {
		t.Errorf("Expected exactly 1 inspection, got %d", len(env.inspections.byID))
	}
}

func TestStartInactiveChecklist(t *testing.T) {
	env := newTestEnv()
	delete(env.checklists.active, checklistID)

	_, err := env.service.Start(inspectorID, checklistID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for inactive checklist, got %v", err)
	}
}

func TestStartLosesCreateRace(t *testing.T) {
	env := newTestEnv()

	// The first insert loses the uniqueness race; the winner's row appears in
	// the store before the error is returned
	raced := false
	env.inspections.onCreate = func(_ *models.Inspection) error {
		if raced {
			return nil
		}
		raced = true
		now := time.Now().UTC()
		env.inspections.byID[99] = &models.Inspection{
			ID:          99,
			ChecklistID: checklistID,
			InspectorID: inspectorID,
			StartedAt:   now,
		}
		return fmt.Errorf("insert inspection: %w", repository.ErrUniqueViolation)
	}

	inspection, err := env.service.Start(inspectorID, checklistID)
	if err != nil {
		t.Fatalf("Start should recover from a lost race: %v", err)
	}
	if inspection.ID != 99 {
		t.Errorf("Expected the race winner's inspection 99, got %d", inspection.ID)
	}
}

func TestSubmitCreatesActionsAndNotifies(t *testing.T) {
	env := newTestEnv()

	inspection, err := env.service.Start(inspectorID, checklistID)
	if err != nil {
		t.Fatalf("Failed to start inspection: %v", err)
	}

	inputs := []models.ResponseInput{
		{ItemID: 101, Result: "fail", Note: "Brake pedal goes to the floor", Photos: []string{"brakes.jpg"}},
		{ItemID: 102, Result: "pass"},
		{ItemID: 103, Result: "fail"},
		{ItemID: 104}, // untouched, defaults to na
	}

	result, err := env.service.Submit(inspectorID, inspection.ID, inputs)
	if err != nil {
		t.Fatalf("Failed to submit inspection: %v", err)
	}

	if result.QualifyingFailures != 2 {
		t.Errorf("Expected 2 qualifying failures, got %d", result.QualifyingFailures)
	}
	if result.CreatedActions != 2 {
		t.Errorf("Expected 2 created actions, got %d", result.CreatedActions)
	}
	if result.SubmittedAt.IsZero() {
		t.Error("Submission timestamp should be set")
	}

	// The failing item with a note uses the note; the one without gets the
	// fallback text
	if len(env.actions.created) != 2 {
		t.Fatalf("Expected 2 corrective actions, got %d", len(env.actions.created))
	}
	first := env.actions.created[0]
	if first.Description != "Inspection failure: Brakes respond correctly" {
		t.Errorf("Unexpected action description: %q", first.Description)
	}
	if first.CorrectiveAction != "Brake pedal goes to the floor" {
		t.Errorf("Action should carry the response note, got %q", first.CorrectiveAction)
	}
	if len(first.Attachments) != 1 || first.Attachments[0] != "brakes.jpg" {
		t.Errorf("Action should carry the response photos, got %v", first.Attachments)
	}
	if first.Priority != "high" || first.Status != models.ActionStatusPending {
		t.Errorf("Expected high/pending action, got %s/%s", first.Priority, first.Status)
	}
	wantDue := result.SubmittedAt.Add(7 * 24 * time.Hour)
	if !first.TargetDate.Equal(wantDue) {
		t.Errorf("Expected target date %v, got %v", wantDue, first.TargetDate)
	}

	second := env.actions.created[1]
	if second.CorrectiveAction != "Investigate and resolve the reported failure" {
		t.Errorf("Action without a note should use the fallback text, got %q", second.CorrectiveAction)
	}

	// Every active member of the alert role gets exactly one notification
	if len(env.alerts.sent) != 2 {
		t.Fatalf("Expected 2 alerts, got %d", len(env.alerts.sent))
	}
	alert := env.alerts.alerts[0]
	if alert.Reference != fmt.Sprintf("INS-%d", inspection.ID) {
		t.Errorf("Unexpected alert reference: %q", alert.Reference)
	}
	if alert.FailureCount != 2 {
		t.Errorf("Expected failure count 2 in alert, got %d", alert.FailureCount)
	}
	if alert.ChecklistName != "Forklift Pre-Shift" {
		t.Errorf("Unexpected checklist name in alert: %q", alert.ChecklistName)
	}
}

func TestSubmitRejectsUnknownItem(t *testing.T) {
	env := newTestEnv()
	inspection, _ := env.service.Start(inspectorID, checklistID)

	_, err := env.service.Submit(inspectorID, inspection.ID, []models.ResponseInput{
		{ItemID: 999, Result: "pass"},
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for unknown item, got %v", err)
	}
	if len(env.inspections.submitted) != 0 {
		t.Error("No responses should be persisted on validation failure")
	}
}

func TestSubmitRejectsDuplicateItem(t *testing.T) {
	env := newTestEnv()
	inspection, _ := env.service.Start(inspectorID, checklistID)

	_, err := env.service.Submit(inspectorID, inspection.ID, []models.ResponseInput{
		{ItemID: 101, Result: "pass"},
		{ItemID: 101, Result: "fail"},
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for duplicate item, got %v", err)
	}
}

func TestSubmitRejectsInvalidResult(t *testing.T) {
	env := newTestEnv()
	inspection, _ := env.service.Start(inspectorID, checklistID)

	_, err := env.service.Submit(inspectorID, inspection.ID, []models.ResponseInput{
		{ItemID: 101, Result: "maybe"},
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for invalid result, got %v", err)
	}
}

func TestSubmitWrongInspector(t *testing.T) {
	env := newTestEnv()
	inspection, _ := env.service.Start(inspectorID, checklistID)

	_, err := env.service.Submit(managerID, inspection.ID, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for another user's inspection, got %v", err)
	}
}

func TestSubmitTwice(t *testing.T) {
	env := newTestEnv()
	inspection, _ := env.service.Start(inspectorID, checklistID)

	inputs := []models.ResponseInput{{ItemID: 101, Result: "pass"}}
	if _, err := env.service.Submit(inspectorID, inspection.ID, inputs); err != nil {
		t.Fatalf("First submit failed: %v", err)
	}

	_, err := env.service.Submit(inspectorID, inspection.ID, inputs)
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("Expected ErrAlreadySubmitted on second submit, got %v", err)
	}
}

func TestSubmitLosesUpdateRace(t *testing.T) {
	env := newTestEnv()
	inspection, _ := env.service.Start(inspectorID, checklistID)

	// A concurrent submit stamps the row between the read and the update
	now := time.Now().UTC()
	env.inspections.byID[inspection.ID].SubmittedAt = &now

	_, err := env.service.Submit(inspectorID, inspection.ID, []models.ResponseInput{
		{ItemID: 101, Result: "pass"},
	})
	if !errors.Is(err, ErrAlreadySubmitted) {
		t.Errorf("Expected ErrAlreadySubmitted after losing the update race, got %v", err)
	}
	if len(env.actions.created) != 0 {
		t.Error("No actions should be created after losing the update race")
	}
}

func TestSubmitPartialEscalation(t *testing.T) {
	env := newTestEnv()
	inspection, _ := env.service.Start(inspectorID, checklistID)

	// The second critical failure cannot be escalated
	env.actions.failWhen = func(action *models.CorrectiveAction) bool {
		return action.Description == "Inspection failure: Hydraulic lines show no leaks"
	}

	result, err := env.service.Submit(inspectorID, inspection.ID, []models.ResponseInput{
		{ItemID: 101, Result: "fail"},
		{ItemID: 103, Result: "fail"},
	})
	if err != nil {
		t.Fatalf("Partial escalation failure must not fail the submission: %v", err)
	}

	if result.QualifyingFailures != 2 {
		t.Errorf("Expected 2 qualifying failures, got %d", result.QualifyingFailures)
	}
	if result.CreatedActions != 1 {
		t.Errorf("Expected 1 created action, got %d", result.CreatedActions)
	}
}

func TestSubmitAlertFailureSwallowed(t *testing.T) {
	env := newTestEnv()
	inspection, _ := env.service.Start(inspectorID, checklistID)

	env.alerts.sendErr = errors.New("smtp unreachable")

	result, err := env.service.Submit(inspectorID, inspection.ID, []models.ResponseInput{
		{ItemID: 101, Result: "fail"},
	})
	if err != nil {
		t.Fatalf("Notification failure must not fail the submission: %v", err)
	}
	if result.CreatedActions != 1 {
		t.Errorf("Expected 1 created action, got %d", result.CreatedActions)
	}
}

func TestSubmitNoCriticalFailuresNoAlerts(t *testing.T) {
	env := newTestEnv()
	inspection, _ := env.service.Start(inspectorID, checklistID)

	result, err := env.service.Submit(inspectorID, inspection.ID, []models.ResponseInput{
		{ItemID: 101, Result: "pass"},
		{ItemID: 102, Result: "fail"}, // non-critical failure
		{ItemID: 103, Result: "pass"},
		{ItemID: 104, Result: "na"},
	})
	if err != nil {
		t.Fatalf("Failed to submit inspection: %v", err)
	}

	if result.QualifyingFailures != 0 {
		t.Errorf("Non-critical failures must not qualify, got %d", result.QualifyingFailures)
	}
	if len(env.actions.created) != 0 {
		t.Errorf("Expected no corrective actions, got %d", len(env.actions.created))
	}
	if len(env.alerts.sent) != 0 {
		t.Errorf("Expected no alerts, got %d", len(env.alerts.sent))
	}
}

func TestSubmitAllNA(t *testing.T) {
	env := newTestEnv()
	inspection, _ := env.service.Start(inspectorID, checklistID)

	result, err := env.service.Submit(inspectorID, inspection.ID, []models.ResponseInput{
		{ItemID: 101, Result: "na"},
		{ItemID: 102, Result: "na"},
		{ItemID: 103, Result: "na"},
		{ItemID: 104, Result: "na"},
	})
	if err != nil {
		t.Fatalf("Failed to submit inspection: %v", err)
	}

	if result.QualifyingFailures != 0 || result.CreatedActions != 0 {
		t.Errorf("All-na submission must derive nothing, got %d/%d",
			result.QualifyingFailures, result.CreatedActions)
	}
	if len(env.actions.created) != 0 {
		t.Errorf("Expected no corrective actions, got %d", len(env.actions.created))
	}
	if len(env.alerts.sent) != 0 {
		t.Errorf("Expected no alerts, got %d", len(env.alerts.sent))
	}

	stats, err := env.service.Stats(inspectorID, []string{"inspector"}, inspection.ID)
	if err != nil {
		t.Fatalf("Failed to compute stats: %v", err)
	}
	if stats.Total != 4 || stats.NA != 4 {
		t.Errorf("Expected na count to equal the item count, got %d/%d na/total", stats.NA, stats.Total)
	}
	if stats.Passed != 0 || stats.Failed != 0 || stats.CriticalFails != 0 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestAuditFailureDoesNotBlockLifecycle(t *testing.T) {
	env := newTestEnv()
	env.audit.failErr = errors.New("audit store unavailable")

	inspection, err := env.service.Start(inspectorID, checklistID)
	if err != nil {
		t.Fatalf("Audit failure must not block start: %v", err)
	}

	result, err := env.service.Submit(inspectorID, inspection.ID, []models.ResponseInput{
		{ItemID: 101, Result: "fail"},
	})
	if err != nil {
		t.Fatalf("Audit failure must not block submit: %v", err)
	}
	if result.CreatedActions != 1 {
		t.Errorf("Expected 1 created action, got %d", result.CreatedActions)
	}
}

func TestStatsCountsMissingResponsesAsNA(t *testing.T) {
	env := newTestEnv()
	inspection, _ := env.service.Start(inspectorID, checklistID)

	// Only two of the four items are answered
	_, err := env.service.Submit(inspectorID, inspection.ID, []models.ResponseInput{
		{ItemID: 101, Result: "fail"},
		{ItemID: 102, Result: "pass"},
	})
	if err != nil {
		t.Fatalf("Failed to submit inspection: %v", err)
	}

	stats, err := env.service.Stats(inspectorID, []string{"inspector"}, inspection.ID)
	if err != nil {
		t.Fatalf("Failed to compute stats: %v", err)
	}

	if stats.Total != 4 {
		t.Errorf("Expected total 4, got %d", stats.Total)
	}
	if stats.Passed != 1 || stats.Failed != 1 || stats.NA != 2 {
		t.Errorf("Expected 1/1/2 pass/fail/na, got %d/%d/%d", stats.Passed, stats.Failed, stats.NA)
	}
	if stats.CriticalFails != 1 {
		t.Errorf("Expected 1 critical failure, got %d", stats.CriticalFails)
	}
}

func TestStatsReadPermissions(t *testing.T) {
	env := newTestEnv()
	inspection, _ := env.service.Start(inspectorID, checklistID)

	// An unrelated user without an elevated role may not view
	if _, err := env.service.Stats(55, []string{"inspector"}, inspection.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for unrelated user, got %v", err)
	}

	// Members of the alert role may view any inspection
	if _, err := env.service.Stats(managerID, []string{"safety_manager"}, inspection.ID); err != nil {
		t.Errorf("Safety manager should be able to view stats: %v", err)
	}

	// So may admins
	if _, err := env.service.Stats(55, []string{"admin"}, inspection.ID); err != nil {
		t.Errorf("Admin should be able to view stats: %v", err)
	}
}

func TestReportBeforeSubmission(t *testing.T) {
	env := newTestEnv()
	inspection, _ := env.service.Start(inspectorID, checklistID)

	// An open inspection still compiles, as a partial report
	doc, err := env.service.Report(inspectorID, []string{"inspector"}, inspection.ID)
	if err != nil {
		t.Fatalf("Open inspection should still compile a report: %v", err)
	}

	if !doc.SubmittedAt.IsZero() {
		t.Errorf("Open inspection report should have a zero submission time, got %v", doc.SubmittedAt)
	}
	if len(doc.Rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(doc.Rows))
	}
	for _, row := range doc.Rows {
		if row.Result != models.ResultNA {
			t.Errorf("Unanswered item %q should show na, got %q", row.ItemText, row.Result)
		}
	}
	if doc.Stats.NA != 4 || doc.Stats.Total != 4 {
		t.Errorf("Expected 4/4 na/total, got %d/%d", doc.Stats.NA, doc.Stats.Total)
	}
}

func TestReportCompiles(t *testing.T) {
	env := newTestEnv()
	inspection, _ := env.service.Start(inspectorID, checklistID)

	_, err := env.service.Submit(inspectorID, inspection.ID, []models.ResponseInput{
		{ItemID: 101, Result: "fail", Note: "Brake pedal goes to the floor"},
		{ItemID: 102, Result: "pass"},
		{ItemID: 103, Result: "pass"},
		{ItemID: 104, Result: "na"},
	})
	if err != nil {
		t.Fatalf("Failed to submit inspection: %v", err)
	}

	// Deactivating the checklist afterwards must not break the report
	env.checklists.byID[checklistID].IsActive = false
	delete(env.checklists.active, checklistID)

	doc, err := env.service.Report(inspectorID, []string{"inspector"}, inspection.ID)
	if err != nil {
		t.Fatalf("Failed to compile report: %v", err)
	}

	if doc.Reference != fmt.Sprintf("INS-%d", inspection.ID) {
		t.Errorf("Unexpected reference: %q", doc.Reference)
	}
	if doc.ChecklistName != "Forklift Pre-Shift" {
		t.Errorf("Unexpected checklist name: %q", doc.ChecklistName)
	}
	if doc.InspectorName != "Ivy Inspector" {
		t.Errorf("Unexpected inspector name: %q", doc.InspectorName)
	}
	if len(doc.Rows) != 4 {
		t.Fatalf("Expected 4 rows, got %d", len(doc.Rows))
	}
	if doc.Rows[0].ItemText != "Brakes respond correctly" {
		t.Errorf("Rows should follow checklist order, got %q first", doc.Rows[0].ItemText)
	}
	if len(doc.Failures) != 1 {
		t.Fatalf("Expected 1 failure, got %d", len(doc.Failures))
	}
	if doc.Failures[0].Note != "Brake pedal goes to the floor" {
		t.Errorf("Failure should carry the note, got %q", doc.Failures[0].Note)
	}
	if doc.Stats.CriticalFails != 1 {
		t.Errorf("Expected 1 critical failure in stats, got %d", doc.Stats.CriticalFails)
	}
}
