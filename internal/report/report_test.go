package report

import (
	"bytes"
	"testing"
	"time"

	"safetrack/internal/models"
)

func testItems() []models.ChecklistItem {
	return []models.ChecklistItem{
		{ID: 1, Text: "Brakes respond correctly", Critical: true, SortOrder: 1},
		{ID: 2, Text: "Horn is audible", Critical: false, SortOrder: 2},
		{ID: 3, Text: "Hydraulic lines show no leaks", Critical: true, SortOrder: 3},
	}
}

func TestCountResponses(t *testing.T) {
	items := testItems()

	tests := []struct {
		name      string
		responses []models.Response
		expected  models.InspectionStats
	}{
		{
			name:      "no responses counts everything as na",
			responses: nil,
			expected:  models.InspectionStats{Total: 3, NA: 3},
		},
		{
			name: "all passed",
			responses: []models.Response{
				{ItemID: 1, Result: "pass"},
				{ItemID: 2, Result: "pass"},
				{ItemID: 3, Result: "pass"},
			},
			expected: models.InspectionStats{Total: 3, Passed: 3},
		},
		{
			name: "critical failure counted",
			responses: []models.Response{
				{ItemID: 1, Result: "fail"},
				{ItemID: 2, Result: "fail"},
				{ItemID: 3, Result: "na"},
			},
			expected: models.InspectionStats{Total: 3, Failed: 2, NA: 1, CriticalFails: 1},
		},
		{
			name: "missing response counts as na",
			responses: []models.Response{
				{ItemID: 1, Result: "pass"},
			},
			expected: models.InspectionStats{Total: 3, Passed: 1, NA: 2},
		},
		{
			name: "response for removed item is ignored",
			responses: []models.Response{
				{ItemID: 99, Result: "fail"},
			},
			expected: models.InspectionStats{Total: 3, NA: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := CountResponses(items, tt.responses)
			if stats != tt.expected {
				t.Errorf("CountResponses() = %+v, expected %+v", stats, tt.expected)
			}
		})
	}
}

func testDocument() *Document {
	started := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	submitted := started.Add(25 * time.Minute)

	inspection := &models.Inspection{
		ID:          42,
		ChecklistID: 1,
		InspectorID: 10,
		StartedAt:   started,
		SubmittedAt: &submitted,
	}
	checklist := &models.Checklist{ID: 1, Name: "Forklift Pre-Shift", Category: "equipment"}
	inspector := &models.User{ID: 10, Email: "inspector@test.com", FirstName: "Ivy", LastName: "Inspector"}
	responses := []models.Response{
		{ItemID: 1, Result: "fail", Note: "Brake pedal goes to the floor", Photos: []string{"a.jpg", "b.jpg"}},
		{ItemID: 3, Result: "pass"},
	}

	return Compile("INS-42", inspection, checklist, inspector, testItems(), responses)
}

func TestCompile(t *testing.T) {
	doc := testDocument()

	if doc.Reference != "INS-42" {
		t.Errorf("Unexpected reference: %q", doc.Reference)
	}
	if doc.InspectorName != "Ivy Inspector" {
		t.Errorf("Unexpected inspector name: %q", doc.InspectorName)
	}
	if doc.SubmittedAt.IsZero() {
		t.Error("Submission time should be set")
	}

	if len(doc.Rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(doc.Rows))
	}

	// Rows follow checklist item order; the unanswered item shows na
	if doc.Rows[0].Result != "fail" || doc.Rows[0].PhotoCount != 2 {
		t.Errorf("Unexpected first row: %+v", doc.Rows[0])
	}
	if doc.Rows[1].Result != "na" {
		t.Errorf("Unanswered item should show na, got %q", doc.Rows[1].Result)
	}
	if doc.Rows[2].Result != "pass" {
		t.Errorf("Unexpected third row result: %q", doc.Rows[2].Result)
	}

	if len(doc.Failures) != 1 {
		t.Fatalf("Expected 1 failure, got %d", len(doc.Failures))
	}
	failure := doc.Failures[0]
	if failure.ItemText != "Brakes respond correctly" || !failure.Critical {
		t.Errorf("Unexpected failure detail: %+v", failure)
	}
	if failure.Note != "Brake pedal goes to the floor" {
		t.Errorf("Failure should carry the note, got %q", failure.Note)
	}

	// Stats agree with CountResponses over the same inputs
	want := models.InspectionStats{Total: 3, Passed: 1, Failed: 1, NA: 1, CriticalFails: 1}
	if doc.Stats != want {
		t.Errorf("Stats = %+v, expected %+v", doc.Stats, want)
	}
}

func TestRenderPDF(t *testing.T) {
	doc := testDocument()

	data, err := RenderPDF(doc)
	if err != nil {
		t.Fatalf("Failed to render PDF: %v", err)
	}

	if len(data) == 0 {
		t.Fatal("PDF output should not be empty")
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("Output should start with the PDF magic bytes")
	}
}

func TestRenderPDFNonASCII(t *testing.T) {
	doc := testDocument()
	doc.InspectorName = "Ivy Ínspector"
	doc.Rows[0].Note = "Bremsflüssigkeit fehlt"

	data, err := RenderPDF(doc)
	if err != nil {
		t.Fatalf("Non-ASCII text must not break rendering: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("PDF output should not be empty")
	}
}

func TestSafeText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain text", "plain text"},
		{"Bremsflüssigkeit", "Bremsfl?ssigkeit"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := safeText(tt.input); got != tt.expected {
			t.Errorf("safeText(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
