// Package report compiles submitted inspections into a structured document
// and renders it as a PDF. The summary counting lives here too, so the stats
// endpoint and the report are computed by the same rules.
package report

import (
	"time"

	"safetrack/internal/models"
)

// Document is the compiled, render-agnostic form of an inspection report.
// Rows follow the checklist's stable item order.
type Document struct {
	Reference      string               `json:"reference"`
	ChecklistName  string               `json:"checklist_name"`
	Category       string               `json:"category"`
	InspectorName  string               `json:"inspector_name"`
	InspectorEmail string               `json:"inspector_email"`
	StartedAt      time.Time            `json:"started_at"`
	SubmittedAt    time.Time            `json:"submitted_at"`
	Stats          models.InspectionStats `json:"stats"`
	Rows           []Row                `json:"rows"`
	Failures       []Failure            `json:"failures"`
}

// Row is one checklist item with its recorded outcome
type Row struct {
	ItemText   string `json:"item_text"`
	Critical   bool   `json:"critical"`
	Result     string `json:"result"`
	Note       string `json:"note,omitempty"`
	PhotoCount int    `json:"photo_count"`
}

// Failure is the detail block for a failed item
type Failure struct {
	ItemText   string `json:"item_text"`
	Critical   bool   `json:"critical"`
	Note       string `json:"note,omitempty"`
	PhotoCount int    `json:"photo_count"`
}

// CountResponses computes the summary counts for one inspection. Every
// checklist item contributes exactly once; an item without a recorded
// response counts as not-applicable.
func CountResponses(items []models.ChecklistItem, responses []models.Response) models.InspectionStats {
	byItem := make(map[uint]models.Response, len(responses))
	for _, response := range responses {
		byItem[response.ItemID] = response
	}

	stats := models.InspectionStats{Total: len(items)}
	for _, item := range items {
		response, ok := byItem[item.ID]
		result := models.ResultNA
		if ok {
			result = response.Result
		}
		switch result {
		case models.ResultPass:
			stats.Passed++
		case models.ResultFail:
			stats.Failed++
			if item.Critical {
				stats.CriticalFails++
			}
		default:
			stats.NA++
		}
	}
	return stats
}

// Compile builds the report document for a submitted inspection
func Compile(
	reference string,
	inspection *models.Inspection,
	checklist *models.Checklist,
	inspector *models.User,
	items []models.ChecklistItem,
	responses []models.Response,
) *Document {
	byItem := make(map[uint]models.Response, len(responses))
	for _, response := range responses {
		byItem[response.ItemID] = response
	}

	doc := &Document{
		Reference:     reference,
		ChecklistName: checklist.Name,
		Category:      checklist.Category,
		StartedAt:     inspection.StartedAt,
		Stats:         CountResponses(items, responses),
		Rows:          make([]Row, 0, len(items)),
	}
	if inspection.SubmittedAt != nil {
		doc.SubmittedAt = *inspection.SubmittedAt
	}
	if inspector != nil {
		doc.InspectorName = inspector.FirstName + " " + inspector.LastName
		doc.InspectorEmail = inspector.Email
	}

	for _, item := range items {
		response, ok := byItem[item.ID]
		row := Row{
			ItemText: item.Text,
			Critical: item.Critical,
			Result:   models.ResultNA,
		}
		if ok {
			row.Result = response.Result
			row.Note = response.Note
			row.PhotoCount = len(response.Photos)
		}
		doc.Rows = append(doc.Rows, row)

		if row.Result == models.ResultFail {
			doc.Failures = append(doc.Failures, Failure{
				ItemText:   item.Text,
				Critical:   item.Critical,
				Note:       row.Note,
				PhotoCount: row.PhotoCount,
			})
		}
	}

	return doc
}
