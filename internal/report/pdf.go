package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"safetrack/internal/models"
)

// RenderPDF renders a compiled report document as a PDF using the built-in
// core fonts. Non-ASCII characters are replaced with '?' so rendering can
// never fail on input text.
func RenderPDF(doc *Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 14)
	pdf.SetTitle(fmt.Sprintf("Inspection Report %s", doc.Reference), false)

	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, fmt.Sprintf("Inspection Report %s", safeText(doc.Reference)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated at: %s", time.Now().Format("2006-01-02 15:04:05")), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	// Metadata
	sectionTitle(pdf, "1. Inspection Details")
	kv(pdf, "Checklist", doc.ChecklistName)
	kv(pdf, "Category", doc.Category)
	kv(pdf, "Inspector", doc.InspectorName)
	kv(pdf, "Email", doc.InspectorEmail)
	kv(pdf, "Started At", fmtTime(doc.StartedAt))
	kv(pdf, "Submitted At", fmtTime(doc.SubmittedAt))
	pdf.Ln(2)

	// Summary
	sectionTitle(pdf, "2. Summary")
	kv(pdf, "Items", fmt.Sprintf("%d", doc.Stats.Total))
	kv(pdf, "Passed", fmt.Sprintf("%d", doc.Stats.Passed))
	kv(pdf, "Failed", fmt.Sprintf("%d", doc.Stats.Failed))
	kv(pdf, "Not Applicable", fmt.Sprintf("%d", doc.Stats.NA))
	kv(pdf, "Critical Failures", fmt.Sprintf("%d", doc.Stats.CriticalFails))
	pdf.Ln(2)

	// Per-item results in checklist order
	sectionTitle(pdf, "3. Item Results")
	if len(doc.Rows) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(0, 5, "(empty)", "", "L", false)
	} else {
		for i, row := range doc.Rows {
			marker := ""
			if row.Critical {
				marker = " [critical]"
			}
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetTextColor(20, 20, 20)
			pdf.MultiCell(0, 5, fmt.Sprintf("%d. [%s] %s%s", i+1, resultLabel(row.Result), safeText(row.ItemText), marker), "", "L", false)
			if row.Note != "" {
				pdf.SetFont("Helvetica", "", 9)
				pdf.SetTextColor(40, 40, 40)
				pdf.MultiCell(0, 4.5, fmt.Sprintf("note: %s", safeText(row.Note)), "", "L", false)
			}
			if row.PhotoCount > 0 {
				pdf.SetFont("Helvetica", "", 9)
				pdf.SetTextColor(40, 40, 40)
				pdf.MultiCell(0, 4.5, fmt.Sprintf("photos: %d", row.PhotoCount), "", "L", false)
			}
		}
	}
	pdf.Ln(2)

	// Failure details
	sectionTitle(pdf, "4. Failures")
	if len(doc.Failures) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(0, 5, "No failures recorded.", "", "L", false)
	} else {
		for _, failure := range doc.Failures {
			pdf.SetFont("Helvetica", "B", 10)
			if failure.Critical {
				pdf.SetTextColor(180, 40, 40)
			} else {
				pdf.SetTextColor(20, 20, 20)
			}
			pdf.MultiCell(0, 5, safeText(failure.ItemText), "", "L", false)
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(40, 40, 40)
			note := failure.Note
			if note == "" {
				note = "-"
			}
			pdf.MultiCell(0, 4.5, fmt.Sprintf("note: %s", safeText(note)), "", "L", false)
			pdf.MultiCell(0, 4.5, fmt.Sprintf("photos: %d | critical: %v", failure.PhotoCount, failure.Critical), "", "L", false)
			pdf.Ln(1)
		}
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(0, 4.5, "This report was generated automatically from the submitted inspection record.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pdf.GetX(), pdf.GetY(), 200, pdf.GetY())
	pdf.Ln(2)
}

func kv(pdf *gofpdf.Fpdf, key, value string) {
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(36, 5.2, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(20, 20, 20)
	pdf.MultiCell(0, 5.2, safeText(value), "", "L", false)
}

func resultLabel(result string) string {
	switch result {
	case models.ResultPass:
		return "PASS"
	case models.ResultFail:
		return "FAIL"
	default:
		return "N/A"
	}
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

// The core fonts cover ASCII/Latin only; anything else is replaced so the
// renderer cannot error on arbitrary user text.
func safeText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 32 && r <= 126 {
			b.WriteRune(r)
		} else {
			b.WriteRune('?')
		}
	}
	return b.String()
}
