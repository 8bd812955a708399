package output

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"taskdeck/internal/task"
)

// ReportTitle heads the PDF report.
const ReportTitle = "Task Report"

// WritePDF renders tasks as a one-table PDF report. generated is printed
// under the title and stamped as the document's creation date.
func WritePDF(w io.Writer, tasks []task.Task, generated time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(ReportTitle, true)
	pdf.SetCreationDate(generated)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, ReportTitle)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(40, 6, fmt.Sprintf("Generated %s, %d tasks", generated.Format("Jan 2, 2006 15:04"), len(tasks)))
	pdf.Ln(10)

	if len(tasks) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.Cell(40, 6, EmptyList)
		return pdf.Output(w)
	}

	widths := []float64{12, 16, 102, 24, 36}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range []string{"#", "ID", "Name", "Priority", "Due"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	// gofpdf's core fonts are cp1252; translate so accented names survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 10)
	for i, t := range tasks {
		due := ""
		if t.DueDate != "" {
			due = FormatDue(t.DueDate)
		}
		row := []string{
			fmt.Sprint(i + 1),
			fmt.Sprint(t.ID),
			tr(normalizeTitle(t.Name)),
			string(t.Priority),
			due,
		}
		for j, cell := range row {
			pdf.CellFormat(widths[j], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return pdf.Output(w)
}
