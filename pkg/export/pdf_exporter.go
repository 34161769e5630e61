package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

var pdfColumns = []struct {
	header string
	width  float64
}{
	{"Data", 22},
	{"Orario", 24},
	{"Insegnamento", 95},
	{"Luogo", 136},
}

// PDFExporter renders calendars into a landscape timetable.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with the calendar name as title and one row per event.
func (e *PDFExporter) Render(cal Calendar) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if cal.Name != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(strings.ToUpper(cal.Name)), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	header := func() {
		pdf.SetFont("Arial", "B", 10)
		for _, col := range pdfColumns {
			pdf.CellFormat(col.width, 8, col.header, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})
	header()

	for _, ev := range cal.Events {
		cells := []string{
			ev.Start.Format("02/01/2006"),
			ev.Start.Format("15:04") + "-" + ev.End.Format("15:04"),
			ev.Summary,
			ev.Location,
		}
		for i, col := range pdfColumns {
			pdf.CellFormat(col.width, 7, tr(fitCell(pdf, cells[i], col.width)), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// fitCell truncates text that would overflow a cell of the given width.
func fitCell(pdf *gofpdf.Fpdf, text string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(text) <= limit {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
