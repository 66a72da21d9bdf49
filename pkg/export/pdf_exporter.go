package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	landscapeWidth = 277.0
	minColumnWidth = 12.0
)

// PDFExporter renders datasets into a landscape table. Column widths follow
// the content so the per-year payment strips stay readable.
type PDFExporter struct {
	now func() time.Time
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{now: time.Now}
}

// Render creates a PDF document with the dataset title and table body.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	widths := columnWidths(data)
	header := func() {
		pdf.SetFont("Courier", "B", 9)
		for i, h := range data.Headers {
			pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetHeaderFunc(func() {
		if data.Title != "" {
			pdf.SetFont("Arial", "B", 13)
			pdf.CellFormat(0, 8, tr(data.Title), "", 1, "C", false, 0, "")
		}
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(0, 5, e.now().Format("2006-01-02 15:04"), "", 1, "R", false, 0, "")
		header()
	})
	pdf.AddPage()

	pdf.SetFont("Courier", "", 8)
	for _, row := range data.Rows {
		for i := range data.Headers {
			pdf.CellFormat(widths[i], 6, tr(row[data.Key(i)]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(data Dataset) []float64 {
	chars := data.Width()
	total := 0
	for _, n := range chars {
		total += n
	}
	widths := make([]float64, len(chars))
	for i, n := range chars {
		w := landscapeWidth * float64(n) / float64(total)
		if w < minColumnWidth {
			w = minColumnWidth
		}
		widths[i] = w
	}
	return widths
}
