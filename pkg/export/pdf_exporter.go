package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth  = 190.0
	pageBottom = 280.0
	rowHeight  = 7.0
)

// PDFExporter renders a dataset as a bordered A4 table, repeating the header row on each page.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

func (e *PDFExporter) ContentType() string { return "application/pdf" }

func (e *PDFExporter) Extension() string { return "pdf" }

func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, ErrNoColumns
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(false, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	widths := columnWidths(data)

	header := func() {
		pdf.SetFont("Arial", "B", 10)
		for i, h := range data.Headers {
			pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}

	pdf.AddPage()
	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(data.Title), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}
	header()

	for i := range data.Rows {
		if pdf.GetY()+rowHeight > pageBottom {
			pdf.AddPage()
			header()
		}
		for col, value := range data.row(i) {
			pdf.CellFormat(widths[col], rowHeight, tr(value), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// columnWidths splits the page width by the longest value seen in each column.
func columnWidths(data Dataset) []float64 {
	lengths := make([]int, len(data.Headers))
	total := 0
	for i, h := range data.Headers {
		lengths[i] = len(h)
	}
	for r := range data.Rows {
		for i, v := range data.row(r) {
			if len(v) > lengths[i] {
				lengths[i] = len(v)
			}
		}
	}
	for i := range lengths {
		if lengths[i] < 4 {
			lengths[i] = 4
		}
		total += lengths[i]
	}
	widths := make([]float64, len(lengths))
	for i, l := range lengths {
		widths[i] = pageWidth * float64(l) / float64(total)
	}
	return widths
}
