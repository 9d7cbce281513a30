package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMarginLeft = 10.0
	pageMarginTop  = 15.0
	gridRowHeight  = 12.0
	gridLineHeight = 4.0
)

// PDFExporter renders datasets into a basic tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf, width := newDocument("L")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	writeTitle(pdf, tr, title)

	pdf.SetFont("Arial", "B", 10)
	colWidth := width / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, tr(header), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, tr(row[header]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
	return output(pdf)
}

// RenderGrid draws the grid on one landscape page. Anchored cells are drawn as
// a single box as tall as their span.
func (e *PDFExporter) RenderGrid(grid Grid, title string) ([]byte, error) {
	if err := grid.validate(); err != nil {
		return nil, err
	}
	pdf, width := newDocument("L")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	writeTitle(pdf, tr, title)

	headerWidth := 28.0
	colWidth := (width - headerWidth) / float64(len(grid.Columns))
	top := pdf.GetY()

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(headerWidth, 8, tr(grid.Corner), "1", 0, "C", true, 0, "")
	for _, column := range grid.Columns {
		pdf.CellFormat(colWidth, 8, tr(column), "1", 0, "C", true, 0, "")
	}
	top += 8

	for i, row := range grid.Cells {
		y := top + float64(i)*gridRowHeight
		pdf.SetFont("Arial", "B", 8)
		pdf.SetXY(pageMarginLeft, y)
		pdf.CellFormat(headerWidth, gridRowHeight, tr(grid.RowHeaders[i]), "1", 0, "C", true, 0, "")

		pdf.SetFont("Arial", "", 7)
		for j, cell := range row {
			if cell.Covered {
				continue
			}
			x := pageMarginLeft + headerWidth + float64(j)*colWidth
			span := cell.Span
			if span < 1 {
				span = 1
			}
			if i+span > len(grid.Cells) {
				span = len(grid.Cells) - i
			}
			height := float64(span) * gridRowHeight
			pdf.Rect(x, y, colWidth, height, "D")
			if cell.Text == "" {
				continue
			}
			pdf.SetXY(x, y+1)
			pdf.MultiCell(colWidth, gridLineHeight, tr(cell.Text), "", "C", false)
		}
	}
	return output(pdf)
}

func newDocument(orientation string) (*gofpdf.Fpdf, float64) {
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(pageMarginLeft, pageMarginTop, pageMarginLeft)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()
	pageWidth, _ := pdf.GetPageSize()
	return pdf, pageWidth - 2*pageMarginLeft
}

func writeTitle(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	if title == "" {
		return
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr(strings.ToUpper(title)), "", 1, "C", false, 0, "")
	pdf.Ln(3)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
