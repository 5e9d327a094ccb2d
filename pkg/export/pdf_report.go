package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const pageWidth = 190.0

// PDFReport builds a paged report document mixing tables and simple
// drawn charts. It replaces an interactive dashboard, so each section is
// appended top to bottom.
type PDFReport struct {
	pdf *gofpdf.Fpdf
}

// NewPDFReport opens an A4 portrait document with the given title.
func NewPDFReport(title string) *PDFReport {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()
	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}
	return &PDFReport{pdf: pdf}
}

// AddSection writes a section heading.
func (r *PDFReport) AddSection(name string) {
	r.pdf.SetFont("Arial", "B", 11)
	r.pdf.CellFormat(0, 8, name, "", 1, "L", false, 0, "")
	r.pdf.Ln(1)
}

// AddKeyValues renders label/value pairs as a two-column block.
func (r *PDFReport) AddKeyValues(pairs [][2]string) {
	r.pdf.SetFont("Arial", "", 10)
	for _, kv := range pairs {
		r.pdf.CellFormat(60, 6, kv[0], "", 0, "L", false, 0, "")
		r.pdf.CellFormat(0, 6, kv[1], "", 1, "L", false, 0, "")
	}
	r.pdf.Ln(3)
}

// AddTable renders the dataset as a bordered table.
func (r *PDFReport) AddTable(data Dataset) error {
	if len(data.Headers) == 0 {
		return fmt.Errorf("pdf table requires at least one header")
	}
	colWidth := pageWidth / float64(len(data.Headers))
	r.pdf.SetFont("Arial", "B", 10)
	for _, header := range data.Headers {
		r.pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	r.pdf.Ln(-1)
	r.pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for col := range data.Headers {
			var value string
			if col < len(row) {
				value = row[col]
			}
			r.pdf.CellFormat(colWidth, 7, value, "1", 0, "", false, 0, "")
		}
		r.pdf.Ln(-1)
	}
	r.pdf.Ln(3)
	return nil
}

// AddBarChart draws a labelled vertical bar chart. axisMax caps the
// value axis; values beyond it are clipped to full height.
func (r *PDFReport) AddBarChart(labels []string, values []float64, axisMax float64) error {
	if len(labels) != len(values) {
		return fmt.Errorf("bar chart needs one value per label")
	}
	if len(labels) == 0 {
		r.pdf.SetFont("Arial", "I", 9)
		r.pdf.CellFormat(0, 6, "no data", "", 1, "L", false, 0, "")
		r.pdf.Ln(3)
		return nil
	}
	if axisMax <= 0 {
		axisMax = 1
	}
	const chartHeight = 45.0
	left := r.pdf.GetX()
	top := r.pdf.GetY()
	barSlot := pageWidth / float64(len(labels))
	barWidth := barSlot * 0.6

	r.pdf.SetFillColor(66, 133, 244)
	r.pdf.SetFont("Arial", "", 8)
	for i, v := range values {
		h := chartHeight * (v / axisMax)
		if h > chartHeight {
			h = chartHeight
		}
		if h < 0 {
			h = 0
		}
		x := left + float64(i)*barSlot + (barSlot-barWidth)/2
		r.pdf.Rect(x, top+chartHeight-h, barWidth, h, "F")
		r.pdf.SetXY(left+float64(i)*barSlot, top+chartHeight-h-4)
		r.pdf.CellFormat(barSlot, 4, fmt.Sprintf("%.2f", v), "", 0, "C", false, 0, "")
	}
	// baseline and labels
	r.pdf.Line(left, top+chartHeight, left+pageWidth, top+chartHeight)
	for i, label := range labels {
		r.pdf.SetXY(left+float64(i)*barSlot, top+chartHeight+1)
		r.pdf.CellFormat(barSlot, 5, label, "", 0, "C", false, 0, "")
	}
	r.pdf.SetXY(left, top+chartHeight+8)
	return nil
}

// AddProgressBar draws a horizontal completion bar for a ratio in [0,1].
func (r *PDFReport) AddProgressBar(ratio float64, caption string) {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	left := r.pdf.GetX()
	top := r.pdf.GetY()
	const barHeight = 8.0
	r.pdf.SetFillColor(220, 220, 220)
	r.pdf.Rect(left, top, pageWidth, barHeight, "F")
	r.pdf.SetFillColor(66, 133, 244)
	r.pdf.Rect(left, top, pageWidth*ratio, barHeight, "F")
	r.pdf.SetXY(left, top)
	r.pdf.SetFont("Arial", "B", 9)
	r.pdf.CellFormat(pageWidth, barHeight, fmt.Sprintf("%.1f%%", ratio*100), "", 1, "C", false, 0, "")
	if caption != "" {
		r.pdf.SetFont("Arial", "", 8)
		r.pdf.CellFormat(0, 5, caption, "", 1, "C", false, 0, "")
	}
	r.pdf.Ln(3)
}

// Output finalises the document.
func (r *PDFReport) Output() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := r.pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
