package export

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

const pdfFontFamily = "registrar"

// PDFExporter renders datasets into a landscape roster.
// Core PDF fonts carry no Arabic glyphs, so labels are only used with a UTF-8 font.
type PDFExporter struct {
	fontPath string
}

// NewPDFExporter constructs a PDF exporter. fontPath may point at a TTF file.
func NewPDFExporter(fontPath string) *PDFExporter {
	return &PDFExporter{fontPath: fontPath}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	fontDir := ""
	if e.fontPath != "" {
		fontDir = filepath.Dir(e.fontPath)
	}
	pdf := gofpdf.New("L", "mm", "A4", fontDir)
	pdf.SetMargins(10, 15, 10)

	family := "Arial"
	headers := data.Headers
	if e.fontPath != "" {
		pdf.AddUTF8Font(pdfFontFamily, "", filepath.Base(e.fontPath))
		family = pdfFontFamily
		headers = data.DisplayHeaders()
	}
	pdf.AddPage()

	if title != "" {
		pdf.SetFont(family, "", 14)
		pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont(family, "", 7)
	colWidth := 277.0 / float64(len(headers))
	for _, header := range headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, cellText(row[header]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
