package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// DefaultSheetName is used when SheetOptions.Name is empty.
const DefaultSheetName = "البيانات"

// SheetOptions controls the single sheet of a workbook.
type SheetOptions struct {
	Name      string
	Direction Direction
}

// XLSXExporter renders datasets into a one-sheet workbook.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render writes the header row followed by one row per record.
func (e *XLSXExporter) Render(data Dataset, opts SheetOptions) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one header")
	}
	name := opts.Name
	if name == "" {
		name = DefaultSheetName
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	headers := make([]interface{}, len(data.Headers))
	for i, header := range data.DisplayHeaders() {
		headers[i] = header
	}
	if err := f.SetSheetRow(name, "A1", &headers); err != nil {
		return nil, fmt.Errorf("write xlsx headers: %w", err)
	}

	for i, row := range data.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("locate xlsx row %d: %w", i+2, err)
		}
		values := data.Values(row)
		if err := f.SetSheetRow(name, cell, &values); err != nil {
			return nil, fmt.Errorf("write xlsx row %d: %w", i+2, err)
		}
	}

	rtl := opts.Direction != DirectionLTR
	if err := f.SetSheetView(name, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		return nil, fmt.Errorf("set sheet direction: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
