package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/BerylCAtieno/persona-studio/internal/apperr"
	"github.com/BerylCAtieno/persona-studio/internal/models"
)

// SheetName is the single sheet of a spreadsheet export.
const SheetName = "Virtual People Data"

// Document timestamps are pinned so identical input gives identical bytes.
const docTimestamp = "2024-01-01T00:00:00Z"

var columnWidths = []float64{12, 8, 8, 15, 15, 20, 12, 12, 30, 30, 30}

// ToSpreadsheet encodes records as an XLSX workbook with one sheet: a bold
// header row followed by one row per record. Age is written as a number and
// every other column as text.
func ToSpreadsheet(records []models.PersonaRecord) ([]byte, error) {
	rows, err := prepare(records)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, wrapXLSX("rename sheet", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:        "persona-studio",
		LastModifiedBy: "persona-studio",
		Title:          SheetName,
		Created:        docTimestamp,
		Modified:       docTimestamp,
	}); err != nil {
		return nil, wrapXLSX("set document properties", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, wrapXLSX("write header", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, wrapXLSX("create header style", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return nil, wrapXLSX("style header", err)
	}

	for i, r := range rows {
		cells := make([]interface{}, len(r.cells))
		for col, v := range r.cells {
			cells[col] = v
		}
		cells[ageColumn] = r.age

		anchor, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, wrapXLSX("address row", err)
		}
		if err := f.SetSheetRow(SheetName, anchor, &cells); err != nil {
			return nil, wrapXLSX(fmt.Sprintf("write row %d", i), err)
		}
	}

	for i, w := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, wrapXLSX("address column", err)
		}
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return nil, wrapXLSX("set column width", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, wrapXLSX("write workbook", err)
	}
	return buf.Bytes(), nil
}

func wrapXLSX(step string, err error) error {
	return apperr.Wrap(apperr.EncodingError, "xlsx: "+step, err)
}
