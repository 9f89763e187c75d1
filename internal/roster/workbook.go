package roster

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ParseWorkbook reads the first sheet of an .xlsx workbook. Row 1 is the header row used for
// column detection; data rows start at row 2.
func ParseWorkbook(r io.Reader) ([]StudentRecord, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read workbook: %v", ErrInputShape, err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInputShape)
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrInputShape, sheets[0], err)
	}
	return ExtractRows(rows)
}

// ExtractRows applies header detection to rows[0] and builds records from the remaining rows.
func ExtractRows(rows [][]string) ([]StudentRecord, error) {
	if len(rows) < 2 {
		return nil, ErrEmptyBatch
	}
	cols := DetectColumns(rows[0])

	var records []StudentRecord
	for _, row := range rows[1:] {
		rec, ok := NewStudentRecord(cell(row, cols.Name), cell(row, cols.Email), cell(row, cols.Phone))
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, ErrEmptyBatch
	}
	return records, nil
}
