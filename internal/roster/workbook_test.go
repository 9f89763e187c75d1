package roster

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	book := excelize.NewFile()
	defer book.Close()
	sheet := book.GetSheetName(0)
	for i, row := range rows {
		row := row
		require.NoError(t, book.SetSheetRow(sheet, fmt.Sprintf("A%d", i+1), &row))
	}
	buf, err := book.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseWorkbook(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Student Name", "bob@mail.com", "555-123-4567"},
		{"Ann Lee ", " ann@x.edu", 5551234567},
		{"", "missing@x.edu", ""},
		{"No Email", "", "5550000000"},
		{"Bob", "bob@x.edu"},
	})

	records, err := ParseWorkbook(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []StudentRecord{
		{Name: "Ann Lee", Email: "ann@x.edu", Phone: "5551234567"},
		{Name: "Bob", Email: "bob@x.edu"},
	}, records)
}

func TestParseWorkbookHeaderOnly(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{{"Name", "a@b.co"}})
	_, err := ParseWorkbook(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestParseWorkbookUnreadable(t *testing.T) {
	_, err := ParseWorkbook(strings.NewReader("not a zip archive"))
	assert.ErrorIs(t, err, ErrInputShape)
}

func TestExtractRowsIncludesOnlyCompleteRows(t *testing.T) {
	rows := [][]string{
		{"Name", "x@y.zz"},
		{"A", "a@x.edu"},
		{"  ", "b@x.edu"},
		{"C"},
		{"D", "   "},
		{},
		{"E", "e@x.edu", "ignored"},
	}
	records, err := ExtractRows(rows)
	require.NoError(t, err)
	assert.Equal(t, []StudentRecord{
		{Name: "A", Email: "a@x.edu"},
		{Name: "E", Email: "e@x.edu"},
	}, records)
}

// A sheet whose first row is data instead of a header loses that row, and the usual
// Name/Email labels do not resolve an email column at all.
func TestExtractRowsConventionalLabelsYieldEmptyBatch(t *testing.T) {
	_, err := ExtractRows([][]string{
		{"Name", "Email", "Phone"},
		{"Ann", "ann@x.edu", "5551234567"},
	})
	assert.ErrorIs(t, err, ErrEmptyBatch)
}
