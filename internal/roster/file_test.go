package roster

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModeForFilename(t *testing.T) {
	mode, err := ModeForFilename("roster.XLSX")
	require.NoError(t, err)
	assert.Equal(t, ModeSpreadsheet, mode)

	for _, name := range []string{"a.csv", "b.txt"} {
		mode, err = ModeForFilename(name)
		require.NoError(t, err)
		assert.Equal(t, ModeDelimited, mode)
	}

	for _, name := range []string{"a.xls", "b.pdf", "noext"} {
		_, err = ModeForFilename(name)
		assert.ErrorIs(t, err, ErrInputShape, name)
	}
}

func TestParseFileDelimited(t *testing.T) {
	records, err := ParseFile("roster.csv", strings.NewReader("Ann, ann@x.edu\n"), 1024)
	require.NoError(t, err)
	assert.Equal(t, []StudentRecord{{Name: "Ann", Email: "ann@x.edu"}}, records)
}

func TestParseFileSpreadsheet(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Name", "head@x.edu"},
		{"Ann", "ann@x.edu"},
	})
	records, err := ParseFile("roster.xlsx", bytes.NewReader(data), 0)
	require.NoError(t, err)
	assert.Equal(t, []StudentRecord{{Name: "Ann", Email: "ann@x.edu"}}, records)
}

func TestParseFileTooLarge(t *testing.T) {
	_, err := ParseFile("roster.csv", strings.NewReader(strings.Repeat("a", 11)), 10)
	assert.ErrorIs(t, err, ErrInputShape)

	_, err = ParseFile("roster.csv", strings.NewReader("Ann,ann@x.edu"), 13)
	assert.NoError(t, err)
}

func TestParseFileUnsupportedDoesNotRead(t *testing.T) {
	r := strings.NewReader("Ann,ann@x.edu")
	_, err := ParseFile("roster.json", r, 0)
	assert.ErrorIs(t, err, ErrInputShape)
	assert.Equal(t, 13, r.Len())
}
