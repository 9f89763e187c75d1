package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
)

// ErrNoColumns is returned when a dataset has no headers.
var ErrNoColumns = errors.New("dataset requires at least one column")

// Dataset is an ordered table. Rows shorter than Headers are padded with empty cells.
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
}

func (d Dataset) row(i int) []string {
	out := make([]string, len(d.Headers))
	copy(out, d.Rows[i])
	return out
}

// CSVExporter writes RFC 4180 CSV, quoting cells as needed.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// ContentType of the rendered bytes.
func (e *CSVExporter) ContentType() string { return "text/csv" }

// Extension of the rendered file.
func (e *CSVExporter) Extension() string { return "csv" }

// Render encodes the dataset; the title is not written.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, ErrNoColumns
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for i := range data.Rows {
		if err := w.Write(data.row(i)); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
