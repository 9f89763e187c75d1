package roster

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Mode identifies how a roster source is parsed.
type Mode string

const (
	ModeDelimited   Mode = "delimited"
	ModeSpreadsheet Mode = "spreadsheet"
)

// ModeForFilename picks the parser from the file extension.
func ModeForFilename(name string) (Mode, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return ModeSpreadsheet, nil
	case ".csv", ".txt":
		return ModeDelimited, nil
	default:
		return "", fmt.Errorf("%w: unsupported file type %q", ErrInputShape, filepath.Ext(name))
	}
}

// ParseFile reads at most limit bytes from r and parses it according to the filename.
// A non-positive limit disables the size check.
func ParseFile(name string, r io.Reader, limit int64) ([]StudentRecord, error) {
	mode, err := ModeForFilename(name)
	if err != nil {
		return nil, err
	}

	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrInputShape, name, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInputShape, limit)
	}

	if mode == ModeSpreadsheet {
		return ParseWorkbook(bytes.NewReader(data))
	}
	return ParseDelimited(string(data))
}
