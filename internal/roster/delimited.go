package roster

import "strings"

// ParseDelimited reads one candidate row per non-blank line, fields separated by commas.
// The first two fields are name and email, an optional third is the phone number.
func ParseDelimited(text string) ([]StudentRecord, error) {
	var records []StudentRecord
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			continue
		}
		var phone string
		if len(fields) > 2 {
			phone = fields[2]
		}
		if rec, ok := NewStudentRecord(fields[0], fields[1], phone); ok {
			records = append(records, rec)
		}
	}
	if len(records) == 0 {
		return nil, ErrEmptyBatch
	}
	return records, nil
}
