// Package roster turns raw tabular student rosters into validated bulk-create batches.
//
// Two input shapes are supported: pasted comma-delimited text and .xlsx workbooks. Both
// produce an ordered slice of StudentRecord; rows without a name or email are dropped
// silently, and an input that yields no records fails with ErrEmptyBatch.
package roster

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyBatch reports that no row survived extraction.
	ErrEmptyBatch = errors.New("no valid student rows found")
	// ErrInputShape reports an unsupported or unreadable input.
	ErrInputShape = errors.New("unsupported roster input")
	// ErrMissingCollege reports a batch without a target college.
	ErrMissingCollege = errors.New("target college is required")
)

// StudentRecord is one normalized roster entry.
type StudentRecord struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// NewStudentRecord trims the fields and reports false when name or email is empty.
func NewStudentRecord(name, email, phone string) (StudentRecord, bool) {
	rec := StudentRecord{
		Name:  strings.TrimSpace(name),
		Email: strings.TrimSpace(email),
		Phone: strings.TrimSpace(phone),
	}
	if rec.Name == "" || rec.Email == "" {
		return StudentRecord{}, false
	}
	return rec, true
}

// Batch is the bulk-create request body for one upload attempt.
type Batch struct {
	CollegeID string          `json:"college_id"`
	Students  []StudentRecord `json:"students"`
}

// NewBatch pairs records with a target college. The college must be selected and the
// record list must be non-empty.
func NewBatch(collegeID string, records []StudentRecord) (Batch, error) {
	collegeID = strings.TrimSpace(collegeID)
	if collegeID == "" {
		return Batch{}, ErrMissingCollege
	}
	if len(records) == 0 {
		return Batch{}, ErrEmptyBatch
	}
	students := make([]StudentRecord, len(records))
	copy(students, records)
	return Batch{CollegeID: collegeID, Students: students}, nil
}

// CredentialResult is a generated login returned after a successful bulk create.
type CredentialResult struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
