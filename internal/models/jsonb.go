package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a JSONB array of strings.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// Answers maps a yearbook question index (as a string key) to the student's answer.
type Answers map[string]string

func (a Answers) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]string(a))
}

func (a *Answers) Scan(src interface{}) error {
	return scanJSON(src, a)
}

// Filled counts answers that are not blank.
func (a Answers) Filled() int {
	n := 0
	for _, v := range a {
		if v != "" {
			n++
		}
	}
	return n
}

func (p Profile) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Profile) Scan(src interface{}) error {
	return scanJSON(src, p)
}

func scanJSON(src interface{}, dest interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source %T", src)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dest)
}
