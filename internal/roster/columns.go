package roster

import (
	"regexp"
	"strings"
)

// ColumnRole tags the meaning of one spreadsheet column.
type ColumnRole int

const (
	RoleUnknown ColumnRole = iota
	RoleName
	RoleEmail
	RolePhone
)

func (r ColumnRole) String() string {
	switch r {
	case RoleName:
		return "name"
	case RoleEmail:
		return "email"
	case RolePhone:
		return "phone"
	default:
		return "unknown"
	}
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^(\d{10}|\d{3}-\d{3}-\d{4}|\+\d{1,3}\d{7,14})$`)
	nameLabels   = map[string]struct{}{
		"name":         {},
		"student":      {},
		"student name": {},
		"full name":    {},
	}
)

type columnRule struct {
	role  ColumnRole
	match func(header string) bool
}

// columnRules are evaluated in order; the first match decides the role of a header cell.
// Headers matching no rule fall through to name-by-elimination in DetectColumns.
var columnRules = []columnRule{
	{role: RoleEmail, match: emailPattern.MatchString},
	{role: RolePhone, match: phonePattern.MatchString},
	{role: RoleName, match: func(h string) bool {
		_, ok := nameLabels[strings.ToLower(h)]
		return ok
	}},
}

// ClassifyHeader applies the ordered rules to a single header cell.
func ClassifyHeader(header string) ColumnRole {
	header = strings.TrimSpace(header)
	for _, rule := range columnRules {
		if rule.match(header) {
			return rule.role
		}
	}
	return RoleUnknown
}

// ColumnMap holds the column index chosen for each role, -1 when unassigned.
type ColumnMap struct {
	Name  int
	Email int
	Phone int
}

// DetectColumns assigns roles to header cells left to right. The first column matching a
// role wins; an unmatched column becomes the name column only while none is assigned.
//
// Detection inspects header text, not data cells: a workbook without a header row loses its
// first row to detection and will usually misclassify.
func DetectColumns(headers []string) ColumnMap {
	cols := ColumnMap{Name: -1, Email: -1, Phone: -1}
	for i, header := range headers {
		switch ClassifyHeader(header) {
		case RoleEmail:
			if cols.Email < 0 {
				cols.Email = i
			}
		case RolePhone:
			if cols.Phone < 0 {
				cols.Phone = i
			}
		case RoleName, RoleUnknown:
			if cols.Name < 0 {
				cols.Name = i
			}
		}
	}
	return cols
}

// Roles expands the map into one role per header position.
func (m ColumnMap) Roles(width int) []ColumnRole {
	roles := make([]ColumnRole, width)
	for i := range roles {
		switch i {
		case m.Name:
			roles[i] = RoleName
		case m.Email:
			roles[i] = RoleEmail
		case m.Phone:
			roles[i] = RolePhone
		}
	}
	return roles
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
