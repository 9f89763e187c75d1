package yearbookclient

import (
	"strings"

	"github.com/noah-isme/yearbook-api/internal/models"
)

// LocalFilter narrows an already fetched student list.
type LocalFilter struct {
	Name       string
	Email      string
	CollegeID  string
	Completion models.CompletionBucket
}

// FilterStudents keeps the students matching every set field. Name and email match
// case-insensitive substrings.
func FilterStudents(students []models.User, f LocalFilter) []models.User {
	name := strings.ToLower(strings.TrimSpace(f.Name))
	email := strings.ToLower(strings.TrimSpace(f.Email))

	out := make([]models.User, 0, len(students))
	for _, s := range students {
		if name != "" && !strings.Contains(strings.ToLower(s.Name), name) {
			continue
		}
		if email != "" && !strings.Contains(strings.ToLower(s.Email), email) {
			continue
		}
		if f.CollegeID != "" && (s.CollegeID == nil || *s.CollegeID != f.CollegeID) {
			continue
		}
		if f.Completion != "" && models.BucketFor(s.ProfileCompletion) != f.Completion {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Paginate returns the 1-based page of items. Out-of-range pages are empty.
func Paginate[T any](items []T, page, pageSize int) ([]T, models.Pagination) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	meta := models.Pagination{Page: page, PageSize: pageSize, TotalCount: len(items)}

	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}, meta
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], meta
}
