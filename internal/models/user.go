package models

import "time"

// UserType separates administrators from students.
type UserType string

const (
	UserTypeAdmin   UserType = "admin"
	UserTypeStudent UserType = "student"
)

// Profile holds the student-editable personal fields.
type Profile struct {
	FullName    string `json:"full_name,omitempty"`
	Nickname    string `json:"nickname,omitempty"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

// Complete reports whether every profile field is filled.
func (p Profile) Complete() bool {
	return p.FullName != "" && p.Nickname != "" && p.Phone != "" && p.DateOfBirth != ""
}

// User is an account row; students belong to exactly one college.
type User struct {
	ID                string    `db:"id" json:"id"`
	Email             string    `db:"email" json:"email"`
	PasswordHash      string    `db:"password_hash" json:"-"`
	Name              string    `db:"name" json:"name"`
	UserType          UserType  `db:"user_type" json:"user_type"`
	CollegeID         *string   `db:"college_id" json:"college_id,omitempty"`
	Profile           Profile   `db:"profile" json:"profile"`
	YearbookAnswers   Answers   `db:"yearbook_answers" json:"yearbook_answers"`
	ProfileCompletion int       `db:"profile_completion" json:"profile_completion"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// College returns the college id or "".
func (u *User) College() string {
	if u == nil || u.CollegeID == nil {
		return ""
	}
	return *u.CollegeID
}

// CompletionBucket groups profile completion for list filtering.
type CompletionBucket string

const (
	CompletionLow      CompletionBucket = "low"
	CompletionPartial  CompletionBucket = "partial"
	CompletionComplete CompletionBucket = "complete"
)

// Range returns the inclusive score bounds of the bucket.
func (b CompletionBucket) Range() (int, int, bool) {
	switch b {
	case CompletionLow:
		return 0, 49, true
	case CompletionPartial:
		return 50, 99, true
	case CompletionComplete:
		return 100, 100, true
	default:
		return 0, 0, false
	}
}

// BucketFor classifies a completion score.
func BucketFor(score int) CompletionBucket {
	switch {
	case score >= 100:
		return CompletionComplete
	case score >= 50:
		return CompletionPartial
	default:
		return CompletionLow
	}
}

// StudentFilter narrows the admin student list.
type StudentFilter struct {
	CollegeID  string
	Search     string
	Completion CompletionBucket
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
