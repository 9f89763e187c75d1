package dto

import (
	"github.com/noah-isme/yearbook-api/internal/models"
	"github.com/noah-isme/yearbook-api/internal/roster"
)

// BulkUploadRequest is the bulk-create body produced by the roster pipeline.
type BulkUploadRequest struct {
	CollegeID string                 `json:"college_id" validate:"required"`
	Students  []roster.StudentRecord `json:"students"`
}

// BulkUploadResult lists the generated credentials of the created students.
type BulkUploadResult struct {
	CreatedCount int                       `json:"created_count"`
	SkippedCount int                       `json:"skipped_count"`
	Students     []roster.CredentialResult `json:"students"`
}

// ProfileFields is a partial profile update; nil fields are left unchanged.
type ProfileFields struct {
	FullName    *string `json:"full_name"`
	Nickname    *string `json:"nickname"`
	Phone       *string `json:"phone"`
	DateOfBirth *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateStudentRequest is the admin edit of a student's submission.
type UpdateStudentRequest struct {
	Profile         *ProfileFields `json:"profile"`
	YearbookAnswers models.Answers `json:"yearbook_answers"`
}

// UpdateAnswersRequest replaces the caller's yearbook answers.
type UpdateAnswersRequest struct {
	YearbookAnswers models.Answers `json:"yearbook_answers" validate:"required"`
}

// StudentDetail is a student with their college and photos.
type StudentDetail struct {
	models.User
	College *models.College `json:"college,omitempty"`
	Photos  []models.Photo  `json:"photos"`
}

// Classmate is the public view of another student in the same college.
type Classmate struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Nickname          string `json:"nickname,omitempty"`
	ProfileCompletion int    `json:"profile_completion"`
}
