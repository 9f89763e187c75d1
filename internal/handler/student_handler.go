package handler

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/internal/models"
	"github.com/noah-isme/yearbook-api/internal/service"
	appErrors "github.com/noah-isme/yearbook-api/pkg/errors"
	"github.com/noah-isme/yearbook-api/pkg/response"
)

type studentService interface {
	BulkUpload(ctx context.Context, actorID string, req dto.BulkUploadRequest, source string) (*dto.BulkUploadResult, error)
	UploadRoster(ctx context.Context, actorID, collegeID, filename string, r io.Reader) (*dto.BulkUploadResult, error)
	List(ctx context.Context, filter models.StudentFilter) ([]models.User, *models.Pagination, error)
	Get(ctx context.Context, id string) (*dto.StudentDetail, error)
	Delete(ctx context.Context, actorID, id string) error
	Classmates(ctx context.Context, claims *models.JWTClaims) ([]dto.Classmate, error)
}

type studentEditor interface {
	AdminUpdate(ctx context.Context, studentID string, req dto.UpdateStudentRequest) (int, error)
}

type receivedLister interface {
	Received(ctx context.Context, studentID string) ([]models.Testimonial, error)
}

// StudentHandler exposes roster upload and the admin student views.
type StudentHandler struct {
	students     studentService
	editor       studentEditor
	testimonials receivedLister
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, editor studentEditor, testimonials receivedLister) *StudentHandler {
	return &StudentHandler{students: students, editor: editor, testimonials: testimonials}
}

// BulkUpload godoc
// @Summary Bulk create students
// @Description Creates accounts with generated passwords; rows with missing fields or taken emails are skipped
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.BulkUploadRequest true "Roster batch"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/bulk-upload [post]
func (h *StudentHandler) BulkUpload(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.BulkUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid roster payload"))
		return
	}
	result, err := h.students.BulkUpload(c.Request.Context(), claims.UserID, req, service.RosterSourceJSON)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UploadFile godoc
// @Summary Bulk create students from a roster file
// @Description Accepts .csv, .txt (name,email[,phone] per line) or .xlsx (header row, first sheet)
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param college_id formData string true "Target college"
// @Param file formData file true "Roster file"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/bulk-upload/file [post]
func (h *StudentHandler) UploadFile(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInputShape.Code, appErrors.ErrInputShape.Status, "roster file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInputShape.Code, appErrors.ErrInputShape.Status, "failed to read roster file"))
		return
	}
	defer file.Close()

	result, err := h.students.UploadRoster(c.Request.Context(), claims.UserID, c.PostForm("college_id"), header.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param college_id query string false "Filter by college"
// @Param search query string false "Search by name or email"
// @Param completion query string false "Completion bucket" Enums(low, partial, complete)
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort column"
// @Param order query string false "asc or desc"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter := models.StudentFilter{
		CollegeID:  strings.TrimSpace(c.Query("college_id")),
		Search:     strings.TrimSpace(c.Query("search")),
		Completion: models.CompletionBucket(strings.ToLower(c.Query("completion"))),
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "limit", 20),
		SortBy:     c.Query("sort"),
		SortOrder:  c.Query("order"),
	}
	if _, _, ok := filter.Completion.Range(); filter.Completion != "" && !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "completion must be one of low, partial, complete"))
		return
	}

	students, pagination, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, pagination)
}

// Get godoc
// @Summary Get student detail
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Update godoc
// @Summary Edit a student's profile and yearbook answers
// @Tags Students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param payload body dto.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid student payload"))
		return
	}
	score, err := h.editor.AdminUpdate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Student updated", "profile_completion": score}, nil)
}

// Delete godoc
// @Summary Delete student
// @Description Removes the student and every testimonial written by or about them
// @Tags Students
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	if err := h.students.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Testimonials godoc
// @Summary Testimonials received by a student
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/testimonials [get]
func (h *StudentHandler) Testimonials(c *gin.Context) {
	items, err := h.testimonials.Received(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Classmates godoc
// @Summary Other students in the caller's college
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /college/students [get]
func (h *StudentHandler) Classmates(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	classmates, err := h.students.Classmates(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classmates, nil)
}
