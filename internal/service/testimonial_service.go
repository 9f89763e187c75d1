package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/internal/models"
	"github.com/noah-isme/yearbook-api/internal/testimonial"
	appErrors "github.com/noah-isme/yearbook-api/pkg/errors"
)

type testimonialRepository interface {
	Upsert(ctx context.Context, t *models.Testimonial) error
	Find(ctx context.Context, fromID, toID string) (*models.Testimonial, error)
	ListReceived(ctx context.Context, toID string) ([]models.Testimonial, error)
	ListWritten(ctx context.Context, fromID string) ([]models.Testimonial, error)
	Delete(ctx context.Context, fromID, toID string) error
}

type userReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// TestimonialService manages peer testimonials between students of the same college.
type TestimonialService struct {
	repo      testimonialRepository
	users     userReader
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTestimonialService constructs a TestimonialService.
func NewTestimonialService(repo testimonialRepository, users userReader, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *TestimonialService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TestimonialService{repo: repo, users: users, audit: audit, validator: validate, logger: logger}
}

// Submit writes the caller's testimonial about a classmate, replacing an earlier one.
func (s *TestimonialService) Submit(ctx context.Context, claims *models.JWTClaims, req dto.CreateTestimonialRequest) (*dto.TestimonialResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid testimonial payload")
	}
	text := strings.TrimSpace(req.Text)
	words, err := testimonial.Validate(text)
	if err != nil {
		return nil, mapWordLimitError(err)
	}
	if req.ToStudentID == claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "You cannot write a testimonial about yourself")
	}

	target, err := s.users.FindByID(ctx, req.ToStudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if target.UserType != models.UserTypeStudent {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
	}
	if target.College() == "" || target.College() != claims.CollegeID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Can only write testimonials for students in your college")
	}

	existing, err := s.repo.Find(ctx, claims.UserID, req.ToStudentID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load testimonial")
	}

	item := &models.Testimonial{
		FromStudentID: claims.UserID,
		ToStudentID:   req.ToStudentID,
		Text:          text,
		WordCount:     words,
	}
	message := "Testimonial created"
	if existing != nil {
		item.CreatedAt = existing.CreatedAt
		message = "Testimonial updated"
	}
	if err := s.repo.Upsert(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save testimonial")
	}
	return &dto.TestimonialResult{Success: true, Message: message, WordCount: words}, nil
}

// Received lists testimonials written about the student.
func (s *TestimonialService) Received(ctx context.Context, studentID string) ([]models.Testimonial, error) {
	items, err := s.repo.ListReceived(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list testimonials")
	}
	if items == nil {
		items = []models.Testimonial{}
	}
	return items, nil
}

// Written lists testimonials the student has written.
func (s *TestimonialService) Written(ctx context.Context, studentID string) ([]models.Testimonial, error) {
	items, err := s.repo.ListWritten(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list testimonials")
	}
	if items == nil {
		items = []models.Testimonial{}
	}
	return items, nil
}

// Update lets an admin rewrite a testimonial; the word limit still applies.
func (s *TestimonialService) Update(ctx context.Context, actorID, fromID, toID string, req dto.UpdateTestimonialRequest) (*models.Testimonial, error) {
	text := strings.TrimSpace(req.Text)
	words, err := testimonial.Validate(text)
	if err != nil {
		return nil, mapWordLimitError(err)
	}
	item, err := s.repo.Find(ctx, fromID, toID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Testimonial not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load testimonial")
	}
	item.Text = text
	item.WordCount = words
	if err := s.repo.Upsert(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save testimonial")
	}
	s.record(ctx, actorID, models.AuditActionTestimonialUpdate, fromID, toID, words)
	return item, nil
}

// Delete lets an admin remove a testimonial.
func (s *TestimonialService) Delete(ctx context.Context, actorID, fromID, toID string) error {
	if err := s.repo.Delete(ctx, fromID, toID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Testimonial not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete testimonial")
	}
	s.record(ctx, actorID, models.AuditActionTestimonialDelete, fromID, toID, 0)
	return nil
}

func (s *TestimonialService) record(ctx context.Context, actorID, action, fromID, toID string, words int) {
	if s.audit == nil {
		return
	}
	resourceID := fromID + "/" + toID
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     optionalString(actorID),
		Action:     action,
		Resource:   "testimonials",
		ResourceID: &resourceID,
		NewValues:  []byte(fmt.Sprintf(`{"word_count":%d}`, words)),
	}); err != nil {
		s.logger.Warn("failed to record testimonial audit log", zap.String("action", action), zap.Error(err))
	}
}

func mapWordLimitError(err error) error {
	var limit *testimonial.LimitError
	if errors.As(err, &limit) {
		return appErrors.Wrap(err, appErrors.ErrWordLimit.Code, appErrors.ErrWordLimit.Status, limit.Error())
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
}
