package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/internal/models"
	appErrors "github.com/noah-isme/yearbook-api/pkg/errors"
)

type profileRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateStudentData(ctx context.Context, user *models.User) error
}

// ProfileService edits the student-owned parts of an account and keeps completion current.
type ProfileService struct {
	repo       profileRepository
	colleges   collegeReader
	photos     photoLister
	completion *CompletionService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(repo profileRepository, colleges collegeReader, photos photoLister, completion *CompletionService, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{repo: repo, colleges: colleges, photos: photos, completion: completion, validator: validate, logger: logger}
}

// Get returns the caller's account, college, photos and live completion score.
func (s *ProfileService) Get(ctx context.Context, userID string) (*dto.StudentDetail, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	detail := &dto.StudentDetail{User: *user, Photos: []models.Photo{}}
	if user.College() != "" {
		college, err := s.colleges.FindByID(ctx, user.College())
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load college")
		}
		detail.College = college
	}
	photos, err := s.photos.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load photos")
	}
	if photos != nil {
		detail.Photos = photos
	}
	detail.ProfileCompletion = CalculateCompletion(user, detail.College, len(detail.Photos))
	return detail, nil
}

// UpdateProfile patches the caller's profile fields and returns the new completion score.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, fields dto.ProfileFields) (int, error) {
	if err := s.validator.Struct(fields); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	user, err := s.loadStudent(ctx, userID, "Only students can update profiles")
	if err != nil {
		return 0, err
	}
	applyProfile(&user.Profile, fields)
	return s.save(ctx, user)
}

// UpdateAnswers replaces the caller's yearbook answers and returns the new completion score.
func (s *ProfileService) UpdateAnswers(ctx context.Context, userID string, req dto.UpdateAnswersRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid yearbook answers payload")
	}
	user, err := s.loadStudent(ctx, userID, "Only students can update yearbook answers")
	if err != nil {
		return 0, err
	}
	user.YearbookAnswers = req.YearbookAnswers
	return s.save(ctx, user)
}

// AdminUpdate edits a student's profile and answers; no other field can be changed this way.
func (s *ProfileService) AdminUpdate(ctx context.Context, studentID string, req dto.UpdateStudentRequest) (int, error) {
	if req.Profile == nil && req.YearbookAnswers == nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "No valid fields to update")
	}
	if req.Profile != nil {
		if err := s.validator.Struct(req.Profile); err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
		}
	}
	user, err := s.load(ctx, studentID)
	if err != nil {
		return 0, err
	}
	if user.UserType != models.UserTypeStudent {
		return 0, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
	}
	if req.Profile != nil {
		applyProfile(&user.Profile, *req.Profile)
	}
	if req.YearbookAnswers != nil {
		user.YearbookAnswers = req.YearbookAnswers
	}
	return s.save(ctx, user)
}

func (s *ProfileService) save(ctx context.Context, user *models.User) (int, error) {
	score, err := s.completion.Score(ctx, user)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute profile completion")
	}
	user.ProfileCompletion = score
	if err := s.repo.UpdateStudentData(ctx, user); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save profile")
	}
	return score, nil
}

func (s *ProfileService) load(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

func (s *ProfileService) loadStudent(ctx context.Context, userID, forbidden string) (*models.User, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.UserType != models.UserTypeStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, forbidden)
	}
	return user, nil
}

func applyProfile(p *models.Profile, fields dto.ProfileFields) {
	if fields.FullName != nil {
		p.FullName = strings.TrimSpace(*fields.FullName)
	}
	if fields.Nickname != nil {
		p.Nickname = strings.TrimSpace(*fields.Nickname)
	}
	if fields.Phone != nil {
		p.Phone = strings.TrimSpace(*fields.Phone)
	}
	if fields.DateOfBirth != nil {
		p.DateOfBirth = strings.TrimSpace(*fields.DateOfBirth)
	}
}
