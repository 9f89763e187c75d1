package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/internal/models"
	appErrors "github.com/noah-isme/yearbook-api/pkg/errors"
	"github.com/noah-isme/yearbook-api/pkg/jobs"
)

type collegeRepository interface {
	List(ctx context.Context) ([]models.College, error)
	FindByID(ctx context.Context, id string) (*models.College, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, college *models.College) error
	Update(ctx context.Context, college *models.College) error
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// CollegeService manages colleges and their yearbook settings.
type CollegeService struct {
	repo      collegeRepository
	cache     *CacheService
	jobs      jobEnqueuer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCollegeService constructs a CollegeService. cache and queue may be nil.
func NewCollegeService(repo collegeRepository, cache *CacheService, queue jobEnqueuer, validate *validator.Validate, logger *zap.Logger) *CollegeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollegeService{repo: repo, cache: cache, jobs: queue, validator: validate, logger: logger}
}

// List returns all colleges and whether the result came from cache.
func (s *CollegeService) List(ctx context.Context) ([]models.College, bool, error) {
	var cached []models.College
	if s.cache.Get(ctx, collegeListCacheKey, &cached) {
		return cached, true, nil
	}

	colleges, err := s.repo.List(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list colleges")
	}
	if colleges == nil {
		colleges = []models.College{}
	}
	s.cache.Set(ctx, collegeListCacheKey, colleges, 0)
	return colleges, false, nil
}

// Get returns a college by id.
func (s *CollegeService) Get(ctx context.Context, id string) (*models.College, error) {
	college, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "College not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load college")
	}
	return college, nil
}

// Create adds a college; photo slots default to models.DefaultPhotoSlots.
func (s *CollegeService) Create(ctx context.Context, req dto.CreateCollegeRequest) (*models.College, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid college payload")
	}
	if err := s.ensureUniqueName(ctx, req.Name, ""); err != nil {
		return nil, err
	}

	college := &models.College{
		Name:              req.Name,
		YearbookQuestions: models.StringList(req.YearbookQuestions),
		PhotoSlots:        req.PhotoSlots,
	}
	if college.PhotoSlots == 0 {
		college.PhotoSlots = models.DefaultPhotoSlots
	}
	if err := s.repo.Create(ctx, college); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create college")
	}
	s.cache.Invalidate(ctx, collegeListCacheKey)
	return college, nil
}

// Update changes a college. When questions or photo slots change, completion scores of its
// students are recomputed in the background.
func (s *CollegeService) Update(ctx context.Context, id string, req dto.UpdateCollegeRequest) (*models.College, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid college payload")
	}
	college, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rescore := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "college name cannot be empty")
		}
		if err := s.ensureUniqueName(ctx, name, id); err != nil {
			return nil, err
		}
		college.Name = name
	}
	if req.YearbookQuestions != nil {
		college.YearbookQuestions = models.StringList(req.YearbookQuestions)
		rescore = true
	}
	if req.PhotoSlots != nil && *req.PhotoSlots != college.PhotoSlots {
		college.PhotoSlots = *req.PhotoSlots
		rescore = true
	}

	if err := s.repo.Update(ctx, college); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "College not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update college")
	}
	s.cache.Invalidate(ctx, collegeListCacheKey)

	if rescore && s.jobs != nil {
		job := jobs.Job{ID: uuid.NewString(), Type: JobRecomputeCollege, Payload: college.ID, Enqueued: time.Now().UTC()}
		if err := s.jobs.Enqueue(job); err != nil {
			s.logger.Warn("failed to enqueue completion recompute", zap.String("college_id", college.ID), zap.Error(err))
		}
	}
	return college, nil
}

func (s *CollegeService) ensureUniqueName(ctx context.Context, name, excludeID string) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check college name")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "College name already exists")
	}
	return nil
}
