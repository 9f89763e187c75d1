package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/internal/models"
	"github.com/noah-isme/yearbook-api/internal/roster"
	appErrors "github.com/noah-isme/yearbook-api/pkg/errors"
)

const (
	passwordAlphabet      = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*"
	defaultPasswordLength = 12

	// Roster sources used as metric labels.
	RosterSourceJSON = "json"
	RosterSourceFile = "file"
)

type studentRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	CreateStudents(ctx context.Context, users []*models.User) ([]*models.User, error)
	ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.User, int, error)
	ListByCollege(ctx context.Context, collegeID string) ([]models.User, error)
	DeleteStudent(ctx context.Context, id string) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type photoLister interface {
	ListByUser(ctx context.Context, userID string) ([]models.Photo, error)
}

// StudentConfig bounds roster uploads.
type StudentConfig struct {
	PasswordLength int
	MaxFileBytes   int64
}

// StudentService implements roster bulk upload and the admin student views.
type StudentService struct {
	repo      studentRepository
	colleges  collegeReader
	photos    photoLister
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    StudentConfig
	hashCost  int
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, colleges collegeReader, photos photoLister, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, config StudentConfig) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.PasswordLength <= 0 {
		config.PasswordLength = defaultPasswordLength
	}
	return &StudentService{
		repo:      repo,
		colleges:  colleges,
		photos:    photos,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		config:    config,
		hashCost:  bcrypt.DefaultCost,
	}
}

// BulkUpload creates an account with a generated password for every valid, new roster row.
// Rows missing a name or email and rows whose email is already taken are skipped. When nothing
// is created the call fails with the skipped count.
func (s *StudentService) BulkUpload(ctx context.Context, actorID string, req dto.BulkUploadRequest, source string) (*dto.BulkUploadResult, error) {
	if strings.TrimSpace(req.CollegeID) == "" {
		return nil, mapRosterError(roster.ErrMissingCollege)
	}
	if len(req.Students) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyBatch, "")
	}
	collegeID := strings.TrimSpace(req.CollegeID)
	if _, err := s.colleges.FindByID(ctx, collegeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "College not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load college")
	}

	skipped := 0
	seen := make(map[string]struct{}, len(req.Students))
	candidates := make([]*models.User, 0, len(req.Students))
	passwords := make(map[string]string, len(req.Students))
	for _, raw := range req.Students {
		rec, ok := roster.NewStudentRecord(raw.Name, raw.Email, raw.Phone)
		if !ok {
			skipped++
			continue
		}
		if _, dup := seen[rec.Email]; dup {
			skipped++
			continue
		}
		seen[rec.Email] = struct{}{}

		password, err := generatePassword(s.config.PasswordLength)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate password")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		id := collegeID
		candidates = append(candidates, &models.User{
			Email:        rec.Email,
			PasswordHash: string(hash),
			Name:         rec.Name,
			UserType:     models.UserTypeStudent,
			CollegeID:    &id,
			Profile:      models.Profile{FullName: rec.Name, Phone: rec.Phone},
		})
		passwords[rec.Email] = password
	}

	var created []*models.User
	if len(candidates) > 0 {
		var err error
		created, err = s.repo.CreateStudents(ctx, candidates)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create students")
		}
	}
	skipped += len(candidates) - len(created)
	s.metrics.RecordRosterUpload(source, len(created), skipped)

	if len(created) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEmptyBatch, fmt.Sprintf("No students created. %d students were skipped due to validation errors or duplicates.", skipped))
	}

	result := &dto.BulkUploadResult{
		CreatedCount: len(created),
		SkippedCount: skipped,
		Students:     make([]roster.CredentialResult, 0, len(created)),
	}
	for _, u := range created {
		result.Students = append(result.Students, roster.CredentialResult{Name: u.Name, Email: u.Email, Password: passwords[u.Email]})
	}

	s.logger.Info("roster uploaded",
		zap.String("college_id", collegeID),
		zap.String("source", source),
		zap.Int("created", len(created)),
		zap.Int("skipped", skipped),
	)
	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     optionalString(actorID),
		Action:     models.AuditActionBulkUpload,
		Resource:   "students",
		ResourceID: &collegeID,
		NewValues:  []byte(fmt.Sprintf(`{"created":%d,"skipped":%d,"source":%q}`, len(created), skipped, source)),
	}); err != nil {
		s.logger.Warn("failed to record bulk upload audit log", zap.Error(err))
	}
	return result, nil
}

// UploadRoster parses a roster file (.csv, .txt or .xlsx) and bulk creates its rows.
func (s *StudentService) UploadRoster(ctx context.Context, actorID, collegeID, filename string, r io.Reader) (*dto.BulkUploadResult, error) {
	if strings.TrimSpace(collegeID) == "" {
		return nil, mapRosterError(roster.ErrMissingCollege)
	}
	records, err := roster.ParseFile(filename, r, s.config.MaxFileBytes)
	if err != nil {
		return nil, mapRosterError(err)
	}
	batch, err := roster.NewBatch(collegeID, records)
	if err != nil {
		return nil, mapRosterError(err)
	}
	return s.BulkUpload(ctx, actorID, dto.BulkUploadRequest{CollegeID: batch.CollegeID, Students: batch.Students}, RosterSourceFile)
}

// List returns a filtered page of students.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.ListStudents(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	if users == nil {
		users = []models.User{}
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return users, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a student with their college and photos.
func (s *StudentService) Get(ctx context.Context, id string) (*dto.StudentDetail, error) {
	user, err := s.findStudent(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &dto.StudentDetail{User: *user}
	if user.College() != "" {
		college, err := s.colleges.FindByID(ctx, user.College())
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load college")
		}
		detail.College = college
	}
	photos, err := s.photos.ListByUser(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load photos")
	}
	if photos == nil {
		photos = []models.Photo{}
	}
	detail.Photos = photos
	return detail, nil
}

// Delete removes a student and every testimonial written by or about them.
func (s *StudentService) Delete(ctx context.Context, actorID, id string) error {
	if err := s.repo.DeleteStudent(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     optionalString(actorID),
		Action:     models.AuditActionStudentDelete,
		Resource:   "students",
		ResourceID: &id,
	}); err != nil {
		s.logger.Warn("failed to record student delete audit log", zap.Error(err))
	}
	return nil
}

// Classmates lists the other students of the caller's college.
func (s *StudentService) Classmates(ctx context.Context, claims *models.JWTClaims) ([]dto.Classmate, error) {
	if claims.CollegeID == "" {
		return []dto.Classmate{}, nil
	}
	users, err := s.repo.ListByCollege(ctx, claims.CollegeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list classmates")
	}
	classmates := make([]dto.Classmate, 0, len(users))
	for _, u := range users {
		if u.ID == claims.UserID {
			continue
		}
		classmates = append(classmates, dto.Classmate{
			ID:                u.ID,
			Name:              u.Name,
			Email:             u.Email,
			Nickname:          u.Profile.Nickname,
			ProfileCompletion: u.ProfileCompletion,
		})
	}
	return classmates, nil
}

func (s *StudentService) findStudent(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if user.UserType != models.UserTypeStudent {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "Student not found")
	}
	return user, nil
}

// mapRosterError converts roster sentinels to API errors.
func mapRosterError(err error) error {
	switch {
	case errors.Is(err, roster.ErrMissingCollege):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Please select a college")
	case errors.Is(err, roster.ErrEmptyBatch):
		return appErrors.Wrap(err, appErrors.ErrEmptyBatch.Code, appErrors.ErrEmptyBatch.Status, "No valid students found in the roster")
	case errors.Is(err, roster.ErrInputShape):
		return appErrors.Wrap(err, appErrors.ErrInputShape.Code, appErrors.ErrInputShape.Status, err.Error())
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read roster")
	}
}

func generatePassword(length int) (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
