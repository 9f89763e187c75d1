package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/yearbook-api/internal/models"
	"github.com/noah-isme/yearbook-api/pkg/jobs"
)

// JobRecomputeCollege recomputes completion for every student of the college in the payload.
const JobRecomputeCollege = "completion.recompute_college"

// CalculateCompletion scores a student out of four equal parts: a complete profile, one answer
// per yearbook question, a photo in every slot, and basic account info (always present).
// Students without a college score 0.
func CalculateCompletion(user *models.User, college *models.College, photoCount int) int {
	if user == nil || college == nil {
		return 0
	}
	const parts = 4
	score := 1
	if user.Profile.Complete() {
		score++
	}
	if user.YearbookAnswers.Filled() >= len(college.YearbookQuestions) {
		score++
	}
	slots := college.PhotoSlots
	if slots <= 0 {
		slots = models.DefaultPhotoSlots
	}
	if photoCount >= slots {
		score++
	}
	return score * 100 / parts
}

type completionUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	ListByCollege(ctx context.Context, collegeID string) ([]models.User, error)
	UpdateCompletion(ctx context.Context, id string, completion int) error
}

type photoCounter interface {
	CountByUser(ctx context.Context, userID string) (int, error)
}

// CompletionService keeps the stored profile_completion column in step with student data.
type CompletionService struct {
	users    completionUserRepository
	colleges collegeReader
	photos   photoCounter
	logger   *zap.Logger
}

// NewCompletionService constructs a CompletionService.
func NewCompletionService(users completionUserRepository, colleges collegeReader, photos photoCounter, logger *zap.Logger) *CompletionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompletionService{users: users, colleges: colleges, photos: photos, logger: logger}
}

// Score computes the completion of user without persisting it.
func (s *CompletionService) Score(ctx context.Context, user *models.User) (int, error) {
	if user.College() == "" {
		return 0, nil
	}
	college, err := s.colleges.FindByID(ctx, user.College())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("load college: %w", err)
	}
	count, err := s.photos.CountByUser(ctx, user.ID)
	if err != nil {
		return 0, err
	}
	return CalculateCompletion(user, college, count), nil
}

// Refresh recomputes and stores the completion of one student.
func (s *CompletionService) Refresh(ctx context.Context, userID string) (int, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	score, err := s.Score(ctx, user)
	if err != nil {
		return 0, err
	}
	if score != user.ProfileCompletion {
		if err := s.users.UpdateCompletion(ctx, userID, score); err != nil {
			return 0, err
		}
	}
	return score, nil
}

// RecomputeCollege refreshes every student of a college and returns how many scores changed.
func (s *CompletionService) RecomputeCollege(ctx context.Context, collegeID string) (int, error) {
	college, err := s.colleges.FindByID(ctx, collegeID)
	if err != nil {
		return 0, fmt.Errorf("load college %s: %w", collegeID, err)
	}
	students, err := s.users.ListByCollege(ctx, collegeID)
	if err != nil {
		return 0, err
	}

	changed := 0
	for i := range students {
		student := &students[i]
		count, err := s.photos.CountByUser(ctx, student.ID)
		if err != nil {
			return changed, err
		}
		score := CalculateCompletion(student, college, count)
		if score == student.ProfileCompletion {
			continue
		}
		if err := s.users.UpdateCompletion(ctx, student.ID, score); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// HandleJob is the jobs.Handler for JobRecomputeCollege.
func (s *CompletionService) HandleJob(ctx context.Context, job jobs.Job) error {
	if job.Type != JobRecomputeCollege {
		return fmt.Errorf("unexpected job type %q", job.Type)
	}
	collegeID, ok := job.Payload.(string)
	if !ok || collegeID == "" {
		return fmt.Errorf("job %s: invalid payload %T", job.ID, job.Payload)
	}
	changed, err := s.RecomputeCollege(ctx, collegeID)
	if err != nil {
		return err
	}
	s.logger.Info("completion recomputed",
		zap.String("college_id", collegeID),
		zap.Int("changed", changed),
		zap.Int("attempt", job.Attempt),
	)
	return nil
}
