package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/yearbook-api/internal/models"
)

const collegeColumns = "id, name, yearbook_questions, photo_slots, created_at, updated_at"

// CollegeRepository handles persistence for colleges.
type CollegeRepository struct {
	db *sqlx.DB
}

// NewCollegeRepository constructs a CollegeRepository.
func NewCollegeRepository(db *sqlx.DB) *CollegeRepository {
	return &CollegeRepository{db: db}
}

// List returns every college ordered by name.
func (r *CollegeRepository) List(ctx context.Context) ([]models.College, error) {
	var colleges []models.College
	if err := r.db.SelectContext(ctx, &colleges, "SELECT "+collegeColumns+" FROM colleges ORDER BY name ASC"); err != nil {
		return nil, fmt.Errorf("list colleges: %w", err)
	}
	return colleges, nil
}

// FindByID returns sql.ErrNoRows when the college does not exist.
func (r *CollegeRepository) FindByID(ctx context.Context, id string) (*models.College, error) {
	var college models.College
	if err := r.db.GetContext(ctx, &college, "SELECT "+collegeColumns+" FROM colleges WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get college: %w", err)
	}
	return &college, nil
}

// ExistsByName reports whether another college already uses name. excludeID may be empty.
func (r *CollegeRepository) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM colleges WHERE LOWER(name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	query += ")"

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		return false, fmt.Errorf("check college name: %w", err)
	}
	return exists, nil
}

// Create inserts a college.
func (r *CollegeRepository) Create(ctx context.Context, college *models.College) error {
	if college.ID == "" {
		college.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	college.CreatedAt = now
	college.UpdatedAt = now
	if college.YearbookQuestions == nil {
		college.YearbookQuestions = models.StringList{}
	}

	const query = `INSERT INTO colleges (id, name, yearbook_questions, photo_slots, created_at, updated_at) VALUES (:id, :name, :yearbook_questions, :photo_slots, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, college); err != nil {
		return fmt.Errorf("create college: %w", err)
	}
	return nil
}

// Update modifies name, questions and photo slots.
func (r *CollegeRepository) Update(ctx context.Context, college *models.College) error {
	college.UpdatedAt = time.Now().UTC()
	const query = `UPDATE colleges SET name = :name, yearbook_questions = :yearbook_questions, photo_slots = :photo_slots, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, college)
	if err != nil {
		return fmt.Errorf("update college: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update college: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
