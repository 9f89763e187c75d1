package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/yearbook-api/internal/models"
)

const testimonialSelect = `SELECT t.from_student_id, t.to_student_id, u.name AS from_student_name, t.text, t.word_count, t.created_at, t.updated_at FROM testimonials t JOIN users u ON u.id = t.from_student_id`

// TestimonialRepository stores testimonials keyed by (from, to).
type TestimonialRepository struct {
	db *sqlx.DB
}

// NewTestimonialRepository constructs a TestimonialRepository.
func NewTestimonialRepository(db *sqlx.DB) *TestimonialRepository {
	return &TestimonialRepository{db: db}
}

// Upsert creates the testimonial or replaces the text of the existing one.
func (r *TestimonialRepository) Upsert(ctx context.Context, t *models.Testimonial) error {
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	const query = `INSERT INTO testimonials (from_student_id, to_student_id, text, word_count, created_at, updated_at)
VALUES (:from_student_id, :to_student_id, :text, :word_count, :created_at, :updated_at)
ON CONFLICT (from_student_id, to_student_id) DO UPDATE SET text = EXCLUDED.text, word_count = EXCLUDED.word_count, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("upsert testimonial: %w", err)
	}
	return nil
}

// Find returns sql.ErrNoRows when from has not written about to.
func (r *TestimonialRepository) Find(ctx context.Context, fromID, toID string) (*models.Testimonial, error) {
	var t models.Testimonial
	query := testimonialSelect + " WHERE t.from_student_id = $1 AND t.to_student_id = $2"
	if err := r.db.GetContext(ctx, &t, query, fromID, toID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get testimonial: %w", err)
	}
	return &t, nil
}

// ListReceived returns testimonials written about the student, newest first.
func (r *TestimonialRepository) ListReceived(ctx context.Context, toID string) ([]models.Testimonial, error) {
	var items []models.Testimonial
	query := testimonialSelect + " WHERE t.to_student_id = $1 ORDER BY t.updated_at DESC"
	if err := r.db.SelectContext(ctx, &items, query, toID); err != nil {
		return nil, fmt.Errorf("list received testimonials: %w", err)
	}
	return items, nil
}

// ListWritten returns testimonials the student has written, newest first.
func (r *TestimonialRepository) ListWritten(ctx context.Context, fromID string) ([]models.Testimonial, error) {
	var items []models.Testimonial
	query := testimonialSelect + " WHERE t.from_student_id = $1 ORDER BY t.updated_at DESC"
	if err := r.db.SelectContext(ctx, &items, query, fromID); err != nil {
		return nil, fmt.Errorf("list written testimonials: %w", err)
	}
	return items, nil
}

// Delete removes a testimonial; sql.ErrNoRows when it does not exist.
func (r *TestimonialRepository) Delete(ctx context.Context, fromID, toID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM testimonials WHERE from_student_id = $1 AND to_student_id = $2", fromID, toID)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
