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

const photoColumns = "user_id, slot_index, file_id, file_url, filename, storage, uploaded_at"

// PhotoRepository stores one photo per (user, slot).
type PhotoRepository struct {
	db *sqlx.DB
}

// NewPhotoRepository constructs a PhotoRepository.
func NewPhotoRepository(db *sqlx.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// ListByUser returns the user's photos ordered by slot.
func (r *PhotoRepository) ListByUser(ctx context.Context, userID string) ([]models.Photo, error) {
	var photos []models.Photo
	if err := r.db.SelectContext(ctx, &photos, "SELECT "+photoColumns+" FROM photos WHERE user_id = $1 ORDER BY slot_index ASC", userID); err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return photos, nil
}

// FindSlot returns sql.ErrNoRows when the slot is empty.
func (r *PhotoRepository) FindSlot(ctx context.Context, userID string, slot int) (*models.Photo, error) {
	var photo models.Photo
	if err := r.db.GetContext(ctx, &photo, "SELECT "+photoColumns+" FROM photos WHERE user_id = $1 AND slot_index = $2", userID, slot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get photo slot: %w", err)
	}
	return &photo, nil
}

// CountByUser returns how many slots the user has filled.
func (r *PhotoRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM photos WHERE user_id = $1", userID); err != nil {
		return 0, fmt.Errorf("count photos: %w", err)
	}
	return count, nil
}

// Upsert fills or replaces a slot.
func (r *PhotoRepository) Upsert(ctx context.Context, photo *models.Photo) error {
	if photo.UploadedAt.IsZero() {
		photo.UploadedAt = time.Now().UTC()
	}
	const query = `INSERT INTO photos (user_id, slot_index, file_id, file_url, filename, storage, uploaded_at)
VALUES (:user_id, :slot_index, :file_id, :file_url, :filename, :storage, :uploaded_at)
ON CONFLICT (user_id, slot_index) DO UPDATE SET file_id = EXCLUDED.file_id, file_url = EXCLUDED.file_url, filename = EXCLUDED.filename, storage = EXCLUDED.storage, uploaded_at = EXCLUDED.uploaded_at`
	if _, err := r.db.NamedExecContext(ctx, query, photo); err != nil {
		return fmt.Errorf("upsert photo: %w", err)
	}
	return nil
}
