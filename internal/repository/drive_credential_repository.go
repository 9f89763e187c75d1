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

// DriveCredentialRepository persists per-user Google Drive tokens.
type DriveCredentialRepository struct {
	db *sqlx.DB
}

// NewDriveCredentialRepository constructs a DriveCredentialRepository.
func NewDriveCredentialRepository(db *sqlx.DB) *DriveCredentialRepository {
	return &DriveCredentialRepository{db: db}
}

// FindByUserID returns sql.ErrNoRows when the user never connected Drive.
func (r *DriveCredentialRepository) FindByUserID(ctx context.Context, userID string) (*models.DriveCredential, error) {
	var cred models.DriveCredential
	const query = `SELECT user_id, access_token, refresh_token, token_type, expiry, updated_at FROM drive_credentials WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &cred, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get drive credential: %w", err)
	}
	return &cred, nil
}

// Upsert stores the latest token for the user.
func (r *DriveCredentialRepository) Upsert(ctx context.Context, cred *models.DriveCredential) error {
	cred.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO drive_credentials (user_id, access_token, refresh_token, token_type, expiry, updated_at)
VALUES (:user_id, :access_token, :refresh_token, :token_type, :expiry, :updated_at)
ON CONFLICT (user_id) DO UPDATE SET access_token = EXCLUDED.access_token, refresh_token = EXCLUDED.refresh_token, token_type = EXCLUDED.token_type, expiry = EXCLUDED.expiry, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, cred); err != nil {
		return fmt.Errorf("upsert drive credential: %w", err)
	}
	return nil
}
