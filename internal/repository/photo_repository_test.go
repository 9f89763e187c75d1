package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/noah-isme/yearbook-api/internal/models"
)

func TestPhotoUpsertAndCount(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPhotoRepository(db)

	mock.ExpectExec("INSERT INTO photos .* ON CONFLICT \\(user_id, slot_index\\) DO UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM photos WHERE user_id = $1")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	photo := &models.Photo{UserID: "s1", SlotIndex: 1, FileID: "f1", FileURL: "https://drive/f1", Storage: models.PhotoStorageDrive}
	require.NoError(t, repo.Upsert(context.Background(), photo))
	assert.False(t, photo.UploadedAt.IsZero())

	count, err := repo.CountByUser(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDriveCredentialRoundTrip(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDriveCredentialRepository(db)

	expiry := time.Now().Add(time.Hour).UTC()
	mock.ExpectExec("INSERT INTO drive_credentials .* ON CONFLICT \\(user_id\\) DO UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM drive_credentials WHERE user_id = \\$1").
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "access_token", "refresh_token", "token_type", "expiry", "updated_at"}).
			AddRow("s1", "a-1", "r-1", "Bearer", expiry, time.Now()))

	cred := models.NewDriveCredential("s1", &oauth2.Token{AccessToken: "a-1", RefreshToken: "r-1", TokenType: "Bearer", Expiry: expiry}, nil)
	require.NoError(t, repo.Upsert(context.Background(), cred))

	stored, err := repo.FindByUserID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "r-1", stored.Token().RefreshToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
