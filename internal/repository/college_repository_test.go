package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yearbook-api/internal/models"
)

func TestCollegeList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCollegeRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "yearbook_questions", "photo_slots", "created_at", "updated_at"}).
		AddRow("c1", "Engineering", []byte(`["Best memory?","Motto?"]`), 4, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + collegeColumns + " FROM colleges ORDER BY name ASC")).WillReturnRows(rows)

	colleges, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, colleges, 1)
	assert.Equal(t, models.StringList{"Best memory?", "Motto?"}, colleges[0].YearbookQuestions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollegeExistsByNameExcludesSelf(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCollegeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM colleges WHERE LOWER(name) = LOWER($1) AND id <> $2)")).
		WithArgs("Arts", "c2").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.ExistsByName(context.Background(), "Arts", "c2")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCollegeCreateAndUpdate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCollegeRepository(db)

	mock.ExpectExec("INSERT INTO colleges").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE colleges SET").WillReturnResult(sqlmock.NewResult(0, 0))

	college := &models.College{Name: "Arts", PhotoSlots: 3}
	require.NoError(t, repo.Create(context.Background(), college))
	assert.NotEmpty(t, college.ID)
	assert.NotNil(t, college.YearbookQuestions)

	err := repo.Update(context.Background(), college)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}
