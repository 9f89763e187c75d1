package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yearbook-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

var userColumnNames = []string{"id", "email", "password_hash", "name", "user_type", "college_id", "profile", "yearbook_answers", "profile_completion", "created_at", "updated_at"}

func TestFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(userColumnNames).
		AddRow("1", "ann@school.edu", "hash", "Ann Lee", "student", "c1", []byte(`{"nickname":"Annie"}`), []byte(`{"0":"Rome"}`), 50, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("ann@school.edu").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "ann@school.edu")
	require.NoError(t, err)
	assert.Equal(t, models.UserTypeStudent, user.UserType)
	assert.Equal(t, "c1", user.College())
	assert.Equal(t, "Annie", user.Profile.Nickname)
	assert.Equal(t, "Rome", user.YearbookAnswers["0"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("FROM users WHERE id = \\$1").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudentsSkipsDuplicates(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users .* ON CONFLICT \\(email\\) DO NOTHING").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO users .* ON CONFLICT \\(email\\) DO NOTHING").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	collegeID := "c1"
	users := []*models.User{
		{Email: "ann@school.edu", Name: "Ann", UserType: models.UserTypeStudent, CollegeID: &collegeID},
		{Email: "taken@school.edu", Name: "Bo", UserType: models.UserTypeStudent, CollegeID: &collegeID},
	}
	created, err := repo.CreateStudents(context.Background(), users)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "ann@school.edu", created[0].Email)
	assert.NotEmpty(t, created[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudentsRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	_, err := repo.CreateStudents(context.Background(), []*models.User{{Email: "ann@school.edu"}})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListStudents(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	listRows := sqlmock.NewRows(userColumnNames).
		AddRow("1", "ann@school.edu", "hash", "Ann", "student", "c1", []byte(`{}`), []byte(`{}`), 75, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + userColumns + " FROM users WHERE user_type = $1 AND college_id = $2 AND profile_completion BETWEEN $3 AND $4 ORDER BY name ASC LIMIT 10 OFFSET 10")).
		WithArgs("student", "c1", 50, 99).
		WillReturnRows(listRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE user_type = $1 AND college_id = $2 AND profile_completion BETWEEN $3 AND $4")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	users, total, err := repo.ListStudents(context.Background(), models.StudentFilter{
		CollegeID:  "c1",
		Completion: models.CompletionPartial,
		Page:       2,
		PageSize:   10,
		SortBy:     "name",
		SortOrder:  "asc",
	})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 11, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListStudentsIgnoresUnknownSort(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE user_type = $1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(sqlmock.NewRows(userColumnNames))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE user_type = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, total, err := repo.ListStudents(context.Background(), models.StudentFilter{SortBy: "password_hash; DROP", PageSize: 500})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStudentRemovesTestimonials(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM testimonials WHERE from_student_id = $1 OR to_student_id = $1")).WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM photos WHERE user_id = $1")).WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1 AND user_type = $2")).WithArgs("s1", "student").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteStudent(context.Background(), "s1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteStudentMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM testimonials").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM photos").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteStudent(context.Background(), "ghost")
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAuditLog(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO audit_logs").WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.AuditLog{Action: models.AuditActionBulkUpload, Resource: "students"}
	require.NoError(t, repo.CreateAuditLog(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
