package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/internal/models"
	"github.com/noah-isme/yearbook-api/internal/roster"
	appErrors "github.com/noah-isme/yearbook-api/pkg/errors"
)

func newTestStudentService(users *fakeUsers, colleges *fakeColleges, metrics *MetricsService) *StudentService {
	svc := NewStudentService(users, colleges, newFakePhotos(), metrics, nil, nil, StudentConfig{PasswordLength: 12, MaxFileBytes: 1 << 20})
	svc.hashCost = bcrypt.MinCost
	return svc
}

func TestStudentServiceBulkUploadCreatesAccounts(t *testing.T) {
	users := newFakeUsers()
	colleges := newFakeColleges(&models.College{ID: "c1", Name: "Engineering"})
	metrics := NewMetricsService()
	svc := newTestStudentService(users, colleges, metrics)

	result, err := svc.BulkUpload(context.Background(), "admin-1", dto.BulkUploadRequest{
		CollegeID: "c1",
		Students: []roster.StudentRecord{
			{Name: " Ada Lovelace ", Email: "ada@x.edu", Phone: "555"},
			{Name: "Alan Turing", Email: "alan@x.edu"},
		},
	}, RosterSourceJSON)
	require.NoError(t, err)
	assert.Equal(t, 2, result.CreatedCount)
	assert.Equal(t, 0, result.SkippedCount)
	require.Len(t, result.Students, 2)
	assert.Equal(t, "Ada Lovelace", result.Students[0].Name)

	for _, cred := range result.Students {
		assert.Len(t, cred.Password, 12)
		for _, ch := range cred.Password {
			assert.True(t, strings.ContainsRune(passwordAlphabet, ch))
		}
	}

	var ada *models.User
	for _, u := range users.users {
		if u.Email == "ada@x.edu" {
			ada = u
		}
	}
	require.NotNil(t, ada)
	assert.Equal(t, models.UserTypeStudent, ada.UserType)
	assert.Equal(t, "c1", ada.College())
	assert.Equal(t, "555", ada.Profile.Phone)
	assert.Equal(t, "Ada Lovelace", ada.Profile.FullName)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(ada.PasswordHash), []byte(result.Students[0].Password)))

	require.Len(t, users.auditLogs, 1)
	assert.Equal(t, models.AuditActionBulkUpload, users.auditLogs[0].Action)
	assert.Equal(t, uint64(2), metrics.Snapshot().StudentsImported)
}

func TestStudentServiceBulkUploadSkipsInvalidAndDuplicates(t *testing.T) {
	users := newFakeUsers(student("existing", "Existing", "c1"))
	colleges := newFakeColleges(&models.College{ID: "c1", Name: "Engineering"})
	svc := newTestStudentService(users, colleges, nil)

	result, err := svc.BulkUpload(context.Background(), "admin-1", dto.BulkUploadRequest{
		CollegeID: "c1",
		Students: []roster.StudentRecord{
			{Name: "New", Email: "new@x.edu"},
			{Name: "New Again", Email: "new@x.edu"},
			{Name: "", Email: "blank@x.edu"},
			{Name: "Taken", Email: "existing@school.edu"},
		},
	}, RosterSourceJSON)
	require.NoError(t, err)
	assert.Equal(t, 1, result.CreatedCount)
	assert.Equal(t, 3, result.SkippedCount)
	assert.Equal(t, "new@x.edu", result.Students[0].Email)
}

func TestStudentServiceBulkUploadNothingCreated(t *testing.T) {
	users := newFakeUsers(student("existing", "Existing", "c1"))
	colleges := newFakeColleges(&models.College{ID: "c1", Name: "Engineering"})
	svc := newTestStudentService(users, colleges, nil)

	_, err := svc.BulkUpload(context.Background(), "admin-1", dto.BulkUploadRequest{
		CollegeID: "c1",
		Students: []roster.StudentRecord{
			{Name: "Taken", Email: "existing@school.edu"},
			{Name: "", Email: ""},
		},
	}, RosterSourceJSON)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrEmptyBatch.Code, appErr.Code)
	assert.Equal(t, "No students created. 2 students were skipped due to validation errors or duplicates.", appErr.Message)
	assert.Empty(t, users.auditLogs)
}

func TestStudentServiceBulkUploadRequiresCollege(t *testing.T) {
	svc := newTestStudentService(newFakeUsers(), newFakeColleges(), nil)

	_, err := svc.BulkUpload(context.Background(), "admin-1", dto.BulkUploadRequest{
		Students: []roster.StudentRecord{{Name: "A", Email: "a@x.edu"}},
	}, RosterSourceJSON)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "Please select a college", appErr.Message)

	_, err = svc.BulkUpload(context.Background(), "admin-1", dto.BulkUploadRequest{CollegeID: "c1"}, RosterSourceJSON)
	assert.Equal(t, appErrors.ErrEmptyBatch.Code, appErrors.FromError(err).Code)

	_, err = svc.BulkUpload(context.Background(), "admin-1", dto.BulkUploadRequest{
		CollegeID: "missing",
		Students:  []roster.StudentRecord{{Name: "A", Email: "a@x.edu"}},
	}, RosterSourceJSON)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceBulkUploadRepositoryFailure(t *testing.T) {
	users := newFakeUsers()
	users.createErr = errors.New("db down")
	svc := newTestStudentService(users, newFakeColleges(&models.College{ID: "c1", Name: "Eng"}), nil)

	_, err := svc.BulkUpload(context.Background(), "admin-1", dto.BulkUploadRequest{
		CollegeID: "c1",
		Students:  []roster.StudentRecord{{Name: "A", Email: "a@x.edu"}},
	}, RosterSourceJSON)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUploadRosterFile(t *testing.T) {
	users := newFakeUsers()
	svc := newTestStudentService(users, newFakeColleges(&models.College{ID: "c1", Name: "Eng"}), nil)

	body := "Ada Lovelace,ada@x.edu,555\n\nbroken line\nAlan Turing,alan@x.edu\n"
	result, err := svc.UploadRoster(context.Background(), "admin-1", "c1", "roster.csv", strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 2, result.CreatedCount)
}

func TestStudentServiceUploadRosterErrors(t *testing.T) {
	svc := newTestStudentService(newFakeUsers(), newFakeColleges(&models.College{ID: "c1", Name: "Eng"}), nil)

	_, err := svc.UploadRoster(context.Background(), "admin-1", "c1", "roster.pdf", strings.NewReader("x"))
	assert.Equal(t, appErrors.ErrInputShape.Code, appErrors.FromError(err).Code)

	_, err = svc.UploadRoster(context.Background(), "admin-1", "c1", "roster.txt", strings.NewReader("only-one-field\n"))
	assert.Equal(t, appErrors.ErrEmptyBatch.Code, appErrors.FromError(err).Code)

	_, err = svc.UploadRoster(context.Background(), "admin-1", " ", "roster.txt", strings.NewReader("A,a@x.edu\n"))
	assert.Equal(t, "Please select a college", appErrors.FromError(err).Message)
}

func TestStudentServiceGetAndDelete(t *testing.T) {
	users := newFakeUsers(student("s1", "Ada", "c1"), &models.User{ID: "admin", UserType: models.UserTypeAdmin})
	svc := newTestStudentService(users, newFakeColleges(&models.College{ID: "c1", Name: "Eng"}), nil)

	detail, err := svc.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Eng", detail.College.Name)
	assert.NotNil(t, detail.Photos)

	_, err = svc.Get(context.Background(), "admin")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), "admin", "s1"))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(svc.Delete(context.Background(), "admin", "s1")).Code)
	require.Len(t, users.auditLogs, 1)
	assert.Equal(t, models.AuditActionStudentDelete, users.auditLogs[0].Action)
}

func TestStudentServiceClassmatesExcludesSelf(t *testing.T) {
	users := newFakeUsers(student("s1", "Ada", "c1"), student("s2", "Bob", "c1"), student("s3", "Cy", "c2"))
	svc := newTestStudentService(users, newFakeColleges(), nil)

	classmates, err := svc.Classmates(context.Background(), &models.JWTClaims{UserID: "s1", CollegeID: "c1"})
	require.NoError(t, err)
	require.Len(t, classmates, 1)
	assert.Equal(t, "s2", classmates[0].ID)

	none, err := svc.Classmates(context.Background(), &models.JWTClaims{UserID: "admin"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStudentServiceListDefaultsPagination(t *testing.T) {
	users := newFakeUsers(student("s1", "Ada", "c1"))
	svc := newTestStudentService(users, newFakeColleges(), nil)

	list, pagination, err := svc.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
}
