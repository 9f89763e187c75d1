package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/internal/models"
	appErrors "github.com/noah-isme/yearbook-api/pkg/errors"
)

type profileServiceMock struct {
	fields  dto.ProfileFields
	answers models.Answers
}

func (m *profileServiceMock) Get(ctx context.Context, userID string) (*dto.StudentDetail, error) {
	return &dto.StudentDetail{User: models.User{ID: userID, Name: "Ada", ProfileCompletion: 75}, Photos: []models.Photo{}}, nil
}

func (m *profileServiceMock) UpdateProfile(ctx context.Context, userID string, fields dto.ProfileFields) (int, error) {
	m.fields = fields
	return 50, nil
}

func (m *profileServiceMock) UpdateAnswers(ctx context.Context, userID string, req dto.UpdateAnswersRequest) (int, error) {
	if userID == "admin-1" {
		return 0, appErrors.Clone(appErrors.ErrForbidden, "Only students can update profiles")
	}
	m.answers = req.YearbookAnswers
	return 75, nil
}

func TestProfileHandlerGetAndUpdate(t *testing.T) {
	mockSvc := &profileServiceMock{}
	handler := NewProfileHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/profile", nil)
	asStudent(c)
	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"profile_completion":75`)

	c, w = newGinContext(http.MethodPut, "/profile", []byte(`{"full_name":"Ada Lovelace","phone":"555"}`))
	asStudent(c)
	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockSvc.fields.FullName)
	assert.Equal(t, "Ada Lovelace", *mockSvc.fields.FullName)
	assert.Nil(t, mockSvc.fields.Nickname)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"profile_completion":50`)
}

func TestProfileHandlerUpdateAnswers(t *testing.T) {
	mockSvc := &profileServiceMock{}
	handler := NewProfileHandler(mockSvc)

	c, w := newGinContext(http.MethodPut, "/yearbook-answers", []byte(`{"yearbook_answers":{"0":"Be kind"}}`))
	asStudent(c)
	handler.UpdateAnswers(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Be kind", mockSvc.answers["0"])

	c, w = newGinContext(http.MethodPut, "/yearbook-answers", []byte(`{"yearbook_answers":{"0":"x"}}`))
	asAdmin(c)
	handler.UpdateAnswers(c)
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, w = newGinContext(http.MethodPut, "/yearbook-answers", []byte(`not json`))
	asStudent(c)
	handler.UpdateAnswers(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
