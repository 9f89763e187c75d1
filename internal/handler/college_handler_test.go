package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/internal/middleware"
	"github.com/noah-isme/yearbook-api/internal/models"
	appErrors "github.com/noah-isme/yearbook-api/pkg/errors"
)

type collegeServiceMock struct {
	hit     bool
	created dto.CreateCollegeRequest
}

func (m *collegeServiceMock) List(ctx context.Context) ([]models.College, bool, error) {
	return []models.College{{ID: "c1", Name: "Engineering"}}, m.hit, nil
}

func (m *collegeServiceMock) Get(ctx context.Context, id string) (*models.College, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "College not found")
}

func (m *collegeServiceMock) Create(ctx context.Context, req dto.CreateCollegeRequest) (*models.College, error) {
	m.created = req
	return &models.College{ID: "c2", Name: req.Name, PhotoSlots: models.DefaultPhotoSlots}, nil
}

func (m *collegeServiceMock) Update(ctx context.Context, id string, req dto.UpdateCollegeRequest) (*models.College, error) {
	return &models.College{ID: id, Name: *req.Name}, nil
}

func TestCollegeHandlerListReportsCacheHit(t *testing.T) {
	handler := NewCollegeHandler(&collegeServiceMock{hit: true})

	c, w := newGinContext(http.MethodGet, "/colleges", nil)
	middleware.WithResponseMeta()(c)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	env := decodeEnvelope(t, w)
	assert.Equal(t, true, env.Meta["cache_hit"])
	assert.EqualValues(t, 1, env.Meta["count"])
	assert.Contains(t, string(env.Data), "Engineering")
}

func TestCollegeHandlerCreateUpdateGet(t *testing.T) {
	mockSvc := &collegeServiceMock{}
	handler := NewCollegeHandler(mockSvc)

	c, w := newGinContext(http.MethodPost, "/colleges", mustJSON(t, dto.CreateCollegeRequest{Name: "Arts", YearbookQuestions: []string{"Motto?"}}))
	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, []string{"Motto?"}, mockSvc.created.YearbookQuestions)

	c, w = newGinContext(http.MethodPut, "/colleges/c1", []byte(`{"name":"Sciences"}`))
	c.Params = append(c.Params, ginParam("id", "c1"))
	handler.Update(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), "Sciences")

	c, w = newGinContext(http.MethodGet, "/colleges/zz", nil)
	c.Params = append(c.Params, ginParam("id", "zz"))
	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
