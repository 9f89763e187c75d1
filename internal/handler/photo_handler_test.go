package handler

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/internal/models"
	appErrors "github.com/noah-isme/yearbook-api/pkg/errors"
)

type photoServiceMock struct {
	slot     int
	filename string
	body     []byte
	path     string
}

func (m *photoServiceMock) Upload(ctx context.Context, userID string, slot int, filename string, body io.Reader) (*dto.PhotoUploadResult, error) {
	m.slot, m.filename = slot, filename
	m.body, _ = io.ReadAll(body)
	return &dto.PhotoUploadResult{Success: true, SlotIndex: slot, Storage: models.PhotoStorageLocal, ProfileCompletion: 50}, nil
}

func (m *photoServiceMock) ListByUser(ctx context.Context, userID string) ([]models.Photo, error) {
	return nil, nil
}

func (m *photoServiceMock) Open(token string) (*os.File, string, error) {
	if token != "good" {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "photo link is invalid or expired")
	}
	f, err := os.Open(m.path)
	return f, "image/png", err
}

func TestPhotoHandlerUpload(t *testing.T) {
	mockSvc := &photoServiceMock{}
	handler := NewPhotoHandler(mockSvc)

	c, w := newMultipartContext(t, "/photos/upload?slot_index=2", nil, "me.png", []byte("png-bytes"))
	asStudent(c)
	handler.Upload(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, mockSvc.slot)
	assert.Equal(t, "me.png", mockSvc.filename)
	assert.Equal(t, []byte("png-bytes"), mockSvc.body)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"profile_completion":50`)
}

func TestPhotoHandlerUploadRequiresSlotAndFile(t *testing.T) {
	handler := NewPhotoHandler(&photoServiceMock{})

	c, w := newMultipartContext(t, "/photos/upload", nil, "me.png", []byte("x"))
	asStudent(c)
	handler.Upload(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newMultipartContext(t, "/photos/upload?slot_index=0", nil, "", nil)
	asStudent(c)
	handler.Upload(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPhotoHandlerListReturnsEmptyArray(t *testing.T) {
	handler := NewPhotoHandler(&photoServiceMock{})
	c, w := newGinContext(http.MethodGet, "/photos", nil)
	asStudent(c)
	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", string(decodeEnvelope(t, w).Data))
}

func TestPhotoHandlerServe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slot_0.png")
	require.NoError(t, os.WriteFile(path, []byte("image"), 0o600))
	handler := NewPhotoHandler(&photoServiceMock{path: path})

	c, w := newGinContext(http.MethodGet, "/photos/good", nil)
	c.Params = append(c.Params, ginParam("token", "good"))
	handler.Serve(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "image", w.Body.String())

	c, w = newGinContext(http.MethodGet, "/photos/bad", nil)
	c.Params = append(c.Params, ginParam("token", "bad"))
	handler.Serve(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
