package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yearbook-api/internal/service"
	appErrors "github.com/noah-isme/yearbook-api/pkg/errors"
)

type driveServiceMock struct {
	code, state string
}

func (m *driveServiceMock) ConnectURL(userID string) (string, error) {
	return "https://accounts.google.com/o/oauth2/auth?state=" + userID, nil
}

func (m *driveServiceMock) Callback(ctx context.Context, code, state string) (string, error) {
	m.code, m.state = code, state
	if state == "forged" {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid oauth state")
	}
	return "student-1", nil
}

func TestDriveHandlerConnect(t *testing.T) {
	handler := NewDriveHandler(&driveServiceMock{})
	c, w := newGinContext(http.MethodGet, "/drive/connect", nil)
	asStudent(c)
	handler.Connect(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"auth_url":"https://accounts.google.com`)
}

func TestDriveHandlerConnectDisabled(t *testing.T) {
	handler := NewDriveHandler(service.NewDriveService(nil, nil, nil, nil))
	c, w := newGinContext(http.MethodGet, "/drive/connect", nil)
	asStudent(c)
	handler.Connect(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestDriveHandlerCallback(t *testing.T) {
	mockSvc := &driveServiceMock{}
	handler := NewDriveHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/drive/callback?code=abc&state=signed", nil)
	handler.Callback(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", mockSvc.code)
	assert.Equal(t, "signed", mockSvc.state)

	c, w = newGinContext(http.MethodGet, "/drive/callback?code=abc&state=forged", nil)
	handler.Callback(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

