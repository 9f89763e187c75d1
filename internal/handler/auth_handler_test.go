package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yearbook-api/internal/models"
	appErrors "github.com/noah-isme/yearbook-api/pkg/errors"
)

type authServiceMock struct {
	loginReq  models.LoginRequest
	loginResp *models.LoginResponse
	loginErr  error
	changedID string
}

func (m *authServiceMock) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	return &models.LoginResponse{AccessToken: "t", TokenType: "bearer", UserType: req.UserType}, nil
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.loginReq = req
	return m.loginResp, m.loginErr
}

func (m *authServiceMock) Me(ctx context.Context, userID string) (*models.UserInfo, error) {
	return &models.UserInfo{ID: userID}, nil
}

func (m *authServiceMock) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	m.changedID = userID
	return nil
}

func TestAuthHandlerLogin(t *testing.T) {
	mockSvc := &authServiceMock{loginResp: &models.LoginResponse{AccessToken: "token", TokenType: "bearer", UserType: models.UserTypeStudent}}
	handler := NewAuthHandler(mockSvc)

	c, w := newGinContext(http.MethodPost, "/auth/login", mustJSON(t, models.LoginRequest{Email: "a@x.edu", Password: "secret"}))
	c.Request.Header.Set("User-Agent", "rosterctl")
	handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rosterctl", mockSvc.loginReq.UserAgent)
	assert.Contains(t, string(decodeEnvelope(t, w).Data), `"access_token":"token"`)
}

func TestAuthHandlerLoginErrors(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{loginErr: appErrors.Clone(appErrors.ErrInvalidCredentials, "Invalid credentials")})

	c, w := newGinContext(http.MethodPost, "/auth/login", []byte("{"))
	handler.Login(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodPost, "/auth/login", mustJSON(t, models.LoginRequest{Email: "a@x.edu", Password: "nope"}))
	handler.Login(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", decodeEnvelope(t, w).Error.Message)
}

func TestAuthHandlerRegister(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{})
	c, w := newGinContext(http.MethodPost, "/auth/register", mustJSON(t, models.RegisterRequest{Email: "a@x.edu", Password: "secret", Name: "A", UserType: models.UserTypeAdmin}))
	handler.Register(c)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestAuthHandlerRequiresClaims(t *testing.T) {
	mockSvc := &authServiceMock{}
	handler := NewAuthHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/auth/me", nil)
	handler.Me(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newGinContext(http.MethodPost, "/auth/change-password", mustJSON(t, models.ChangePasswordRequest{OldPassword: "a", NewPassword: "bbbbbb"}))
	asStudent(c)
	handler.ChangePassword(c)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "student-1", mockSvc.changedID)
}
