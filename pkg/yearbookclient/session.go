package yearbookclient

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/noah-isme/yearbook-api/internal/models"
)

// Session holds the bearer token of the logged-in operator. It is safe for concurrent use.
type Session struct {
	baseURL string
	http    *http.Client

	mu       sync.RWMutex
	token    string
	userType models.UserType
	user     *models.UserInfo
}

// NewSession creates an unauthenticated session against baseURL (including the API prefix).
func NewSession(baseURL string, httpClient *http.Client) *Session {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Session{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Restore reuses a token obtained earlier, for example one stored in the environment.
func (s *Session) Restore(token string, userType models.UserType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
	s.userType = userType
	s.user = nil
}

// Login exchanges credentials for a token and stores it on the session.
func (s *Session) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := s.do(ctx, http.MethodPost, "/auth/login", req, &resp, false); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.token = resp.AccessToken
	s.userType = resp.UserType
	user := resp.User
	s.user = &user
	s.mu.Unlock()
	return &resp, nil
}

// Logout forgets the token. The server keeps no session state, so nothing is sent.
func (s *Session) Logout() {
	s.Restore("", "")
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the current bearer token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// UserType returns the role reported at login.
func (s *Session) UserType() models.UserType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userType
}

// User returns the account returned by the last Login, or nil after Restore.
func (s *Session) User() *models.UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}
