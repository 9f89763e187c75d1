package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/noah-isme/yearbook-api/internal/models"
	"github.com/noah-isme/yearbook-api/pkg/drive"
	appErrors "github.com/noah-isme/yearbook-api/pkg/errors"
)

const driveStatePrefix = "drive-connect:"

type driveClient interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Upload(ctx context.Context, token *oauth2.Token, name, mimeType string, body io.Reader) (*drive.File, *oauth2.Token, error)
}

type driveCredentialRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.DriveCredential, error)
	Upsert(ctx context.Context, cred *models.DriveCredential) error
}

type tokenSigner interface {
	Generate(subject, value string) (string, time.Time, error)
	Parse(token string) (subject, value string, err error)
}

// DriveService connects student accounts to Google Drive and uploads photos there.
type DriveService struct {
	client driveClient
	creds  driveCredentialRepository
	state  tokenSigner
	logger *zap.Logger
}

// NewDriveService constructs a DriveService. A nil client disables the integration.
func NewDriveService(client driveClient, creds driveCredentialRepository, state tokenSigner, logger *zap.Logger) *DriveService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DriveService{client: client, creds: creds, state: state, logger: logger}
}

// Enabled reports whether Google OAuth is configured.
func (s *DriveService) Enabled() bool {
	return s != nil && s.client != nil
}

// ConnectURL returns the consent URL for userID with a signed state parameter.
func (s *DriveService) ConnectURL(userID string) (string, error) {
	if !s.Enabled() {
		return "", appErrors.Clone(appErrors.ErrUnavailable, "Google Drive integration is not configured")
	}
	state, _, err := s.state.Generate(userID, driveStatePrefix+uuid.NewString())
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign oauth state")
	}
	return s.client.AuthCodeURL(state), nil
}

// Callback completes the OAuth flow and stores the token for the user named in state.
func (s *DriveService) Callback(ctx context.Context, code, state string) (string, error) {
	if !s.Enabled() {
		return "", appErrors.Clone(appErrors.ErrUnavailable, "Google Drive integration is not configured")
	}
	if code == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "authorization code is required")
	}
	userID, value, err := s.state.Parse(state)
	if err != nil || !strings.HasPrefix(value, driveStatePrefix) {
		return "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid oauth state")
	}

	token, err := s.client.Exchange(ctx, code)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to connect Google Drive")
	}

	previous, err := s.creds.FindByUserID(ctx, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load drive credentials")
	}
	if err := s.creds.Upsert(ctx, models.NewDriveCredential(userID, token, previous)); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store drive credentials")
	}
	s.logger.Info("google drive connected", zap.String("user_id", userID))
	return userID, nil
}

// Upload stores body in the user's Drive. connected is false when the user never linked Drive,
// in which case nothing is uploaded and err is nil.
func (s *DriveService) Upload(ctx context.Context, userID, name, mimeType string, body io.Reader) (file *drive.File, connected bool, err error) {
	if !s.Enabled() {
		return nil, false, nil
	}
	cred, err := s.creds.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	file, used, err := s.client.Upload(ctx, cred.Token(), name, mimeType, body)
	if used != nil && used.AccessToken != cred.AccessToken {
		if storeErr := s.creds.Upsert(ctx, models.NewDriveCredential(userID, used, cred)); storeErr != nil {
			s.logger.Warn("failed to persist refreshed drive token", zap.String("user_id", userID), zap.Error(storeErr))
		}
	}
	if err != nil {
		return nil, true, err
	}
	return file, true, nil
}
