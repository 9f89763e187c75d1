package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/internal/models"
	"github.com/noah-isme/yearbook-api/pkg/drive"
	appErrors "github.com/noah-isme/yearbook-api/pkg/errors"
)

type photoRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Photo, error)
	FindSlot(ctx context.Context, userID string, slot int) (*models.Photo, error)
	Upsert(ctx context.Context, photo *models.Photo) error
}

type photoUploader interface {
	Upload(ctx context.Context, userID, name, mimeType string, body io.Reader) (*drive.File, bool, error)
}

type photoStore interface {
	SaveStream(relPath string, r io.Reader) (int64, error)
	Open(relPath string) (*os.File, error)
	Delete(relPath string) error
}

type completionRefresher interface {
	Refresh(ctx context.Context, userID string) (int, error)
}

// PhotoConfig limits uploads and sets the prefix of signed local photo links.
type PhotoConfig struct {
	MaxFileBytes  int64
	AllowedMIMEs  []string
	PublicURLBase string
}

// PhotoService stores yearbook photos in the student's Drive, or locally when Drive is not
// connected or the upload fails.
type PhotoService struct {
	repo       photoRepository
	users      userReader
	colleges   collegeReader
	uploader   photoUploader
	store      photoStore
	signer     tokenSigner
	completion completionRefresher
	metrics    *MetricsService
	logger     *zap.Logger
	config     PhotoConfig
	allowed    map[string]struct{}
}

// NewPhotoService constructs a PhotoService. uploader may be nil.
func NewPhotoService(repo photoRepository, users userReader, colleges collegeReader, uploader photoUploader, store photoStore, signer tokenSigner, completion completionRefresher, metrics *MetricsService, logger *zap.Logger, config PhotoConfig) *PhotoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.MaxFileBytes <= 0 {
		config.MaxFileBytes = 10 * 1024 * 1024
	}
	if len(config.AllowedMIMEs) == 0 {
		config.AllowedMIMEs = []string{"image/jpeg", "image/png", "image/webp"}
	}
	allowed := make(map[string]struct{}, len(config.AllowedMIMEs))
	for _, m := range config.AllowedMIMEs {
		allowed[strings.ToLower(m)] = struct{}{}
	}
	return &PhotoService{
		repo:       repo,
		users:      users,
		colleges:   colleges,
		uploader:   uploader,
		store:      store,
		signer:     signer,
		completion: completion,
		metrics:    metrics,
		logger:     logger,
		config:     config,
		allowed:    allowed,
	}
}

// Upload fills a photo slot, replacing any earlier photo, and returns the new completion score.
func (s *PhotoService) Upload(ctx context.Context, userID string, slot int, filename string, body io.Reader) (*dto.PhotoUploadResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	if user.UserType != models.UserTypeStudent || user.College() == "" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Only students can upload photos")
	}
	college, err := s.colleges.FindByID(ctx, user.College())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load college")
	}
	slots := college.PhotoSlots
	if slots <= 0 {
		slots = models.DefaultPhotoSlots
	}
	if slot < 0 || slot >= slots {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Invalid slot index, expected 0 to %d", slots-1))
	}

	data, err := io.ReadAll(io.LimitReader(body, s.config.MaxFileBytes+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read upload")
	}
	if int64(len(data)) > s.config.MaxFileBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("File exceeds the %d byte limit", s.config.MaxFileBytes))
	}
	if len(data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "File is empty")
	}
	mimeType := http.DetectContentType(data)
	if _, ok := s.allowed[mimeType]; !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Unsupported file type %s", mimeType))
	}

	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		base = "photo"
	}
	photo := &models.Photo{UserID: userID, SlotIndex: slot, Filename: base}

	file, connected, err := s.upload(ctx, userID, fmt.Sprintf("%s_slot_%d_%s", userID, slot, base), mimeType, data)
	switch {
	case err != nil:
		s.logger.Warn("drive upload failed, storing locally", zap.String("user_id", userID), zap.Error(err))
	case connected:
		photo.Storage = models.PhotoStorageDrive
		photo.FileID = file.ID
		photo.FileURL = file.WebViewLink
	}

	previous, err := s.repo.FindSlot(ctx, userID, slot)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load photo slot")
	}

	if photo.Storage == "" {
		relPath := path.Join(userID, fmt.Sprintf("slot_%d%s", slot, extensionFor(mimeType)))
		if _, err := s.store.SaveStream(relPath, bytes.NewReader(data)); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store photo")
		}
		photo.Storage = models.PhotoStorageLocal
		photo.FileID = relPath
	}

	if err := s.repo.Upsert(ctx, photo); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save photo")
	}
	if previous != nil && previous.Storage == models.PhotoStorageLocal && previous.FileID != photo.FileID {
		if err := s.store.Delete(previous.FileID); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to remove replaced photo", zap.String("path", previous.FileID), zap.Error(err))
		}
	}
	s.metrics.RecordPhotoUpload(photo.Storage)

	score, err := s.completion.Refresh(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile completion")
	}

	s.present(photo)
	return &dto.PhotoUploadResult{
		Success:           true,
		SlotIndex:         slot,
		FileURL:           photo.FileURL,
		Storage:           photo.Storage,
		ProfileCompletion: score,
	}, nil
}

// ListByUser returns the user's photos with fresh signed links for locally stored files.
func (s *PhotoService) ListByUser(ctx context.Context, userID string) ([]models.Photo, error) {
	photos, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range photos {
		s.present(&photos[i])
	}
	return photos, nil
}

// Open resolves a signed photo token to the stored file and its content type.
func (s *PhotoService) Open(token string) (*os.File, string, error) {
	_, relPath, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "photo link is invalid or expired")
	}
	f, err := s.store.Open(relPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "photo not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open photo")
	}
	contentType := mime.TypeByExtension(path.Ext(relPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return f, contentType, nil
}

func (s *PhotoService) upload(ctx context.Context, userID, name, mimeType string, data []byte) (*drive.File, bool, error) {
	if s.uploader == nil {
		return nil, false, nil
	}
	return s.uploader.Upload(ctx, userID, name, mimeType, bytes.NewReader(data))
}

func (s *PhotoService) present(photo *models.Photo) {
	if photo.Storage != models.PhotoStorageLocal || s.signer == nil {
		return
	}
	token, _, err := s.signer.Generate(photo.UserID, photo.FileID)
	if err != nil {
		s.logger.Warn("failed to sign photo link", zap.String("path", photo.FileID), zap.Error(err))
		return
	}
	photo.FileURL = strings.TrimRight(s.config.PublicURLBase, "/") + "/" + token
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	return ".bin"
}
