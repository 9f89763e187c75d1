package handler

import (
	"context"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/internal/models"
	appErrors "github.com/noah-isme/yearbook-api/pkg/errors"
	"github.com/noah-isme/yearbook-api/pkg/response"
)

type photoService interface {
	Upload(ctx context.Context, userID string, slot int, filename string, body io.Reader) (*dto.PhotoUploadResult, error)
	ListByUser(ctx context.Context, userID string) ([]models.Photo, error)
	Open(token string) (*os.File, string, error)
}

// PhotoHandler exposes yearbook photo endpoints.
type PhotoHandler struct {
	photos photoService
}

// NewPhotoHandler constructs PhotoHandler.
func NewPhotoHandler(photos photoService) *PhotoHandler {
	return &PhotoHandler{photos: photos}
}

// Upload godoc
// @Summary Upload a yearbook photo
// @Description Stored in the student's Google Drive when connected, otherwise on the server
// @Tags Photos
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param slot_index query int true "Photo slot"
// @Param file formData file true "Image"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /photos/upload [post]
func (h *PhotoHandler) Upload(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	slot, err := strconv.Atoi(c.Query("slot_index"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "slot_index must be an integer"))
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, bindError(err, "file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, bindError(err, "failed to read upload"))
		return
	}
	defer file.Close()

	result, err := h.photos.Upload(c.Request.Context(), claims.UserID, slot, header.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary My photos
// @Tags Photos
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /photos [get]
func (h *PhotoHandler) List(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	photos, err := h.photos.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list photos"))
		return
	}
	if photos == nil {
		photos = []models.Photo{}
	}
	response.JSON(c, http.StatusOK, photos, nil)
}

// Serve godoc
// @Summary Download a server-stored photo
// @Tags Photos
// @Produce octet-stream
// @Param token path string true "Signed photo token"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /photos/{token} [get]
func (h *PhotoHandler) Serve(c *gin.Context) {
	f, contentType, err := h.photos.Open(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read photo"))
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.DataFromReader(http.StatusOK, info.Size(), contentType, f, nil)
}
