package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/pkg/response"
)

type driveService interface {
	ConnectURL(userID string) (string, error)
	Callback(ctx context.Context, code, state string) (string, error)
}

// DriveHandler runs the Google Drive OAuth flow.
type DriveHandler struct {
	drive driveService
}

// NewDriveHandler constructs DriveHandler.
func NewDriveHandler(drive driveService) *DriveHandler {
	return &DriveHandler{drive: drive}
}

// Connect godoc
// @Summary Start Google Drive authorization
// @Tags Drive
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /drive/connect [get]
func (h *DriveHandler) Connect(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	url, err := h.drive.ConnectURL(claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.DriveConnectResponse{AuthURL: url}, nil)
}

// Callback godoc
// @Summary Google OAuth redirect target
// @Tags Drive
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "Signed state"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /drive/callback [get]
func (h *DriveHandler) Callback(c *gin.Context) {
	userID, err := h.drive.Callback(c.Request.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Google Drive connected", "user_id": userID}, nil)
}
