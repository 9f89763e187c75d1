package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/pkg/response"
)

type profileService interface {
	Get(ctx context.Context, userID string) (*dto.StudentDetail, error)
	UpdateProfile(ctx context.Context, userID string, fields dto.ProfileFields) (int, error)
	UpdateAnswers(ctx context.Context, userID string, req dto.UpdateAnswersRequest) (int, error)
}

// ProfileHandler serves the caller's own yearbook page.
type ProfileHandler struct {
	profiles profileService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(profiles profileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get godoc
// @Summary Current profile
// @Description Account, college, photos and live profile completion
// @Tags Profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	detail, err := h.profiles.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Update godoc
// @Summary Update profile fields
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ProfileFields true "Profile fields"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /profile [put]
func (h *ProfileHandler) Update(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var fields dto.ProfileFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.Error(c, bindError(err, "invalid profile payload"))
		return
	}
	score, err := h.profiles.UpdateProfile(c.Request.Context(), claims.UserID, fields)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Profile updated", "profile_completion": score}, nil)
}

// UpdateAnswers godoc
// @Summary Replace yearbook answers
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.UpdateAnswersRequest true "Answers keyed by question index"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /yearbook-answers [put]
func (h *ProfileHandler) UpdateAnswers(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.UpdateAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid yearbook answers payload"))
		return
	}
	score, err := h.profiles.UpdateAnswers(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Yearbook answers updated", "profile_completion": score}, nil)
}
