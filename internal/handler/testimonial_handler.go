package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/internal/models"
	"github.com/noah-isme/yearbook-api/pkg/response"
)

type testimonialService interface {
	Submit(ctx context.Context, claims *models.JWTClaims, req dto.CreateTestimonialRequest) (*dto.TestimonialResult, error)
	Received(ctx context.Context, studentID string) ([]models.Testimonial, error)
	Written(ctx context.Context, studentID string) ([]models.Testimonial, error)
	Update(ctx context.Context, actorID, fromID, toID string, req dto.UpdateTestimonialRequest) (*models.Testimonial, error)
	Delete(ctx context.Context, actorID, fromID, toID string) error
}

// TestimonialHandler exposes testimonial endpoints.
type TestimonialHandler struct {
	testimonials testimonialService
}

// NewTestimonialHandler constructs TestimonialHandler.
func NewTestimonialHandler(testimonials testimonialService) *TestimonialHandler {
	return &TestimonialHandler{testimonials: testimonials}
}

// Submit godoc
// @Summary Write a testimonial
// @Description At most 30 words, for a classmate in the same college; rewriting replaces the earlier text
// @Tags Testimonials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateTestimonialRequest true "Testimonial"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /testimonials [post]
func (h *TestimonialHandler) Submit(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.CreateTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid testimonial payload"))
		return
	}
	result, err := h.testimonials.Submit(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Received godoc
// @Summary Testimonials about me
// @Tags Testimonials
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /testimonials/received [get]
func (h *TestimonialHandler) Received(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	items, err := h.testimonials.Received(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Written godoc
// @Summary Testimonials I wrote
// @Tags Testimonials
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /testimonials/written [get]
func (h *TestimonialHandler) Written(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	items, err := h.testimonials.Written(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Update godoc
// @Summary Edit a testimonial
// @Tags Testimonials
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param from path string true "Author student ID"
// @Param to path string true "Subject student ID"
// @Param payload body dto.UpdateTestimonialRequest true "New text"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /testimonials/{from}/{to} [put]
func (h *TestimonialHandler) Update(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.UpdateTestimonialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid testimonial payload"))
		return
	}
	item, err := h.testimonials.Update(c.Request.Context(), claims.UserID, c.Param("from"), c.Param("to"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete a testimonial
// @Tags Testimonials
// @Security BearerAuth
// @Param from path string true "Author student ID"
// @Param to path string true "Subject student ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /testimonials/{from}/{to} [delete]
func (h *TestimonialHandler) Delete(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	if err := h.testimonials.Delete(c.Request.Context(), claims.UserID, c.Param("from"), c.Param("to")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
