package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/internal/middleware"
	"github.com/noah-isme/yearbook-api/internal/models"
	"github.com/noah-isme/yearbook-api/pkg/response"
)

type collegeService interface {
	List(ctx context.Context) ([]models.College, bool, error)
	Get(ctx context.Context, id string) (*models.College, error)
	Create(ctx context.Context, req dto.CreateCollegeRequest) (*models.College, error)
	Update(ctx context.Context, id string, req dto.UpdateCollegeRequest) (*models.College, error)
}

// CollegeHandler exposes college endpoints.
type CollegeHandler struct {
	colleges collegeService
}

// NewCollegeHandler constructs CollegeHandler.
func NewCollegeHandler(colleges collegeService) *CollegeHandler {
	return &CollegeHandler{colleges: colleges}
}

// List godoc
// @Summary List colleges
// @Tags Colleges
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /colleges [get]
func (h *CollegeHandler) List(c *gin.Context) {
	colleges, hit, err := h.colleges.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	middleware.SetMeta(c, "count", len(colleges))
	response.JSON(c, http.StatusOK, colleges, nil, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get college
// @Tags Colleges
// @Produce json
// @Security BearerAuth
// @Param id path string true "College ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /colleges/{id} [get]
func (h *CollegeHandler) Get(c *gin.Context) {
	college, err := h.colleges.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, college, nil)
}

// Create godoc
// @Summary Create college
// @Tags Colleges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.CreateCollegeRequest true "College payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /colleges [post]
func (h *CollegeHandler) Create(c *gin.Context) {
	var req dto.CreateCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid college payload"))
		return
	}
	college, err := h.colleges.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, college)
}

// Update godoc
// @Summary Update college
// @Description Changing questions or photo slots recomputes student completion in the background
// @Tags Colleges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "College ID"
// @Param payload body dto.UpdateCollegeRequest true "College payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /colleges/{id} [put]
func (h *CollegeHandler) Update(c *gin.Context) {
	var req dto.UpdateCollegeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid college payload"))
		return
	}
	college, err := h.colleges.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, college, nil)
}
