// Package yearbookclient talks to the yearbook API on behalf of an operator: login, roster
// bulk upload, student and college lookups, and testimonial submission.
package yearbookclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/internal/models"
	"github.com/noah-isme/yearbook-api/internal/roster"
	"github.com/noah-isme/yearbook-api/internal/testimonial"
)

// Client issues authenticated requests using the token held by its Session.
type Client struct {
	session *Session
	logger  *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client bound to session.
func New(session *Session, opts ...Option) *Client {
	c := &Client{session: session, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session the client authenticates with.
func (c *Client) Session() *Session {
	return c.session
}

// ListColleges returns every college.
func (c *Client) ListColleges(ctx context.Context) ([]models.College, error) {
	var colleges []models.College
	if err := c.session.do(ctx, http.MethodGet, "/colleges", nil, &colleges, true); err != nil {
		return nil, err
	}
	return colleges, nil
}

// ListStudents fetches one page of the admin student list filtered on the server.
func (c *Client) ListStudents(ctx context.Context, filter models.StudentFilter) ([]models.User, *models.Pagination, error) {
	query := url.Values{}
	if filter.CollegeID != "" {
		query.Set("college_id", filter.CollegeID)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.Completion != "" {
		query.Set("completion", string(filter.Completion))
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PageSize > 0 {
		query.Set("limit", strconv.Itoa(filter.PageSize))
	}
	if filter.SortBy != "" {
		query.Set("sort", filter.SortBy)
	}
	if filter.SortOrder != "" {
		query.Set("order", filter.SortOrder)
	}

	path := "/students"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var students []models.User
	env, err := c.session.doEnvelope(ctx, http.MethodGet, path, nil, &students, true, "")
	if err != nil {
		return nil, nil, err
	}
	var page *models.Pagination
	if len(env.Pagination) > 0 && string(env.Pagination) != "null" {
		page = &models.Pagination{}
		if err := json.Unmarshal(env.Pagination, page); err != nil {
			return nil, nil, fmt.Errorf("decode pagination: %w", err)
		}
	}
	return students, page, nil
}

// BulkCreateStudents submits one roster batch. The batch is validated locally first so an
// empty roster or a missing college never reaches the network.
func (c *Client) BulkCreateStudents(ctx context.Context, batch roster.Batch) (*dto.BulkUploadResult, error) {
	if _, err := roster.NewBatch(batch.CollegeID, batch.Students); err != nil {
		return nil, err
	}

	var result dto.BulkUploadResult
	if _, err := c.session.doEnvelope(ctx, http.MethodPost, "/students/bulk-upload", batch, &result, true, FallbackUploadMessage); err != nil {
		c.logger.Warn("bulk upload failed", zap.String("college_id", batch.CollegeID), zap.Int("rows", len(batch.Students)), zap.Error(err))
		return nil, err
	}
	c.logger.Info("bulk upload completed",
		zap.String("college_id", batch.CollegeID),
		zap.Int("created", result.CreatedCount),
		zap.Int("skipped", result.SkippedCount),
	)
	return &result, nil
}

// SubmitTestimonial writes or rewrites the caller's testimonial about toStudentID. Text over
// the word limit is rejected without a request.
func (c *Client) SubmitTestimonial(ctx context.Context, toStudentID, text string) (*dto.TestimonialResult, error) {
	if _, err := testimonial.Validate(text); err != nil {
		return nil, err
	}
	req := dto.CreateTestimonialRequest{ToStudentID: toStudentID, Text: text}
	var result dto.TestimonialResult
	if err := c.session.do(ctx, http.MethodPost, "/testimonials", req, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}
