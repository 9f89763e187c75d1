package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/internal/service"
	"github.com/noah-isme/yearbook-api/pkg/response"
)

type credentialExporter interface {
	Credentials(ctx context.Context, format string, req dto.CredentialExportRequest) (*service.ExportResult, error)
}

// ExportHandler renders credential sheets for download.
type ExportHandler struct {
	exports credentialExporter
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports credentialExporter) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Credentials godoc
// @Summary Download generated credentials
// @Description Renders the posted bulk upload results; nothing is stored
// @Tags Students
// @Accept json
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Param payload body dto.CredentialExportRequest true "Credentials"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /credentials/export [post]
func (h *ExportHandler) Credentials(c *gin.Context) {
	var req dto.CredentialExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid export payload"))
		return
	}
	result, err := h.exports.Credentials(c.Request.Context(), c.Query("format"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Data)
}
