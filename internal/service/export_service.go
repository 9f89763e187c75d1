package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/pkg/export"
	appErrors "github.com/noah-isme/yearbook-api/pkg/errors"
)

// Credential sheet formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type renderer interface {
	ContentType() string
	Extension() string
	Render(data export.Dataset) ([]byte, error)
}

// ExportResult is a rendered credential sheet.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders generated student credentials as printable sheets. Nothing is stored.
type ExportService struct {
	renderers map[string]renderer
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the defaults.
func NewExportService(csv, pdf renderer, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		renderers: map[string]renderer{ExportFormatCSV: csv, ExportFormatPDF: pdf},
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Credentials renders req in the requested format.
func (s *ExportService) Credentials(ctx context.Context, format string, req dto.CredentialExportRequest) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	r, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "Student Credentials"
	}
	data := export.Dataset{Title: title, Headers: []string{"Name", "Email", "Password"}}
	for _, c := range req.Students {
		data.Rows = append(data.Rows, []string{c.Name, c.Email, c.Password})
	}

	body, err := r.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render credentials")
	}
	s.logger.Info("credential sheet rendered", zap.String("format", format), zap.Int("rows", len(data.Rows)))

	filename := fmt.Sprintf("%s_%s.%s", sanitizeFilename(title), s.now().UTC().Format("20060102_150405"), r.Extension())
	return &ExportResult{Filename: filename, ContentType: r.ContentType(), Data: body}, nil
}

func sanitizeFilename(raw string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "\"", "")
	result := strings.ToLower(replacer.Replace(raw))
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
