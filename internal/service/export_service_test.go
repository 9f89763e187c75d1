package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yearbook-api/internal/dto"
	"github.com/noah-isme/yearbook-api/internal/roster"
	appErrors "github.com/noah-isme/yearbook-api/pkg/errors"
)

func newTestExportService() *ExportService {
	svc := NewExportService(nil, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC) }
	return svc
}

func TestExportServiceCredentialsCSV(t *testing.T) {
	svc := newTestExportService()

	result, err := svc.Credentials(context.Background(), "", dto.CredentialExportRequest{
		Title: "Class of 2024: Engineering",
		Students: []roster.CredentialResult{
			{Name: "Lovelace, Ada", Email: "ada@x.edu", Password: "p@ss,word"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "class_of_2024-_engineering_20240601_093000.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "Name,Email,Password\n\"Lovelace, Ada\",ada@x.edu,\"p@ss,word\"\n", string(result.Data))
}

func TestExportServiceCredentialsPDF(t *testing.T) {
	svc := newTestExportService()

	result, err := svc.Credentials(context.Background(), "PDF", dto.CredentialExportRequest{
		Students: []roster.CredentialResult{{Name: "Ada", Email: "ada@x.edu", Password: "secret"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "student_credentials_20240601_093000.pdf", result.Filename)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Data, []byte("%PDF")))
}

func TestExportServiceCredentialsValidation(t *testing.T) {
	svc := newTestExportService()

	_, err := svc.Credentials(context.Background(), "xlsx", dto.CredentialExportRequest{
		Students: []roster.CredentialResult{{Name: "Ada"}},
	})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Credentials(context.Background(), "csv", dto.CredentialExportRequest{})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
