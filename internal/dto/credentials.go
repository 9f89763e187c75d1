package dto

import "github.com/noah-isme/yearbook-api/internal/roster"

// CredentialExportRequest is rendered into a printable credential sheet.
type CredentialExportRequest struct {
	Title    string                    `json:"title"`
	Students []roster.CredentialResult `json:"students" validate:"required,min=1,dive"`
}
