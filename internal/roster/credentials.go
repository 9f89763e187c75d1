package roster

import (
	"io"
	"strings"
)

const credentialHeader = "Name,Email,Password"

// FormatCredentials renders results as a Name,Email,Password sheet. Fields are joined with a
// bare comma and never quoted, so a comma inside a name shifts the columns.
func FormatCredentials(results []CredentialResult) string {
	var b strings.Builder
	b.WriteString(credentialHeader)
	b.WriteByte('\n')
	for _, res := range results {
		b.WriteString(strings.Join([]string{res.Name, res.Email, res.Password}, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteCredentials writes the FormatCredentials output to w.
func WriteCredentials(w io.Writer, results []CredentialResult) error {
	_, err := io.WriteString(w, FormatCredentials(results))
	return err
}
