package roster

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCredentialsRoundTrip(t *testing.T) {
	results := []CredentialResult{
		{Name: "Ann Lee", Email: "ann@x.edu", Password: "aB3!xYz9#qW1"},
		{Name: "Bob", Email: "bob@x.edu", Password: "p@ss^word&12"},
	}

	out := FormatCredentials(results)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, len(results)+1)
	assert.Equal(t, "Name,Email,Password", lines[0])

	for i, line := range lines[1:] {
		fields := strings.Split(line, ",")
		require.Len(t, fields, 3)
		assert.Equal(t, results[i], CredentialResult{Name: fields[0], Email: fields[1], Password: fields[2]})
	}
}

func TestFormatCredentialsDoesNotQuote(t *testing.T) {
	out := FormatCredentials([]CredentialResult{{Name: "Lee, Ann", Email: "ann@x.edu", Password: "pw"}})
	assert.Equal(t, "Name,Email,Password\nLee, Ann,ann@x.edu,pw\n", out)
}

func TestWriteCredentials(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCredentials(&buf, nil))
	assert.Equal(t, "Name,Email,Password\n", buf.String())
}
