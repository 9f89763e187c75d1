package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("user-1", "photos/user-1/2.png")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 2*time.Second)

	subject, value, err := signer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
	assert.Equal(t, "photos/user-1/2.png", value)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("user-1", "photos/user-1/0.jpg")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	parts[0] = "user-2"
	_, _, err = signer.Parse(strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrBadSignature)

	_, _, err = NewSignedURLSigner("other", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrBadSignature)

	_, _, err = signer.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	token, _, err := signer.Generate("user-1", "state")
	require.NoError(t, err)

	signer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, _, err = signer.Parse(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestSignedURLSignerValidation(t *testing.T) {
	_, _, err := NewSignedURLSigner("", time.Minute).Generate("u", "v")
	assert.Error(t, err)
	_, _, err = NewSignedURLSigner("s", time.Minute).Generate("a.b", "v")
	assert.Error(t, err)
}
