package testimonial

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestValidate(t *testing.T) {
	n, err := Validate(words(30))
	require.NoError(t, err)
	assert.Equal(t, 30, n)

	n, err = Validate("  spaced\tout \n words  ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestValidateEmpty(t *testing.T) {
	_, err := Validate(" \n\t ")
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestValidateOverLimit(t *testing.T) {
	n, err := Validate(words(31))
	require.Error(t, err)
	assert.Equal(t, 31, n)

	var limitErr *LimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, 1, limitErr.Overage())
	assert.Equal(t, "testimonial exceeds 30 words limit by 1 word", err.Error())

	_, err = Validate(words(35))
	assert.EqualError(t, err, "testimonial exceeds 30 words limit by 5 words")
}
