package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsCode(t *testing.T) {
	err := Clone(ErrNotFound, "college not found")
	assert.Equal(t, "college not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	wrapped := fmt.Errorf("outer: %w", ErrWordLimit)
	assert.Equal(t, ErrWordLimit, FromError(wrapped))

	plain := errors.New("boom")
	got := FromError(plain)
	assert.Equal(t, ErrInternal.Code, got.Code)
	assert.ErrorIs(t, got, plain)
	assert.Equal(t, "internal server error: boom", got.Error())
}
