package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("focus-time-42")
	require.NoError(t, err)
	assert.NotEqual(t, "focus-time-42", hash)

	assert.True(t, CheckPassword(hash, "focus-time-42"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
}

func TestHashPassword_RejectsOverlongInput(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73))
	assert.Error(t, err)
}
