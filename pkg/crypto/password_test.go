package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)

	assert.True(t, CheckPassword("correct horse battery", hash))
	assert.False(t, CheckPassword("wrong password", hash))
}

func TestValidatePasswordStrength(t *testing.T) {
	assert.False(t, ValidatePasswordStrength("short"))
	assert.True(t, ValidatePasswordStrength("eightchr"))
}
