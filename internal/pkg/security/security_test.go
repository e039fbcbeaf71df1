package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash := HashPassword("sw0rdfish")
	require.NotEmpty(t, hash)

	assert.NoError(t, CheckPassword(hash, "sw0rdfish"))
	assert.ErrorIs(t, CheckPassword(hash, "guess"), bcrypt.ErrMismatchedHashAndPassword)
}

func TestCheckPasswordRejectsEmptyHash(t *testing.T) {
	assert.Error(t, CheckPassword("", "anything"))
}
