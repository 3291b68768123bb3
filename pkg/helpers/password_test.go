package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { PasswordCost = bcrypt.DefaultCost })

	h1, err := HashPassword("Secr3t!")
	require.NoError(t, err)
	h2, err := HashPassword("Secr3t!")
	require.NoError(t, err)

	assert.NotEqual(t, "Secr3t!", h1)
	assert.NotEqual(t, h1, h2, "salt must make hashes differ")
	assert.True(t, CompareHashAndPassword(h1, "Secr3t!"))
	assert.True(t, CompareHashAndPassword(h2, "Secr3t!"))
	assert.False(t, CompareHashAndPassword(h1, "secr3t!"))
	assert.False(t, CompareHashAndPassword("garbage", "Secr3t!"))
}

func TestHashPassword_LimitIsBytes(t *testing.T) {
	PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { PasswordCost = bcrypt.DefaultCost })

	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes))
	assert.NoError(t, err)

	// 40 runes, 80 bytes
	_, err = HashPassword(strings.Repeat("é", 40))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
