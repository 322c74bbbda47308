package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	for _, plain := range []string{"abcdefgh", "correct horse battery staple", "пароль-123", " spaced "} {
		hashed, err := HashPassword(plain)
		require.NoError(t, err)

		assert.NotEqual(t, plain, hashed)
		assert.NotContains(t, hashed, plain)
		assert.True(t, CheckPassword(hashed, plain))
		assert.False(t, CheckPassword(hashed, plain+"x"))
		assert.False(t, CheckPassword(hashed, strings.ToUpper(plain)+"!"))
	}
}

func TestHashPasswordIsSalted(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("abcdefgh")
	require.NoError(t, err)
	second, err := HashPassword("abcdefgh")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Len(t, second, len(first))
}

func TestHashPasswordRejectsOverlongInput(t *testing.T) {
	t.Parallel()

	_, err := HashPassword(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestCheckPasswordRejectsGarbageHash(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckPassword("not-a-bcrypt-hash", "abcdefgh"))
}
