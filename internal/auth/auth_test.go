package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("secret1", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.True(t, VerifyPassword(hash, "secret1"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("", "secret1"))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := SignToken("s3cret", "64b2f0a1c9e77f0012345678", 2*time.Hour)
	require.NoError(t, err)

	uid, err := ParseToken("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "64b2f0a1c9e77f0012345678", uid)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := SignToken("s3cret", "abc", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other", token)
	assert.Error(t, err)
}

func TestTokenRejectsExpired(t *testing.T) {
	token, err := SignToken("s3cret", "abc", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("s3cret", token)
	assert.Error(t, err)
}

func TestNewResetToken(t *testing.T) {
	a, err := NewResetToken()
	require.NoError(t, err)
	b, err := NewResetToken()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
