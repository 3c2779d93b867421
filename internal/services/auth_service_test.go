package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPasswordHashing(t *testing.T) {
	auth := NewAuthService("test-secret", time.Hour)

	hash, err := auth.HashPassword("s3cret-pass")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, auth.CheckPassword(hash, "s3cret-pass"))
	assert.False(t, auth.CheckPassword(hash, "wrong-pass"))
}

func TestTokenRoundTrip(t *testing.T) {
	auth := NewAuthService("test-secret", time.Hour)

	token, err := auth.IssueToken(42)
	assert.NoError(t, err)

	userID, err := auth.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewAuthService("secret-a", time.Hour).IssueToken(42)
	assert.NoError(t, err)

	_, err = NewAuthService("secret-b", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	// expiry beyond the clock-skew leeway
	token, err := NewAuthService("test-secret", -time.Hour).IssueToken(42)
	assert.NoError(t, err)

	_, err = NewAuthService("test-secret", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestTokenGarbage(t *testing.T) {
	auth := NewAuthService("test-secret", time.Hour)
	_, err := auth.ParseToken("not.a.token")
	assert.Error(t, err)
}
