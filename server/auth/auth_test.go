package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, VerifyPassword(hash, "correct horse battery staple"))
	assert.False(t, VerifyPassword(hash, "wrong password"))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "ada@example.com", "test-secret")
	require.NoError(t, err)

	userID, err := ParseAccessToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, int32(42), userID)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(42, "ada@example.com", "test-secret")
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "other-secret")
	assert.Error(t, err)
}

func TestAccessTokenExpired(t *testing.T) {
	claims := &ClaimsMessage{
		Email: "ada@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   "42",
			Audience:  jwt.ClaimStrings{"user.access-token"},
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "test-secret")
	assert.Error(t, err)
}

func TestAccessTokenGarbage(t *testing.T) {
	_, err := ParseAccessToken("not-a-token", "test-secret")
	assert.Error(t, err)
}

func TestResetTokenRoundTrip(t *testing.T) {
	token, err := GenerateResetToken(7, "test-secret")
	require.NoError(t, err)

	userID, err := ParseResetToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, int32(7), userID)
}

func TestResetTokenIsNotAnAccessToken(t *testing.T) {
	token, err := GenerateResetToken(7, "test-secret")
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "test-secret")
	assert.Error(t, err)
}
