package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	tokenStr, err := GenerateJWT("staff@fasercon.cl", "fasercon")
	require.NoError(t, err)

	token, err := ValidateJWT(tokenStr)
	require.NoError(t, err)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "staff@fasercon.cl", claims["email"])
	assert.Equal(t, "fasercon", claims["company"])
	assert.Equal(t, "access", claims["type"])
}

func TestRefreshTokenCarriesSession(t *testing.T) {
	tokenStr, err := GenerateRefreshToken("staff@fasercon.cl", "rym", "session-123")
	require.NoError(t, err)

	token, err := ValidateJWT(tokenStr)
	require.NoError(t, err)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "refresh", claims["type"])
	assert.Equal(t, "session-123", claims["sessionId"])
	assert.Equal(t, "rym", claims["company"])
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	_, err := ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-password", hash)

	assert.True(t, ValidatePassword(hash, "s3cret-password"))
	assert.False(t, ValidatePassword(hash, "wrong"))
}
