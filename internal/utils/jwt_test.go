// internal/utils/jwt_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT("0x0000000000000000000000000000000000000a11", true, 1)
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "0x0000000000000000000000000000000000000a11", claims.Address)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "karya", claims.Issuer)
}

func TestValidateJWTRejectsTamperedToken(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateJWT("0x0000000000000000000000000000000000000a11", false, 1)
	require.NoError(t, err)

	_, err = ValidateJWT(token + "x")
	assert.Error(t, err)

	SetJWTSecret("a-different-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	token, err := GenerateRefreshToken("0x0000000000000000000000000000000000000b0b", 24)
	require.NoError(t, err)

	address, err := ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "0x0000000000000000000000000000000000000b0b", address)

	// a refresh token is not an access token
	_, err = ValidateRefreshToken("not-a-token")
	assert.Error(t, err)
}
