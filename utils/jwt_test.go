package utils

import (
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims, secret []byte) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func TestExtractUserIDFromToken(t *testing.T) {
	signed := signToken(t, jwt.MapClaims{"sub": "user-42"}, secretKey)

	userID, err := ExtractUserIDFromToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestExtractUserIDMissingSubject(t *testing.T) {
	signed := signToken(t, jwt.MapClaims{"name": "anon"}, secretKey)

	_, err := ExtractUserIDFromToken(signed)
	assert.Error(t, err)
}

func TestExtractUserIDWrongSecret(t *testing.T) {
	signed := signToken(t, jwt.MapClaims{"sub": "user-42"}, []byte("not-the-secret"))

	_, err := ExtractUserIDFromToken(signed)
	assert.Error(t, err)
}

func TestExtractUserIDGarbageToken(t *testing.T) {
	_, err := ExtractUserIDFromToken("not.a.token")
	assert.Error(t, err)
}
