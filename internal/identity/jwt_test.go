package identity

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseToken_ValidToken(t *testing.T) {
	signed := signToken(t, "test-secret", Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := ParseToken(signed, "test-secret")

	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestParseToken_WrongSecret(t *testing.T) {
	signed := signToken(t, "test-secret", Claims{UserID: "user-1"})

	claims, err := ParseToken(signed, "another-secret")

	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestParseToken_Expired(t *testing.T) {
	signed := signToken(t, "test-secret", Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	claims, err := ParseToken(signed, "test-secret")

	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestParseToken_MissingUserIdentity(t *testing.T) {
	signed := signToken(t, "test-secret", Claims{})

	claims, err := ParseToken(signed, "test-secret")

	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestParseToken_Garbage(t *testing.T) {
	claims, err := ParseToken("not.a.token", "test-secret")

	assert.Error(t, err)
	assert.Nil(t, claims)
}
