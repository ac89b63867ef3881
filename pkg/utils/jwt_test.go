package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maheshrc27/reelpay/internal/transfer"
	"github.com/stretchr/testify/require"
)

// signToken issues tokens the way the platform's auth service does.
func signToken(t *testing.T, method jwt.SigningMethod, key any, role string, ttl time.Duration) string {
	t.Helper()
	claims := transfer.CustomClaims{
		UserID: "42",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestValidateToken(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte("secret"), transfer.RoleAdmin, time.Hour)

	claims, err := ValidateToken("secret", token)
	require.NoError(t, err)
	require.Equal(t, "42", claims.UserID)
	require.Equal(t, transfer.RoleAdmin, claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte("secret"), transfer.RoleUser, time.Hour)

	_, err := ValidateToken("other", token)
	require.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	token := signToken(t, jwt.SigningMethodHS256, []byte("secret"), transfer.RoleUser, -time.Minute)

	_, err := ValidateToken("secret", token)
	require.Error(t, err)
}

func TestValidateTokenRejectsUnsignedToken(t *testing.T) {
	token := signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, transfer.RoleAdmin, time.Hour)

	_, err := ValidateToken("secret", token)
	require.Error(t, err)
}
