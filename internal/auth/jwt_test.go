package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, expiresAt, err := GenerateToken("local-user", "dev@localhost")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(TokenTTL), expiresAt, time.Minute)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	require.Equal(t, "local-user", claims.UserID)
	require.Equal(t, "local-user", claims.Subject)
	require.Equal(t, "dev@localhost", claims.Email)
}

func TestValidateToken_Invalid(t *testing.T) {
	_, err := ValidateToken("invalid.token")
	require.Error(t, err)
}

func TestValidateToken_WrongAudience(t *testing.T) {
	claims := Claims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    jwtIssuer,
			Audience:  jwt.ClaimStrings{"someone-else"},
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	require.NoError(t, err)

	_, err = ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidAudience)
}
