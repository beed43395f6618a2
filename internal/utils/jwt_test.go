package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestJWT_RoundTrip(t *testing.T) {
	opts := TokenOptions{Secret: "s3cret", TTL: time.Hour, Issuer: "blog", Audience: "blog-api"}

	token, err := GenerateJWT(12, "john@example.com", opts)
	require.NoError(t, err)

	claims, err := ParseJWT(token, opts)
	require.NoError(t, err)
	require.Equal(t, uint(12), claims.UserID)
	require.Equal(t, "john@example.com", claims.Email)
	require.Equal(t, "john@example.com", claims.Subject)
}

func TestJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT(1, "a@b.c", TokenOptions{Secret: "one"})
	require.NoError(t, err)

	_, err = ParseJWT(token, TokenOptions{Secret: "two"})
	require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestJWT_Expired(t *testing.T) {
	token, err := GenerateJWT(1, "a@b.c", TokenOptions{Secret: "k", TTL: -time.Minute})
	require.NoError(t, err)

	// A negative TTL falls back to the default lifetime
	_, err = ParseJWT(token, TokenOptions{Secret: "k"})
	require.NoError(t, err)

	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = ParseJWT(expired, TokenOptions{Secret: "k"})
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWT_IssuerAndAudienceMismatch(t *testing.T) {
	token, err := GenerateJWT(1, "a@b.c", TokenOptions{Secret: "k", Issuer: "other", Audience: "other-api"})
	require.NoError(t, err)

	_, err = ParseJWT(token, TokenOptions{Secret: "k", Issuer: "blog"})
	require.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	_, err = ParseJWT(token, TokenOptions{Secret: "k", Audience: "blog-api"})
	require.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)
}

func TestJWT_RejectsUnsignedToken(t *testing.T) {
	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseJWT(token, TokenOptions{Secret: "k"})
	require.Error(t, err)
}
