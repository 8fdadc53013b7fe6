package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func TestParseAccessToken(t *testing.T) {
	p := NewTokenParser("s3cret")
	tok := sign(t, "s3cret", jwt.MapClaims{
		"sub":   "user-1",
		"email": "jane@example.com",
		"typ":   "access",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claims, err := p.ParseAccessToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	p := NewTokenParser("s3cret")

	cases := map[string]string{
		"wrong secret": sign(t, "other", jwt.MapClaims{"sub": "u", "typ": "access"}),
		"wrong type":   sign(t, "s3cret", jwt.MapClaims{"sub": "u", "typ": "refresh"}),
		"no subject":   sign(t, "s3cret", jwt.MapClaims{"typ": "access"}),
		"expired": sign(t, "s3cret", jwt.MapClaims{
			"sub": "u", "typ": "access", "exp": time.Now().Add(-time.Minute).Unix(),
		}),
		"garbage": "not.a.token",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := p.ParseAccessToken(tok)
			assert.Error(t, err)
		})
	}
}

func TestParseAccessToken_NoSecret(t *testing.T) {
	p := NewTokenParser("  ")
	_, err := p.ParseAccessToken("x")
	assert.ErrorIs(t, err, ErrSecretNotConfigured)
}
