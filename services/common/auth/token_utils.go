package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrSecretNotConfigured = errors.New("JWT secret not configured")
	ErrInvalidToken        = errors.New("invalid or expired token")
)

// Claims are the identity fields the storefront reads from an access token.
type Claims struct {
	UserID string
	Email  string
}

// TokenParser validates HMAC-signed access tokens.
type TokenParser struct {
	secret []byte
}

func NewTokenParser(secret string) *TokenParser {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return &TokenParser{}
	}
	return &TokenParser{secret: []byte(secret)}
}

// ParseAndValidateToken parses a JWT token string and returns its claims.
// If expectedType is non-empty, the claim "typ" must match it.
func (p *TokenParser) ParseAndValidateToken(tokenStr, expectedType string) (jwt.MapClaims, error) {
	if p == nil || p.secret == nil {
		return nil, ErrSecretNotConfigured
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	if expectedType != "" {
		if typ, ok := claims["typ"].(string); !ok || typ != expectedType {
			return nil, fmt.Errorf("invalid token type")
		}
	}
	return claims, nil
}

// ParseAccessToken validates an access token and extracts the user identity.
func (p *TokenParser) ParseAccessToken(tokenStr string) (*Claims, error) {
	claims, err := p.ParseAndValidateToken(tokenStr, "access")
	if err != nil {
		return nil, err
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("token missing subject")
	}
	email, _ := claims["email"].(string)
	return &Claims{UserID: sub, Email: email}, nil
}
