package middleware

import (
	"net/http"
	"strings"

	"github.com/caseforge/storefront/services/common/auth"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
)

// User is the authenticated caller.
type User struct {
	ID    string
	Email string
}

// JWTMiddleware requires a valid bearer access token and stores the caller
// identity on the context.
func JWTMiddleware(parser *auth.TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token is required"})
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			return
		}

		claims, err := parser.ParseAccessToken(strings.TrimSpace(header[len("Bearer "):]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

// RequireAdmin lets through callers whose email is in the allowlist. Anyone
// else gets 404 so the admin surface is not discoverable.
func RequireAdmin(adminEmails []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			allowed[e] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if _, ok := allowed[strings.ToLower(user.Email)]; !ok || user.Email == "" {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (User, bool) {
	id := c.GetString(ContextUserID)
	if id == "" {
		return User{}, false
	}
	return User{ID: id, Email: c.GetString(ContextUserEmail)}, true
}
