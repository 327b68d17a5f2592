package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"noteworthy/backend/internal/auth"
)

// A private key for context access
type contextKey string

const principalContextKey = contextKey("principal")

// Authenticate verifies the bearer token and stores the resulting principal
// in the request context for handlers to use.
func Authenticate(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authorization header is required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		principal, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid auth token"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), principalContextKey, principal)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// ForContext finds the authenticated principal in the context. The zero
// Principal means the request was never authenticated.
func ForContext(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(auth.Principal)
	return p, ok
}
