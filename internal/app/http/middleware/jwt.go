package middleware

import (
	"context"
	"net/http"
	"strings"

	"ecobrinca/internal/api/respond"
	"ecobrinca/internal/infra/sessions"

	"github.com/gin-gonic/gin"
)

// Authenticator checks a bearer token against its server-side session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (sessions.Claims, error)
}

// AuthMiddleware requires a valid bearer token and puts user_id,
// session_id and provider on the context.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Bearer token malformed"})
			return
		}

		claims, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(tokenString))
		if err != nil {
			respond.Error(c, err)
			return
		}

		c.Set("user_id", claims.UserID())
		c.Set("session_id", claims.SessionID)
		c.Set("provider", claims.Provider)
		c.Next()
	}
}
