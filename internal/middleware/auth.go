package middleware

import (
	"net/http"
	"strings"

	jwtsvc "conduit/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// Auth requires a valid Bearer token and stores the caller identity in the
// context under "user_id" and "username".
func Auth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		claims, err := jwt.ValidateToken(token)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)

		c.Next()
	}
}

// OptionalAuth resolves the caller identity when a valid token is present and
// lets the request through either way. Public reads use it so favorited flags
// can reflect the caller.
func OptionalAuth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := jwt.ValidateToken(token); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("username", claims.Username)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	// Older clients send "Token <jwt>", newer ones "Bearer <jwt>".
	for _, prefix := range []string{"Bearer ", "Token "} {
		if strings.HasPrefix(h, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(h, prefix))
		}
	}
	return ""
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"errors": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}
