package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"desadarit/internal/auth"
)

const identityKey = "identity"

// AuthMiddleware validates the bearer token and injects the identity into the
// request context. A missing token is unauthenticated (401); a token that
// fails validation is forbidden (403), mirroring the public API contract.
func AuthMiddleware(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access token is required"})
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access token is required"})
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Invalid or expired token"})
			return
		}

		c.Set(identityKey, claims)
		c.Next()
	}
}

// RequireAdmin rejects authenticated identities whose role is not admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := IdentityFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Access token is required"})
			return
		}
		if claims.Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}
		c.Next()
	}
}

// IdentityFromContext returns the token claims stored by AuthMiddleware.
func IdentityFromContext(c *gin.Context) (*auth.TokenClaims, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*auth.TokenClaims)
	return claims, ok
}
