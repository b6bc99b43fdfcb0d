package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/paydesk/backend/internal/infrastructure/auth"
)

// Context keys set by the authentication middleware
const (
	ContextClaims = "auth_claims"
)

// Authenticate verifies the Bearer token and stores the claims on the
// request context
func Authenticate(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "Missing or malformed authorization header"},
			})
			return
		}

		claims, err := jwtManager.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "Invalid or expired token"},
			})
			return
		}

		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// GetClaims returns the verified claims of the current request
func GetClaims(c *gin.Context) *auth.Claims {
	value, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, _ := value.(*auth.Claims)
	return claims
}
