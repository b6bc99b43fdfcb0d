package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paydesk/backend/internal/domain/identity"
)

// PermissionChecker resolves whether a user holds a permission
type PermissionChecker interface {
	CheckPermission(ctx context.Context, userID uuid.UUID, required identity.Permission) (bool, error)
}

// RequirePermission rejects requests whose user lacks the permission
func RequirePermission(checker PermissionChecker, logger *zap.Logger, required identity.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "Authentication required"},
			})
			return
		}

		allowed, err := checker.CheckPermission(c.Request.Context(), claims.UserID, required)
		if err != nil {
			logger.Error("permission check failed",
				zap.String("user_id", claims.UserID.String()),
				zap.String("permission", string(required)),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   gin.H{"code": "INTERNAL_ERROR", "message": "Permission check failed"},
			})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"code": "FORBIDDEN", "message": "Access denied: insufficient permissions"},
			})
			return
		}

		c.Next()
	}
}
