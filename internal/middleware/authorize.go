package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"riskhub/internal/models"
	"riskhub/internal/rbac"
)

// RequireAction returns a Gin middleware that denies the request unless the
// authenticated user's role is allowed to perform action. It must run after
// AuthMiddleware; a missing role means the caller is unauthenticated (401),
// a present but insufficient role is a 403.
func RequireAction(action rbac.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleValue, exists := c.Get(ContextRole)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "UNAUTHORIZED", "message": "Authentication required"},
			})
			c.Abort()
			return
		}

		role, ok := roleValue.(models.Role)
		if !ok || !rbac.Authorize(role, action) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": gin.H{"code": "FORBIDDEN", "message": "Access denied"},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
