package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leaduni/internal/authz"
)

// RequireAdmin — пускаем только администраторов (заполняется AuthMiddleware).
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		roleStr, _ := role.(string)
		if !authz.IsAdmin(roleStr) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}
