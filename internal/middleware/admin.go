package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhive/internal/authz"
)

// RequireAdmin gates routes that only account-level admins may use.
// Per-project access is data-dependent and decided by the authz policies
// inside the services instead.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authz.IsAdmin(CurrentUser(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
