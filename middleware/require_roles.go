package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/e-course-backend/services"
)

// RequireRoles must run after AuthMiddleware.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			abortWith(c, services.ErrTokenMissing)
			return
		}

		for _, allowed := range allowedRoles {
			if identity.Role == allowed {
				c.Next()
				return
			}
		}

		abortWith(c, services.ErrForbidden)
	}
}
