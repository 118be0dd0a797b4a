package middleware

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/e-course-backend/services"
	"github.com/vnkhanh/e-course-backend/utils"
)

const (
	ContextUserID   = "user_id"
	ContextRole     = "role"
	ContextIdentity = "identity"
)

// AuthMiddleware verifies the bearer token and stores the caller identity in
// the gin context. The identity is trusted as signed; the store is not queried.
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			slog.Info("rejected request without bearer token", "path", c.FullPath())
			abortWith(c, services.ErrTokenMissing)
			return
		}

		// Tách token khỏi chuỗi "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			slog.Info("rejected malformed authorization header", "path", c.FullPath())
			abortWith(c, services.ErrTokenInvalid)
			return
		}

		identity, err := tokens.VerifyToken(parts[1])
		if err != nil {
			slog.Info("rejected bearer token", "path", c.FullPath(), "error", err)
			abortWith(c, services.ErrTokenInvalid)
			return
		}

		c.Set(ContextUserID, identity.UserID)
		c.Set(ContextRole, identity.Role)
		c.Set(ContextIdentity, identity)
		c.Next()
	}
}

// IdentityFrom returns the identity stored by AuthMiddleware.
func IdentityFrom(c *gin.Context) (*utils.Identity, bool) {
	v, exists := c.Get(ContextIdentity)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*utils.Identity)
	return identity, ok && identity != nil
}

func abortWith(c *gin.Context, err *services.Error) {
	c.AbortWithStatusJSON(err.Kind.HTTPStatus(), gin.H{"error": err.Message, "code": err.Code})
}
