package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the opaque, already-authenticated user identifier set
// by the upstream identity layer.
const UserIDHeader = "X-User-ID"

// IdentityMiddleware moves the authenticated user identifier from the header
// into the request context. Requests without one are rejected before any
// session can be created.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing user identity",
			})
			return
		}
		c.Set("userID", userID)
		c.Next()
	}
}

// GetUserID reads the authenticated user identifier placed by IdentityMiddleware.
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
