package middleware

import (
	"github.com/gin-gonic/gin"
)

// Keys used to store the authenticated identity in the request context.
const (
	userIDKey = contextKey("userID")
	orgIDKey  = contextKey("orgID")
	roleKey   = contextKey("role")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return stringFromRequestCtx(c, userIDKey)
}

// GetOrgIDFromContext retrieves the authenticated user's org ID from the Gin
// context. Every repository read and write is scoped by this value.
func GetOrgIDFromContext(c *gin.Context) (string, bool) {
	return stringFromRequestCtx(c, orgIDKey)
}

// GetRoleFromContext retrieves the authenticated user's role from the Gin context.
func GetRoleFromContext(c *gin.Context) (string, bool) {
	return stringFromRequestCtx(c, roleKey)
}

func stringFromRequestCtx(c *gin.Context, key contextKey) (string, bool) {
	if v, exists := c.Get(string(key)); exists {
		if s, ok := v.(string); ok {
			return s, true
		}
		return "", false
	}
	// check in the request context as well
	if v := c.Request.Context().Value(key); v != nil {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}
