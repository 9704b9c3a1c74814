package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const (
	// userIDKey is the key used to store the authenticated user's ID.
	userIDKey = contextKey("userID")
	// userRoleKey is the key used to store the authenticated user's role.
	userRoleKey = contextKey("userRole")
	// companyIDKey is the key used to store the authenticated user's company.
	companyIDKey = contextKey("companyID")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return stringFromRequestCtx(c.Request.Context(), userIDKey)
}

// GetUserRoleFromContext retrieves the authenticated user's role from the Gin context.
func GetUserRoleFromContext(c *gin.Context) (string, bool) {
	return stringFromRequestCtx(c.Request.Context(), userRoleKey)
}

// GetCompanyIDFromContext retrieves the authenticated user's company ID from the Gin context.
func GetCompanyIDFromContext(c *gin.Context) (string, bool) {
	return stringFromRequestCtx(c.Request.Context(), companyIDKey)
}

func stringFromRequestCtx(ctx context.Context, key contextKey) (string, bool) {
	val, ok := ctx.Value(key).(string)
	if !ok || val == "" {
		return "", false
	}
	return val, true
}
