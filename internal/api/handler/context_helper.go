package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"propertycare/backend/internal/api/middleware"
)

// currentProfileID returns the authenticated caller's profile id.
func currentProfileID(c *gin.Context) string {
	return c.GetString(middleware.CtxProfileID)
}

// currentRole returns the authenticated caller's role.
func currentRole(c *gin.Context) string {
	return c.GetString(middleware.CtxRole)
}

// currentTokenJTI returns the access token's JTI for blacklisting.
func currentTokenJTI(c *gin.Context) string {
	return c.GetString(middleware.CtxTokenJTI)
}

// currentTokenExpiry returns the access token's expiry time.
func currentTokenExpiry(c *gin.Context) time.Time {
	if v, ok := c.Get(middleware.CtxTokenExp); ok {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Now()
}
