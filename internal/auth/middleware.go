package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireSession rejects requests that do not carry a live admin session.
// Both reads and writes on the catalog are gated; only the auth endpoints,
// health checks, site config and (when enabled) the debug surface stay open.
func (sm *SessionManager) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sm.IsAuthenticated(c.Request) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		c.Next()
	}
}

// DebugOnly hides a route group unless the debug flag is set in the config.
// Disabled debug routes answer 404 so they are indistinguishable from absent.
func DebugOnly(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.Next()
	}
}
