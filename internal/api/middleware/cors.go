package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// corsAllowHeaders what the page Ajax helper and API clients send.
	corsAllowHeaders = "Content-Type, X-Requested-With, X-Request-ID"
	// corsExposeHeaders lets a cross-origin client read the request ID and
	// the export filename.
	corsExposeHeaders = "X-Request-ID, Content-Disposition"
	corsAllowMethods  = "GET, POST, PUT, DELETE"
)

// CORS answers cross-origin requests from the configured origins only. No
// credentials are shared; the pages run same-origin and the API has no
// cookie auth.
func CORS(allowOrigins []string) gin.HandlerFunc {
	originsMap := make(map[string]bool, len(allowOrigins))
	for _, o := range allowOrigins {
		originsMap[strings.TrimRight(o, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		c.Header("Vary", "Origin")
		allowed := originsMap[origin]
		if allowed {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Expose-Headers", corsExposeHeaders)
		}

		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			if !allowed {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Header("Access-Control-Allow-Headers", corsAllowHeaders)
			c.Header("Access-Control-Allow-Methods", corsAllowMethods)
			c.Header("Access-Control-Max-Age", "86400")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
