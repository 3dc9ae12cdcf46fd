package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

const (
	corsMethods = "GET, POST, PUT, DELETE, OPTIONS"                   // Methods used by the web client
	corsHeaders = "Content-Type, Authorization, X-Request-ID, Accept" // Headers the web client sends
	corsMaxAge  = "86400"                                             // Preflight cache, 24 hours
)

// CORS answers preflight requests and sets the allow-origin header. A "*"
// entry allows any origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowAll := false                                     // Wildcard flag
	allowed := make(map[string]bool, len(allowedOrigins)) // Origin lookup
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.ToLower(o)] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin") // Browser supplied origin
		if origin != "" && (allowAll || allowed[strings.ToLower(origin)]) {
			if allowAll {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
			}
			c.Header("Access-Control-Expose-Headers", RequestIDHeader)
		}
		// Preflight requests stop here
		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			c.Header("Access-Control-Allow-Methods", corsMethods)
			c.Header("Access-Control-Allow-Headers", corsHeaders)
			c.Header("Access-Control-Max-Age", corsMaxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
