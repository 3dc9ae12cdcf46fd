package middleware

import (
	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // Request id generation
)

// RequestIDHeader is the header carrying the request id
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the gin context key holding the request id
const RequestIDKey = "requestID"

// RequestID reuses the incoming X-Request-ID or generates a new one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader) // Honour ids set by a proxy
		if id == "" {
			id = uuid.New().String() // Otherwise generate one
		}
		c.Set(RequestIDKey, id)       // Expose to handlers and loggers
		c.Header(RequestIDHeader, id) // Echo back to the client
		c.Next()                      // Proceed to the next handler
	}
}
