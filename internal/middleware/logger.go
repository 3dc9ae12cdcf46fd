package middleware

import (
	"time" // Request duration

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Logger logs one structured line per request. Routes are logged by template
// so tokens carried in paths never reach the log.
func Logger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now() // Request start
		c.Next()            // Run the handler chain

		fields := logrus.Fields{
			"method":     c.Request.Method,                 // HTTP method
			"route":      c.FullPath(),                     // Route template, keeps tokens out of the log
			"status":     c.Writer.Status(),                // Response status
			"latency_ms": time.Since(start).Milliseconds(), // Duration in milliseconds
			"client_ip":  c.ClientIP(),                     // Caller address
		}
		if id, ok := c.Get(RequestIDKey); ok {
			fields["request_id"] = id // Correlate with the X-Request-ID header
		}
		if userID, ok := CurrentUserID(c); ok {
			fields["user_id"] = userID // Authenticated caller
		}
		entry := logger.WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("request failed") // Server side failure
		case c.Writer.Status() >= 400:
			entry.Warn("request rejected") // Client side failure
		default:
			entry.Info("request handled") // Success
		}
	}
}
