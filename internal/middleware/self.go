package middleware

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"github.com/gin-gonic/gin" // Gin web framework
)

// SelfOnlyMiddleware only lets a user act on the account named by the path parameter
func SelfOnlyMiddleware(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := CurrentUserID(c) // Get userID from context
		// Check if userID exists in context
		if !exists {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		target, err := strconv.ParseUint(c.Param(param), 10, 64) // Parse the targeted user id
		// Refuse anything that is not the caller's own id
		if err != nil || uint(target) != userID {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.Next() // Same user, proceed to the next handler
	}
}
