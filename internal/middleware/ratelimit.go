package middleware

import (
	"net/http" // HTTP status codes
	"strconv"  // Header formatting
	"time"     // Window length

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

const rateLimitPrefix = "ratelimit:ip:" // Redis key prefix for per-IP counters

// fixedWindowScript increments the counter and starts the window on first hit
var fixedWindowScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	return {count, redis.call('PTTL', KEYS[1])}
`)

// RateLimit allows limit requests per window and client IP. Redis errors
// let the request through.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 {
			c.Next() // Rate limiting disabled
			return
		}
		key := rateLimitPrefix + c.FullPath() + ":" + c.ClientIP() // One bucket per route and IP
		res, err := fixedWindowScript.Run(c.Request.Context(), rdb, []string{key}, window.Milliseconds()).Int64Slice()
		if err != nil {
			logrus.WithError(err).Warn("rate limit check failed") // Fail open
			c.Next()
			return
		}
		count, ttl := res[0], res[1] // Hits in the window and remaining window in ms
		remaining := int64(limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		if count > int64(limit) {
			retry := (ttl + 999) / 1000 // Round up to whole seconds
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retry, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "Too many requests"})
			return
		}
		c.Next()
	}
}
