package api

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status string `json:"status"`          // ok or degraded
	Error  string `json:"error,omitempty"` // First failing dependency
}

// HealthHandler pings the database and, when configured, Redis
func HealthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB() // Underlying connection pool
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Error: "database: " + err.Error()})
			return
		}
		if rdb != nil {
			if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Error: "redis: " + err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
	}
}
