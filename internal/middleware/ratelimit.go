package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fleet/internal/redis"
)

// RateLimitMiddleware returns middleware that enforces a fixed-window
// per-client request limit. Limiter failures fail open so a redis outage
// does not take the API down with it.
func RateLimitMiddleware(store redis.RateLimitStoreInterface, limit int64, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := store.Allow(c.Request.Context(), c.ClientIP(), limit, window)
		if err != nil {
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
