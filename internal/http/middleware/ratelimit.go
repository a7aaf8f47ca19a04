package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/Krishit-Shah/multi-game/internal/logger"
)

// RateLimit ограничивает запросы по IP через redis-счетчик.
// Без redis лимит не применяется - защита, а не корректность.
func RateLimit(rdb *redis.Client, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}
		key := "ratelimit:" + c.ClientIP()

		pipe := rdb.Pipeline()
		incr := pipe.Incr(c.Request.Context(), key)
		pipe.Expire(c.Request.Context(), key, window)
		if _, err := pipe.Exec(c.Request.Context()); err != nil {
			// redis недоступен - пропускаем, не ломая auth
			logger.Warn("rate limit check failed", "error", err)
			c.Next()
			return
		}

		if incr.Val() > int64(maxRequests) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
