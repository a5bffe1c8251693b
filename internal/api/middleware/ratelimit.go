package middleware

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/upgradedproxy/proxy_go_server/internal/pkg/response"
)

// RateLimit 基于 Redis 的固定窗口限流，按客户端 IP 计数。
// Redis 不可用时放行，限流只是保护手段不是功能语义。
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), time.Now().Unix()/int64(window.Seconds()))

		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			log.Printf("Rate limit incr failed: %v", err)
			c.Next()
			return
		}
		if count == 1 {
			if err := rdb.Expire(c.Request.Context(), key, window).Err(); err != nil {
				log.Printf("Rate limit expire failed: %v", err)
			}
		}

		if count > int64(limit) {
			c.JSON(429, response.Response{
				Code:    response.CodeParamError,
				Message: "请求过于频繁，请稍后再试",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
