package http_api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// rateLimitMiddleware guards mutating endpoints with the per-client
// token bucket, keyed by client IP.
func (s *HTTPServer) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Allow(c.ClientIP(), s.config.RateLimitMax, s.config.RateLimitRefill) {
			s.logger.Debug("Rate limit exceeded ", "ip ", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too many requests",
			})
			return
		}
		c.Next()
	}
}
