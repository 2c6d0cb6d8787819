package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pool-ladder/pool-ladder-backend/pkg/logger"
)

// RequestLogger 요청 로깅 미들웨어
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("HTTP request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"ip", c.ClientIP())
	}
}
