package server

import (
	"time"

	"cardledger/internal/auth"
	"cardledger/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLoggingMiddleware logs one line per request. Server errors are
// logged at error level, client errors at warn.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if operator, ok := auth.GetOperator(c); ok {
			args = append(args, "operator", operator)
		}

		switch {
		case status >= 500:
			logger.Error("HTTP request", args...)
		case status >= 400:
			logger.Warn("HTTP request", args...)
		default:
			logger.Info("HTTP request", args...)
		}
	}
}
