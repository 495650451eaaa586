package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"absenceportal/internal/logger"
)

// Logging logs method, path, duration and status for each request.
func Logging(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Info("HTTP request completed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds())

		for _, ginErr := range c.Errors {
			log.Error("HTTP request failed",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"error", ginErr.Error())
		}
	}
}
