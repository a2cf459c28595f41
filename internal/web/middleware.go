package web

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger writes one slog record per request.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	log = log.With(slog.String("division", "http"))

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.ErrorContext(c.Request.Context(), "HTTP request", attrs...)
		case status >= 400:
			log.WarnContext(c.Request.Context(), "HTTP request", attrs...)
		default:
			log.InfoContext(c.Request.Context(), "HTTP request", attrs...)
		}
	}
}
