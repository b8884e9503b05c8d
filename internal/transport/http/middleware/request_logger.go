package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"secondhand-market/internal/pkg/logger"
)

const headerRequestID = "X-Request-ID"

func RequestLogger(base *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		l := base.With(
			"method", c.Request.Method,
			"url", c.Request.URL.Path,
			"remote_ip", c.ClientIP(),
		)
		if rid := c.GetHeader(headerRequestID); rid != "" {
			l = l.With("request_id", rid)
			c.Header(headerRequestID, rid)
		}
		c.Request = c.Request.WithContext(logger.IntoContext(c.Request.Context(), l))

		start := time.Now()
		c.Next()
		dur := time.Since(start)
		status := c.Writer.Status()

		attrs := []any{"route", c.FullPath(), "status", status, "duration_ms", dur.Milliseconds()}
		switch {
		case status >= 500:
			if len(c.Errors) > 0 {
				attrs = append(attrs, "error", c.Errors.String())
			}
			l.Error("request completed", attrs...)
		case status >= 400:
			l.Warn("request completed", attrs...)
		default:
			l.Info("request completed", append(attrs, "bytes", c.Writer.Size())...)
		}
	}
}
