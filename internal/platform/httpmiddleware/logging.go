// Package httpmiddleware holds the gin middleware shared by the HTTP processes.
package httpmiddleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID correlates a request across logs and responses.
const HeaderRequestID = "X-Request-Id"

const loggerKey = "storefront.logger"

// RequestLogging logs one line per request and stores a request-scoped logger on the gin context.
// Bodies are not logged because checkout payloads carry customer contact details.
func RequestLogging(base *slog.Logger) gin.HandlerFunc {
	if base == nil {
		base = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
			c.Request.Header.Set(HeaderRequestID, reqID)
		}
		c.Header(HeaderRequestID, reqID)

		logger := base.With(
			slog.String("req_id", reqID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		)
		c.Set(loggerKey, logger)

		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.Int64("dur_ms", time.Since(start).Milliseconds()),
			slog.Int("resp_bytes", c.Writer.Size()),
			slog.String("remote", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
		}
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(c.Request.Context(), level, "http_request", attrs...)
	}
}

// Logger returns the request-scoped logger, or the default one outside RequestLogging.
func Logger(c *gin.Context) *slog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return slog.Default()
}
