package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GinMiddleware logs one line per HTTP request. 4xx responses log as
// warnings and 5xx as errors so failing payout calls stand out without
// filtering by status. The request-scoped logger is stored in the gin
// context under "logger" for handlers that want it.
func GinMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqLogger := log.With(
			zap.String("request_id", ginString(c, "request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.Set("logger", reqLogger)

		c.Next()

		status := c.Writer.Status()
		fields := completionFields(c, status, time.Since(start))

		switch {
		case status >= http.StatusInternalServerError:
			reqLogger.Error("Request completed", fields...)
		case status >= http.StatusBadRequest:
			reqLogger.Warn("Request completed", fields...)
		default:
			reqLogger.Info("Request completed", fields...)
		}
	}
}

// completionFields gathers the fields logged after the handler chain ran.
// The authenticated identity is included when the JWT middleware resolved
// one, which ties each ledger mutation in the log to an actor.
func completionFields(c *gin.Context, status int, latency time.Duration) []zap.Field {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.Duration("latency", latency),
		zap.String("client_ip", c.ClientIP()),
		zap.String("user_agent", c.Request.UserAgent()),
		zap.Int("body_size", c.Writer.Size()),
	}

	if raw := c.Request.URL.RawQuery; raw != "" {
		fields = append(fields, zap.String("query", raw))
	}
	// Keys written by the JWT middleware once a token is verified
	if userID := ginString(c, "jwt_user_id"); userID != "" {
		fields = append(fields, zap.String("user_id", userID))
	}
	if supplierID := ginString(c, "jwt_supplier_id"); supplierID != "" {
		fields = append(fields, zap.String("supplier_id", supplierID))
	}
	if len(c.Errors) > 0 {
		fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
	}
	return fields
}

// Recovery converts a handler panic into a 500 response and an error log
// entry carrying the stack
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Recovered from handler panic",
					zap.String("request_id", ginString(c, "request_id")),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", r),
					zap.Stack("stacktrace"),
				)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// GetGinLogger returns the request-scoped logger set by GinMiddleware,
// or a no-op logger outside a logged request
func GetGinLogger(c *gin.Context) *zap.Logger {
	if v, exists := c.Get("logger"); exists {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return zap.NewNop()
}

// ginString reads a string value from the gin context, tolerating absent
// or differently typed entries
func ginString(c *gin.Context, key string) string {
	v, exists := c.Get(key)
	if !exists {
		return ""
	}
	s, _ := v.(string)
	return s
}
