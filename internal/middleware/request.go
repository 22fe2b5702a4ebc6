package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// RequestIDHeader 为请求关联 ID 所在的请求/响应头。
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "__request_id"
	loggerKey    = "__request_logger"
)

// RequestID 复用上游传入的 X-Request-ID，缺失时生成新的 UUID。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID 返回当前请求的关联 ID，不存在时为空串。
func GetRequestID(c *gin.Context) string {
	if value, ok := c.Get(requestIDKey); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}

// RequestLogger 为每个请求挂载带 request_id 的子日志，并在结束时输出一行访问日志。
// 5xx 记为 error，4xx 记为 warn，其余为 info。
func RequestLogger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqLogger := base.With().Str("request_id", GetRequestID(c)).Logger()
		c.Set(loggerKey, &reqLogger)

		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			event = reqLogger.Error()
			if len(c.Errors) > 0 {
				event = event.Str("errors", c.Errors.String())
			}
		case status >= http.StatusBadRequest:
			event = reqLogger.Warn()
		default:
			event = reqLogger.Info()
		}

		if userID, ok := SessionUserID(c); ok {
			event = event.Uint("user_id", userID)
		}

		event.
			Dur("latency", time.Since(start)).
			Int("status", status).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("API")
	}
}

// Logger 取出请求级日志实例；中间件未挂载时返回全局禁用的日志器。
func Logger(c *gin.Context) *zerolog.Logger {
	if value, ok := c.Get(loggerKey); ok {
		if log, ok := value.(*zerolog.Logger); ok {
			return log
		}
	}
	nop := zerolog.Nop()
	return &nop
}

// Recovery 捕获 handler 中的 panic，记录日志并返回 500。
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		Logger(c).Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": http.StatusText(http.StatusInternalServerError)})
	})
}
