package router

import (
	"crypto/subtle"
	"strings"
	"time"

	"github.com/carman72tmn/foodtech/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDKey = "request_id"
const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware tags every request with an id.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware writes a structured access log line per request.
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

// WebhookAuthMiddleware verifies the shared token the POS sends with
// webhook deliveries. An empty configured token disables the check.
func WebhookAuthMiddleware(token string) gin.HandlerFunc {
	expected := strings.TrimSpace(token)
	return func(c *gin.Context) {
		if expected == "" {
			c.Next()
			return
		}
		got := strings.TrimSpace(c.GetHeader("Authorization"))
		got = strings.TrimPrefix(got, "Bearer ")
		if got == "" {
			got = strings.TrimSpace(c.Query("token"))
		}
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			response.Unauthorized(c, "invalid webhook token")
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminAuthMiddleware guards operator endpoints with a static API token.
func AdminAuthMiddleware(token string) gin.HandlerFunc {
	expected := strings.TrimSpace(token)
	return func(c *gin.Context) {
		if expected == "" {
			response.Unauthorized(c, "admin api disabled")
			c.Abort()
			return
		}
		got := strings.TrimSpace(c.GetHeader("Authorization"))
		got = strings.TrimPrefix(got, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			response.Unauthorized(c, "invalid admin token")
			c.Abort()
			return
		}
		c.Next()
	}
}

func getRequestID(c *gin.Context) string {
	if value, ok := c.Get(requestIDKey); ok {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
