package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/dplus/internal/logging"
	"github.com/dplus/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	headerRequestID  = "X-Request-ID"
	maxRequestIDSize = 128
)

// RequestID 复用上游代理给出的 X-Request-ID，否则生成新的 UUID，并写入请求上下文。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if requestID == "" || len(requestID) > maxRequestIDSize {
			requestID = logging.NewRequestID()
		}

		c.Header(headerRequestID, requestID)
		c.Request = c.Request.WithContext(logging.ContextWithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// RequestLogger writes one access log line per request and records the latency histogram.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, route, strconv.Itoa(status), duration)

		level := zerolog.InfoLevel
		switch {
		case status >= 500:
			level = zerolog.ErrorLevel
		case status >= 400:
			level = zerolog.WarnLevel
		}
		event := logging.Ctx(c.Request.Context()).WithLevel(level)
		if decision, ok := routeDecision(c); ok {
			event = event.Str("route_rule", decision.Rule)
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", route).
			Int("status", status).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}
