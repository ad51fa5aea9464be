package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/smallbiznis/gstbilling/internal/observability/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const requestIDHeader = "X-Request-Id"

// MiddlewareConfig controls request logging behavior.
type MiddlewareConfig struct {
	Debug bool
	// ErrorClassifier maps a handler error to the (type, code) pair written
	// to the response body.
	ErrorClassifier func(err error) (string, string)
}

// GinMiddleware writes one http_request entry per request, tagged with the
// request id and the entity the route acts on.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := requestIDFor(c)
		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(obscontext.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		route := strings.TrimSpace(c.FullPath())
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()

		fields := append(requestFields(c, route, status, time.Since(start)), resourceFields(c, route)...)

		var errorType string
		if lastErr := c.Errors.Last(); lastErr != nil {
			var errorCode string
			errorType, errorCode = classify(cfg.ErrorClassifier, lastErr.Err)
			fields = append(fields,
				zap.String("error_type", errorType),
				zap.String("error_code", errorCode),
			)
			if cfg.Debug {
				fields = append(fields, zap.Stack("stack"))
			}
		}

		if log := FromContext(c.Request.Context()); log != nil {
			if ce := log.Check(requestLevel(route, status, errorType), "http_request"); ce != nil {
				ce.Write(fields...)
			}
		}
	}
}

func requestIDFor(c *gin.Context) string {
	// Header lookups are canonicalised, so X-Request-ID matches as well.
	if id := strings.TrimSpace(c.GetHeader(requestIDHeader)); id != "" {
		return id
	}
	if id := strings.TrimSpace(c.GetString("request_id")); id != "" {
		return id
	}
	return uuid.NewString()
}

func requestFields(c *gin.Context, route string, status int, elapsed time.Duration) []zap.Field {
	return []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("route", route),
		zap.Int("status", status),
		zap.Int64("duration_ms", elapsed.Milliseconds()),
		zap.Int64("bytes_in", max(c.Request.ContentLength, 0)),
		zap.Int("bytes_out", max(c.Writer.Size(), 0)),
	}
}

func resourceFields(c *gin.Context, route string) []zap.Field {
	var fields []zap.Field
	if resource := obscontext.RouteResource(route); resource != "" {
		fields = append(fields, zap.String("resource", resource))
	}
	if id := strings.TrimSpace(c.Param("id")); id != "" {
		fields = append(fields, zap.String("resource_id", id))
	}
	if format := obscontext.RouteExportFormat(route); format != "" {
		fields = append(fields, zap.String("export_format", format))
	}
	return fields
}

func classify(classifier func(error) (string, string), err error) (string, string) {
	if classifier == nil {
		return "", ""
	}
	return classifier(err)
}

func requestLevel(route string, status int, errorType string) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case route == "/metrics", route == "/health":
		return zapcore.DebugLevel
	// Preview is re-sent on every keystroke while a draft is edited.
	case route == "/api/invoices/preview" && errorType == "validation_error":
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
