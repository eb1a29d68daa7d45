// Package middleware provides the gin middleware of the mercearia API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mercearia/backend/internal/infrastructure/logger"
	"github.com/mercearia/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns otelgin middleware. Spans are named after the gin route
// and requests outside any route are not traced.
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	traced := otelgin.Middleware(serviceName)
	return func(c *gin.Context) {
		if c.FullPath() == "" {
			c.Next()
			return
		}
		traced(c)
	}
}

// SpanEnricher tags the request span with the request id and the
// authenticated store and user, and marks 5xx responses as errors.
// Place it after JWTAuthMiddleware.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}
		telemetry.SetAttributes(span,
			"request_id", GetRequestID(c),
			telemetry.SpanAttrStoreID, c.GetString(logger.GinStoreIDKey),
			"user_id", c.GetString(logger.GinUserIDKey),
		)

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
