package middleware

import (
	"context"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/mercearia/backend/internal/infrastructure/logger"
	"github.com/mercearia/backend/internal/infrastructure/telemetry"
)

// Profiling labels the CPU samples of each request with its route, method
// and store so profiles can be filtered in Pyroscope. skipPaths are left
// unlabeled.
func Profiling(enabled bool, skipPaths ...string) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if slices.Contains(skipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}
		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) map[string]string {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	return map[string]string{
		telemetry.ProfilingLabelRoute:   route,
		telemetry.ProfilingLabelMethod:  c.Request.Method,
		telemetry.ProfilingLabelStoreID: c.GetString(logger.GinStoreIDKey),
	}
}
