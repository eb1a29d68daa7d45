package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mercearia/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func TestTracing_RouteSpans(t *testing.T) {
	rec := useRecorder(t)

	r := gin.New()
	r.Use(RequestID(), Tracing("test", true),
		func(c *gin.Context) { c.Set(logger.GinStoreIDKey, "store-1"); c.Next() },
		SpanEnricher())
	r.GET("/sales/:id", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/sales/42", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/sales/:id")
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "store-1", attrs["store_id"])
	assert.NotEmpty(t, attrs["request_id"])
}

func TestTracing_Disabled(t *testing.T) {
	rec := useRecorder(t)

	r := gin.New()
	r.Use(Tracing("test", false), SpanEnricher())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, rec.Ended())
}

func TestHTTPMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	mw, err := HTTPMetrics(provider.Meter("test"))
	require.NoError(t, err)
	r := gin.New()
	r.Use(mw)
	r.GET("/products/:id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	for _, path := range []string{"/products/1", "/products/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	totals := map[string]int64{}
	active := int64(-1)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				switch m.Name {
				case "http_server_request_total":
					route, _ := dp.Attributes.Value("http.route")
					totals[route.AsString()] += dp.Value
				case "http_server_active_requests":
					if active < 0 {
						active = 0
					}
					active += dp.Value
				}
			}
		}
	}
	assert.Equal(t, map[string]int64{"/products/:id": 2, "unmatched": 1}, totals)
	assert.Zero(t, active)
}

func TestProfilingLabels(t *testing.T) {
	r := gin.New()
	var labels map[string]string
	r.Use(func(c *gin.Context) { c.Set(logger.GinStoreIDKey, "store-1"); c.Next() })
	r.GET("/sales/:id", func(c *gin.Context) {
		labels = profilingLabels(c)
		c.Status(http.StatusOK)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sales/9", nil))

	assert.Equal(t, map[string]string{"route": "/sales/:id", "method": "GET", "store_id": "store-1"}, labels)
}

func TestProfiling_RunsHandler(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		r := gin.New()
		r.Use(Profiling(enabled, "/health"))
		r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusAccepted) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusAccepted, w.Code)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
