package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mercearia/backend/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
)

func newManualMeter(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewMeterProvider_Disabled(t *testing.T) {
	mp, err := NewMeterProvider(context.Background(), config.TelemetryConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestHelpers(t *testing.T) {
	reader, provider := newManualMeter(t)
	meter := provider.Meter("test")
	ctx := context.Background()

	counter, err := NewCounter(meter, "requests", "Requests", "{request}")
	require.NoError(t, err)
	counter.Inc(ctx)
	counter.Add(ctx, 4)

	hist, err := NewHistogram(meter, HistogramOpts{Name: "latency", Unit: "s", Boundaries: HTTPDurationBuckets})
	require.NoError(t, err)
	hist.RecordDuration(ctx, 150*time.Millisecond)

	updown, err := NewUpDownCounter(meter, "active", "Active", "{request}")
	require.NoError(t, err)
	updown.Add(ctx, 2)
	updown.Add(ctx, -1)

	metrics := collect(t, reader)
	assert.Equal(t, int64(5), sumOf(t, metrics["requests"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["active"]))

	h, ok := metrics["latency"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, h.DataPoints, 1)
	assert.Equal(t, uint64(1), h.DataPoints[0].Count)
	assert.InDelta(t, 0.15, h.DataPoints[0].Sum, 1e-9)
}

func TestBusinessMetrics(t *testing.T) {
	_, err := NewBusinessMetrics(nil)
	assert.ErrorIs(t, err, ErrMeterNil)

	reader, provider := newManualMeter(t)
	bm, err := NewBusinessMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	store := uuid.New()
	bm.RecordSalePaid(ctx, store, "pix", decimal.RequireFromString("42.90"))
	bm.RecordSalePaid(ctx, store, "dinheiro", decimal.RequireFromString("7.10"))
	bm.RecordSaleCancelled(ctx, store)
	bm.RecordPurchaseReceived(ctx, store)
	bm.RecordStockMoves(ctx, store, "saida", 3)
	bm.RecordStockMoves(ctx, store, "saida", 0)
	bm.RecordReorderAlert(ctx, store)

	metrics := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, metrics["mercearia.sales.paid"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["mercearia.sales.cancelled"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["mercearia.purchases.received"]))
	assert.Equal(t, int64(3), sumOf(t, metrics["mercearia.stock.moves"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["mercearia.stock.reorder_alerts"]))

	amounts, ok := metrics["mercearia.sales.amount"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var total float64
	for _, dp := range amounts.DataPoints {
		total += dp.Sum
	}
	assert.InDelta(t, 50.0, total, 1e-9)
}
