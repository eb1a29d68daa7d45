package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"gorm.io/gorm"
)

// DBDurationBuckets are query duration boundaries in seconds
var DBDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// DBMetrics records query latency and connection pool usage
type DBMetrics struct {
	queryDuration *Histogram
	queryErrors   *Counter
	registration  metric.Registration
}

// EnableDBMetrics instruments db with a query duration histogram, an error
// counter and observable pool gauges
func EnableDBMetrics(db *gorm.DB, meter metric.Meter) (*DBMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	m := &DBMetrics{}
	var err error
	if m.queryDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db.query.duration",
		Description: "Database query duration",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.queryErrors, err = NewCounter(meter, "db.query.errors", "Failed database queries", "{query}"); err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if m.registration, err = registerPoolGauges(meter, sqlDB); err != nil {
		return nil, err
	}

	record := func(op string) func(*gorm.DB) {
		return func(db *gorm.DB) {
			elapsed, ok := queryElapsed(db)
			if !ok {
				return
			}
			ctx := db.Statement.Context
			attrs := []attribute.KeyValue{
				attribute.String("db.operation", op),
				attribute.String("db.table", db.Statement.Table),
			}
			m.queryDuration.RecordDuration(ctx, elapsed, attrs...)
			if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
				m.queryErrors.Inc(ctx, attrs...)
			}
		}
	}
	if err := registerAround(db, "mercearia_metrics", markQueryStart, record); err != nil {
		return nil, err
	}
	return m, nil
}

func registerPoolGauges(meter metric.Meter, sqlDB *sql.DB) (metric.Registration, error) {
	open, err := meter.Int64ObservableGauge("db.pool.open", metric.WithDescription("Open connections"))
	if err != nil {
		return nil, err
	}
	inUse, err := meter.Int64ObservableGauge("db.pool.in_use", metric.WithDescription("Connections in use"))
	if err != nil {
		return nil, err
	}
	idle, err := meter.Int64ObservableGauge("db.pool.idle", metric.WithDescription("Idle connections"))
	if err != nil {
		return nil, err
	}
	waits, err := meter.Int64ObservableCounter("db.pool.wait_count", metric.WithDescription("Connections waited for"))
	if err != nil {
		return nil, err
	}
	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(open, int64(stats.OpenConnections))
		o.ObserveInt64(inUse, int64(stats.InUse))
		o.ObserveInt64(idle, int64(stats.Idle))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, open, inUse, idle, waits)
}

// Stop unregisters the pool gauges
func (m *DBMetrics) Stop() error {
	if m == nil || m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}
