package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type queryStartKey struct{}

type registerFunc func(name string, fn func(*gorm.DB)) error

// registerAround installs before/after callbacks around every built-in gorm
// operation under the given prefix
func registerAround(db *gorm.DB, prefix string, before, after func(op string) func(*gorm.DB)) error {
	cb := db.Callback()
	ops := []struct {
		name          string
		before, after registerFunc
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, op := range ops {
		if before != nil {
			if err := op.before(prefix+":before_"+op.name, before(op.name)); err != nil {
				return err
			}
		}
		if after != nil {
			if err := op.after(prefix+":after_"+op.name, after(op.name)); err != nil {
				return err
			}
		}
	}
	return nil
}

func markQueryStart(string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Statement.Context == nil {
			return
		}
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func queryElapsed(db *gorm.DB) (time.Duration, bool) {
	if db.Statement.Context == nil {
		return 0, false
	}
	start, ok := db.Statement.Context.Value(queryStartKey{}).(time.Time)
	if !ok {
		return 0, false
	}
	return time.Since(start), true
}

// EnableDBTracing registers otelgorm on db and annotates query spans with
// the table, affected rows and a slow_query flag above slowThreshold
func EnableDBTracing(db *gorm.DB, dbSystem string, slowThreshold time.Duration, logger *zap.Logger) error {
	annotate := func(string) func(*gorm.DB) {
		return func(db *gorm.DB) {
			if db.Statement.Context == nil {
				return
			}
			span := trace.SpanFromContext(db.Statement.Context)
			if !span.IsRecording() {
				return
			}
			if db.Statement.Table != "" {
				span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
			}
			span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
			if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
				span.RecordError(db.Error)
				span.SetStatus(codes.Error, db.Error.Error())
			}
			if elapsed, ok := queryElapsed(db); ok && slowThreshold > 0 && elapsed > slowThreshold {
				span.SetAttributes(attribute.Bool("db.slow_query", true))
				span.AddEvent("slow_query", trace.WithAttributes(
					attribute.Int64("duration_ms", elapsed.Milliseconds()),
					attribute.Int64("threshold_ms", slowThreshold.Milliseconds()),
				))
			}
		}
	}
	// registered ahead of otelgorm so the annotation runs before its span ends
	if err := registerAround(db, "mercearia_trace", markQueryStart, annotate); err != nil {
		return err
	}
	if err := db.Use(otelgorm.NewPlugin(
		otelgorm.WithDBName(dbSystem),
		otelgorm.WithoutQueryVariables(),
	)); err != nil {
		return err
	}

	logger.Info("database tracing enabled",
		zap.String("db_system", dbSystem),
		zap.Duration("slow_threshold", slowThreshold),
	)
	return nil
}
