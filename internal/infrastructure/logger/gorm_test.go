package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGorm(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func sqlFn(sql string, rows int64) func() (string, int64) {
	return func() (string, int64) { return sql, rows }
}

func TestGormLogger_Options(t *testing.T) {
	gl, _ := newObservedGorm(gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
	)
	assert.Equal(t, 500*time.Millisecond, gl.slowThreshold)
	assert.False(t, gl.ignoreRecordNotFoundError)
}

func TestGormLogger_LogModeClones(t *testing.T) {
	gl, _ := newObservedGorm(gormlogger.Info)

	warn, ok := gl.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, warn.logLevel)
	assert.Equal(t, gormlogger.Info, gl.logLevel)
}

func TestGormLogger_MessagesRespectLevel(t *testing.T) {
	gl, recorded := newObservedGorm(gormlogger.Warn)

	gl.Info(context.Background(), "info %d", 1)
	gl.Warn(context.Background(), "warn %d", 2)
	gl.Error(context.Background(), "error %d", 3)

	msgs := make([]string, 0)
	for _, e := range recorded.All() {
		msgs = append(msgs, e.Message)
	}
	assert.Equal(t, []string{"warn 2", "error 3"}, msgs)
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := WithIdentity(WithRequestID(context.Background(), "req-1"), "store-1", "user-1")
	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		opts    []GormLoggerOption
		begin   time.Time
		err     error
		wantMsg string
	}{
		{"silent logs nothing", gormlogger.Silent, nil, time.Now(), errors.New("x"), ""},
		{"error", gormlogger.Error, nil, time.Now(), errors.New("deadlock"), "sql error"},
		{"record not found ignored", gormlogger.Error, nil, time.Now(), gormlogger.ErrRecordNotFound, ""},
		{"record not found logged", gormlogger.Error, []GormLoggerOption{WithIgnoreRecordNotFoundError(false)}, time.Now(), gormlogger.ErrRecordNotFound, "sql error"},
		{"slow", gormlogger.Warn, []GormLoggerOption{WithSlowThreshold(time.Millisecond)}, time.Now().Add(-time.Second), nil, "slow sql"},
		{"fast query at warn", gormlogger.Warn, nil, time.Now(), nil, ""},
		{"query at info", gormlogger.Info, nil, time.Now(), nil, "sql"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gl, recorded := newObservedGorm(tt.level, tt.opts...)
			gl.Trace(ctx, tt.begin, sqlFn("SELECT * FROM stock_items", 2), tt.err)

			if tt.wantMsg == "" {
				assert.Empty(t, recorded.All())
				return
			}
			logs := recorded.All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.wantMsg, logs[0].Message)
			fields := logs[0].ContextMap()
			assert.Equal(t, "SELECT * FROM stock_items", fields["sql"])
			assert.Equal(t, int64(2), fields["rows"])
			assert.Equal(t, "store-1", fields["store_id"])
			assert.Equal(t, "req-1", fields["request_id"])
		})
	}
}

func TestMapGormLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"silent": gormlogger.Silent,
		"error":  gormlogger.Error,
		"warn":   gormlogger.Warn,
		"info":   gormlogger.Info,
		"debug":  gormlogger.Info,
		"":       gormlogger.Warn,
	}
	for in, want := range tests {
		assert.Equal(t, want, MapGormLogLevel(in), in)
	}
}
