package telemetry

import (
	"context"
	"testing"

	"github.com/mercearia/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerProvider_DisabledBridgeReturnsBase(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), config.TelemetryConfig{LogsEnabled: false}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())

	base := zap.NewNop()
	assert.Same(t, base, lp.Bridge(base, "mercearia", zapcore.InfoLevel))
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestLoggerProvider_EnabledKeepsBaseOutput(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), config.TelemetryConfig{
		LogsEnabled:       true,
		CollectorEndpoint: "localhost:4317",
		ServiceName:       "mercearia-test",
		Insecure:          true,
	}, zap.NewNop())
	require.NoError(t, err)
	require.True(t, lp.IsEnabled())
	defer func() { _ = lp.Shutdown(context.Background()) }()

	core, logs := observer.New(zapcore.DebugLevel)
	bridged := lp.Bridge(zap.New(core), "mercearia", zapcore.WarnLevel)
	bridged.Debug("debug line")
	bridged.Warn("warn line")

	assert.Equal(t, 2, logs.Len())
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}

	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))

	logger := zap.New(core).With(zap.String("store_id", "s1"))
	logger.Info("dropped")
	logger.Error("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "s1", entry.ContextMap()["store_id"])
}
