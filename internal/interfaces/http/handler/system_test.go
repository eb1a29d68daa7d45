package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mercearia/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_Info(t *testing.T) {
	h := NewSystemHandler("mercearia", "1.2.0", nil)

	w := serveWith(h.Info, httptest.NewRequest(http.MethodGet, "/t/info", nil))
	info := testutil.RequireData[SystemInfoResponse](t, w, http.StatusOK)
	assert.Equal(t, "mercearia", info.Name)
	assert.Equal(t, "1.2.0", info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler("mercearia", "dev", nil)

	w := serveWith(h.Ping, httptest.NewRequest(http.MethodGet, "/t/ping", nil))
	data := testutil.RequireData[map[string]string](t, w, http.StatusOK)
	assert.Equal(t, "pong", data["message"])
}

func TestSystemHandler_Health(t *testing.T) {
	ok := func(context.Context) error { return nil }

	t.Run("all dependencies up", func(t *testing.T) {
		h := NewSystemHandler("mercearia", "dev", map[string]HealthCheck{"database": ok, "redis": ok})

		w := serveWith(h.Health, httptest.NewRequest(http.MethodGet, "/t/health", nil))
		health := testutil.RequireData[HealthResponse](t, w, http.StatusOK)
		assert.Equal(t, "healthy", health.Status)
		assert.Equal(t, map[string]string{"database": "ok", "redis": "ok"}, health.Dependencies)
	})

	t.Run("one dependency down", func(t *testing.T) {
		h := NewSystemHandler("mercearia", "dev", map[string]HealthCheck{
			"database": ok,
			"redis":    func(context.Context) error { return errors.New("dial tcp: connection refused") },
		})

		w := serveWith(h.Health, httptest.NewRequest(http.MethodGet, "/t/health", nil))
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		env := testutil.Decode[HealthResponse](t, w)
		assert.False(t, env.Success)
		assert.Equal(t, "unhealthy", env.Data.Status)
		assert.Equal(t, "error", env.Data.Dependencies["redis"])
		assert.Equal(t, "ok", env.Data.Dependencies["database"])
		assert.NotContains(t, w.Body.String(), "connection refused")
	})

	t.Run("checks see a deadline", func(t *testing.T) {
		h := NewSystemHandler("mercearia", "dev", map[string]HealthCheck{
			"database": func(ctx context.Context) error {
				if _, has := ctx.Deadline(); !has {
					return errors.New("no deadline")
				}
				return nil
			},
		})

		w := serveWith(h.Health, httptest.NewRequest(http.MethodGet, "/t/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no checks", func(t *testing.T) {
		h := NewSystemHandler("mercearia", "dev", nil)

		w := serveWith(h.Health, httptest.NewRequest(http.MethodGet, "/t/health", nil))
		var body map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
