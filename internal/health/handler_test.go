// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkerFunc func(ctx context.Context) error

func (f checkerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

var (
	healthy   = checkerFunc(func(context.Context) error { return nil })
	unhealthy = checkerFunc(func(context.Context) error {
		return errors.New("connection refused")
	})
)

func newTestHandler(db, redis Checker) *Handler {
	return NewHandler(Info{Name: "reviewdeck", Version: "test"}, db, redis)
}

func getJSON(t *testing.T, h http.HandlerFunc, path string, dest any) int {
	t.Helper()

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
	return rec.Code
}

func TestLiveness(t *testing.T) {
	h := newTestHandler(healthy, healthy)

	var resp StatusResponse
	code := getJSON(t, h.Liveness, "/livez", &resp)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "reviewdeck", resp.Service)
	assert.Equal(t, "ok", resp.Status)

	h.SetShutdown(true)
	code = getJSON(t, h.Liveness, "/livez", &resp)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "shutting_down", resp.Status)
}

func TestReadiness(t *testing.T) {
	t.Run("all backends up", func(t *testing.T) {
		h := newTestHandler(healthy, healthy)

		var resp ReadinessResponse
		code := getJSON(t, h.Readiness, "/readyz", &resp)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", resp.Status)
		require.Len(t, resp.Checks, 2)
		assert.Equal(t, "postgres", resp.Checks[0].Name)
		assert.True(t, resp.Checks[0].Healthy)
		assert.Equal(t, "redis", resp.Checks[1].Name)
		assert.True(t, resp.Checks[1].Healthy)
	})

	t.Run("database down degrades", func(t *testing.T) {
		h := newTestHandler(unhealthy, healthy)

		var resp ReadinessResponse
		code := getJSON(t, h.Readiness, "/readyz", &resp)

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "degraded", resp.Status)
		assert.False(t, resp.Checks[0].Healthy)
		assert.Equal(t, "ping failed", resp.Checks[0].Message)
		assert.True(t, resp.Checks[1].Healthy)
	})

	t.Run("not ready skips the backends", func(t *testing.T) {
		h := newTestHandler(unhealthy, unhealthy)
		h.SetReady(false)

		var resp ReadinessResponse
		code := getJSON(t, h.Readiness, "/readyz", &resp)

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "not_ready", resp.Status)
		assert.Empty(t, resp.Checks)
	})
}
