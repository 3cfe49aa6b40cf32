package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"botbi/internal/workers"
	"botbi/pkg/errors"
	"botbi/pkg/logger"
)

func ok(ctx context.Context) error   { return nil }
func down(ctx context.Context) error { return errors.ErrUnavailable }

type staticWorkers []workers.WorkerHealth

func (s staticWorkers) Health() []workers.WorkerHealth { return s }

func serve(t *testing.T, handler http.HandlerFunc) (int, HealthStatus) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var status HealthStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&status))
	return rec.Code, status
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name     string
		postgres Checker
		redis    Checker
		code     int
		status   string
	}{
		{name: "all up", postgres: ok, redis: ok, code: http.StatusOK, status: "healthy"},
		{name: "optional down", postgres: ok, redis: down, code: http.StatusOK, status: "degraded"},
		{name: "required down", postgres: down, redis: ok, code: http.StatusServiceUnavailable, status: "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(logger.NewNop(), "botbi", "test").
				AddCheck("postgres", true, tt.postgres).
				AddCheck("redis", false, tt.redis)

			code, status := serve(t, h.HandleReadiness)

			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.status, status.Status)
			assert.Len(t, status.Checks, 2)
			assert.True(t, status.Checks["postgres"].Required)
		})
	}
}

func TestHealth_IncludesWorkers(t *testing.T) {
	h := New(logger.NewNop(), "botbi", "test").
		AddCheck("postgres", true, ok).
		WithWorkers(staticWorkers{{Name: "newsletter", RunCount: 3}})

	code, status := serve(t, h.HandleHealth)

	assert.Equal(t, http.StatusOK, code)
	require.Len(t, status.Workers, 1)
	assert.Equal(t, "newsletter", status.Workers[0].Name)
	assert.Equal(t, int64(3), status.Workers[0].RunCount)
}

func TestLiveness(t *testing.T) {
	rec := httptest.NewRecorder()
	New(logger.NewNop(), "botbi", "test").AddCheck("postgres", true, down).
		HandleLiveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}
