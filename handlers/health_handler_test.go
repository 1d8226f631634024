package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/student-registration/repositories/postgres"
	"go.uber.org/zap"
)

func TestHandleHealth(t *testing.T) {
	handler := NewHealthHandler(zap.NewNop())

	w := httptest.NewRecorder()
	handler.HandleHealth(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func readiness(t *testing.T, handler *HealthHandler) (int, HealthResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	handler.HandleReadiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return w.Code, resp
}

func TestHandleReadiness(t *testing.T) {
	logger := zap.NewNop()

	t.Run("ready when database is available", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		db := postgres.WrapDB(sqlDB, logger)
		handler := NewHealthHandler(logger).WithProbe("database", db.HealthCheck, true)

		code, resp := readiness(t, handler)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ready", resp.Status)
		assert.Equal(t, "healthy", resp.Checks["database"])
		assert.NotEmpty(t, resp.Timestamp)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not ready when database ping fails", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer sqlDB.Close()

		mock.ExpectPing().WillReturnError(errors.New("connection refused"))

		db := postgres.WrapDB(sqlDB, logger)
		handler := NewHealthHandler(logger).WithProbe("database", db.HealthCheck, true)

		code, resp := readiness(t, handler)
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "not_ready", resp.Status)
		assert.Equal(t, "unhealthy", resp.Checks["database"])
	})

	t.Run("degraded when an optional dependency fails", func(t *testing.T) {
		handler := NewHealthHandler(logger).
			WithProbe("database", func(context.Context) error { return nil }, true).
			WithProbe("redis", func(context.Context) error { return errors.New("dial tcp: refused") }, false)

		code, resp := readiness(t, handler)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "healthy", resp.Checks["database"])
		assert.Equal(t, "unhealthy", resp.Checks["redis"])
	})

	t.Run("critical failure wins over optional order", func(t *testing.T) {
		handler := NewHealthHandler(logger).
			WithProbe("redis", func(context.Context) error { return errors.New("down") }, false).
			WithProbe("database", func(context.Context) error { return errors.New("down") }, true)

		code, resp := readiness(t, handler)
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "not_ready", resp.Status)
	})
}
