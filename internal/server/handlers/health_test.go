package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/octosync/pkg/api"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func doHealth(t *testing.T, handler *HealthHandler) (int, api.HealthResponse) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()

	handler.Health(w, req)

	resp := w.Result()
	defer func() {
		err := resp.Body.Close()
		assert.NoError(t, err)
	}()

	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var healthResp api.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&healthResp))

	return resp.StatusCode, healthResp
}

func TestHealthHandler_Health(t *testing.T) {
	handler := NewHealthHandler(setupTestLogger(), pingFunc(func(context.Context) error { return nil }), "1.2.3")

	status, resp := doHealth(t, handler)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Equal(t, "ok", resp.Database)
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	handler := NewHealthHandler(setupTestLogger(), pingFunc(func(context.Context) error {
		return errors.New("connection refused")
	}), "")

	status, resp := doHealth(t, handler)

	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unavailable", resp.Database)
	assert.Equal(t, "dev", resp.Version)
}

func TestHealthHandler_WithoutDatabase(t *testing.T) {
	status, resp := doHealth(t, NewHealthHandler(setupTestLogger(), nil, ""))

	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, resp.Database)
}
