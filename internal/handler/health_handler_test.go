package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockPool implements a minimal interface for testing health checks
type mockPool struct {
	pingErr error
}

func (m *mockPool) Ping(ctx context.Context) error {
	return m.pingErr
}

func checkHealth(t *testing.T, h *HealthHandler) (int, map[string]string) {
	t.Helper()
	app := fiber.New()
	app.Get("/health", h.Check)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestHealthHandler_Check_Connected(t *testing.T) {
	h := NewHealthHandler(&mockPool{})
	h.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

	status, body := checkHealth(t, h)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, ServiceName, body["service"])
	assert.Equal(t, "connected", body["database"])
	assert.Equal(t, "2024-06-01T12:00:00Z", body["timestamp"])
}

func TestHealthHandler_Check_DatabaseDown(t *testing.T) {
	h := NewHealthHandler(&mockPool{pingErr: errors.New("connection refused")})

	status, body := checkHealth(t, h)

	// Liveness stays 200 so webhooks keep being routed here.
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "disconnected", body["database"])
}

func TestHealthHandler_Check_NoDatabase(t *testing.T) {
	status, body := checkHealth(t, NewHealthHandler(nil))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "unknown", body["database"])
	_, err := time.Parse(time.RFC3339, body["timestamp"])
	assert.NoError(t, err)
}
