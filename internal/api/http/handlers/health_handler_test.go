package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthy(context.Context) error { return nil }

func TestHealthHandler(t *testing.T) {
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	cases := []struct {
		name     string
		postgres Pinger
		redis    Pinger
		want     int
		redisMsg string
	}{
		{name: "all healthy", postgres: pingerFunc(healthy), redis: pingerFunc(healthy), want: http.StatusOK, redisMsg: "ok"},
		{name: "cache disabled", postgres: pingerFunc(healthy), redis: nil, want: http.StatusOK, redisMsg: "disabled"},
		{name: "redis down", postgres: pingerFunc(healthy), redis: down, want: http.StatusServiceUnavailable, redisMsg: "unreachable"},
		{name: "postgres down", postgres: down, redis: pingerFunc(healthy), want: http.StatusServiceUnavailable, redisMsg: "ok"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler("sla-service", "test", tc.postgres, tc.redis)
			app := fiber.New()
			app.Get("/health/live", h.Live)
			app.Get("/health/ready", h.Ready)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			deps, ok := body["dependencies"].(map[string]any)
			if !ok {
				deps = body["error"].(map[string]any)["details"].(map[string]any)
			}
			assert.Equal(t, tc.redisMsg, deps["redis"])
		})
	}
}
