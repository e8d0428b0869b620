package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/sla/compliance", "GET", 200, 15*time.Millisecond)
	m.RecordRequest("/sla/compliance", "GET", 200, 5*time.Millisecond)
	m.RecordError("/sla/compliance", "GET", "VALIDATION_FAILED")
	m.RecordCache(true)
	m.RecordCache(false)
	m.RecordCache(false)
	m.RecordDataWarning("missing_created_at")
	m.SetCompliance("all", 75)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCount.WithLabelValues("/sla/compliance", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorCount.WithLabelValues("/sla/compliance", "GET", "VALIDATION_FAILED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheResults.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheResults.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dataWarnings.WithLabelValues("missing_created_at")))
	assert.Equal(t, 75.0, testutil.ToFloat64(m.compliancePct.WithLabelValues("all")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordReport("compliance", time.Second)
		m.RecordCache(true)
		m.RecordDataWarning("x")
		m.SetCompliance("all", 1)
	})
	assert.Nil(t, m.Registry())
}

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), NewMetrics()))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString(RequestID(c))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
}
