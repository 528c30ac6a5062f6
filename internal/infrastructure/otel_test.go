package infrastructure

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriconsole/internal/config"
)

func TestOTelInitialization(t *testing.T) {
	logger := NewLogger(io.Discard, "error")

	providers, err := InitializeOTel(config.TelemetryConfig{
		Environment:   "test",
		EnableMetrics: true,
		SampleRatio:   1,
	}, logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.NotNil(t, providers.Meter)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.MeterProvider)
	assert.Nil(t, providers.TracerProvider, "tracing disabled")
	assert.NotNil(t, providers.PrometheusHTTP)
}

func TestPrometheusEndpoint(t *testing.T) {
	logger := NewLogger(io.Discard, "error")
	providers, err := InitializeOTel(config.TelemetryConfig{
		Environment:   "test",
		EnableMetrics: true,
		SampleRatio:   1,
	}, logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := NewDashboardMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordSourceFetch(ctx, "category-sales", OutcomeOK, 10*time.Millisecond)
	metrics.RecordSourceFetch(ctx, "state-sales", OutcomeDefaulted, 5*time.Millisecond)
	metrics.RecordAggregation(ctx, 40*time.Millisecond, 1)
	metrics.RecordStaleCycle(ctx)
	metrics.RecordExport(ctx, "csv")

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "dashboard_source_fetch_total")
	assert.Contains(t, body, `outcome="defaulted"`)
	assert.Contains(t, body, "dashboard_stale_cycles_total")
	assert.Contains(t, body, `format="csv"`)
}

func TestNoopProviders(t *testing.T) {
	providers := NoopProviders(nil)
	require.NotNil(t, providers.Meter)
	assert.NoError(t, providers.Shutdown(context.Background()))

	metrics, err := NewDashboardMetrics(providers.Meter)
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		metrics.RecordHTTPRequest(context.Background(), http.MethodGet, "/api/dashboard", 200, time.Millisecond)
	})
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *DashboardMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		metrics.RecordSourceFetch(ctx, "top-items", OutcomeOK, time.Second)
		metrics.RecordAggregation(ctx, time.Second, 0)
		metrics.RecordStaleCycle(ctx)
		metrics.RecordExport(ctx, "pdf")
		metrics.RecordHTTPRequest(ctx, http.MethodGet, "/", 200, time.Second)
	})
}

func TestTracingEnabled(t *testing.T) {
	logger := NewLogger(io.Discard, "error")
	providers, err := InitializeOTel(config.TelemetryConfig{
		Environment:   "test",
		EnableTracing: true,
		SampleRatio:   0,
	}, logger)
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.TracerProvider)
	_, span := providers.Tracer.Start(context.Background(), "aggregate")
	span.End()
	assert.False(t, span.SpanContext().IsSampled())
}
