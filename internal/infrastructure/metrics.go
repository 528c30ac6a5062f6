package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Source fetch outcomes
const (
	OutcomeOK        = "ok"
	OutcomeDefaulted = "defaulted"
)

// DashboardMetrics holds the instruments recorded by the dashboard engine.
// A nil *DashboardMetrics records nothing.
type DashboardMetrics struct {
	sourceFetches       metric.Int64Counter
	sourceDuration      metric.Float64Histogram
	aggregationDuration metric.Float64Histogram
	staleCycles         metric.Int64Counter
	exports             metric.Int64Counter
	httpRequests        metric.Int64Counter
	httpDuration        metric.Float64Histogram
}

// NewDashboardMetrics creates application-specific metrics
func NewDashboardMetrics(meter metric.Meter) (*DashboardMetrics, error) {
	m := &DashboardMetrics{}
	var err error

	if m.sourceFetches, err = meter.Int64Counter(
		"dashboard_source_fetch_total",
		metric.WithDescription("Report source fetches by kind and outcome"),
	); err != nil {
		return nil, err
	}

	if m.sourceDuration, err = meter.Float64Histogram(
		"dashboard_source_fetch_duration_seconds",
		metric.WithDescription("Report source fetch duration"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.aggregationDuration, err = meter.Float64Histogram(
		"dashboard_aggregation_duration_seconds",
		metric.WithDescription("Time until all report sources settled"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.staleCycles, err = meter.Int64Counter(
		"dashboard_stale_cycles_total",
		metric.WithDescription("Aggregation cycles discarded because a newer one was published"),
	); err != nil {
		return nil, err
	}

	if m.exports, err = meter.Int64Counter(
		"dashboard_exports_total",
		metric.WithDescription("Exports produced by format"),
	); err != nil {
		return nil, err
	}

	if m.httpRequests, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.httpDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordSourceFetch counts one settled source fetch
func (m *DashboardMetrics) RecordSourceFetch(ctx context.Context, kind, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	)
	m.sourceFetches.Add(ctx, 1, attrs)
	m.sourceDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordAggregation records the duration of a whole cycle
func (m *DashboardMetrics) RecordAggregation(ctx context.Context, d time.Duration, defaulted int) {
	if m == nil {
		return
	}
	m.aggregationDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(attribute.Bool("partial", defaulted > 0)))
}

// RecordStaleCycle counts a discarded cycle
func (m *DashboardMetrics) RecordStaleCycle(ctx context.Context) {
	if m == nil {
		return
	}
	m.staleCycles.Add(ctx, 1)
}

// RecordExport counts a produced export
func (m *DashboardMetrics) RecordExport(ctx context.Context, format string) {
	if m == nil {
		return
	}
	m.exports.Add(ctx, 1, metric.WithAttributes(attribute.String("format", format)))
}

// RecordHTTPRequest records a served request
func (m *DashboardMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	m.httpRequests.Add(ctx, 1, attrs)
	m.httpDuration.Record(ctx, d.Seconds(), attrs)
}
