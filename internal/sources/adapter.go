package sources

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"agriconsole/internal/infrastructure"
	"agriconsole/pkg/contracts/domain"
)

// Settled is the outcome of one source fetch after failure handling
type Settled struct {
	Kind      domain.ReportKind
	Result    *domain.ReportResult
	Err       error
	Defaulted bool
	Duration  time.Duration
}

// Adapter turns fetch failures into the empty default result. Failures are
// logged at WARN and counted, never returned.
type Adapter struct {
	fetcher Fetcher
	logger  *slog.Logger
	metrics *infrastructure.DashboardMetrics
}

// NewAdapter wraps a Fetcher. metrics may be nil.
func NewAdapter(fetcher Fetcher, logger *slog.Logger, metrics *infrastructure.DashboardMetrics) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{
		fetcher: fetcher,
		logger:  logger.With(slog.String("component", "report_source")),
		metrics: metrics,
	}
}

// Load fetches a report and always settles with a usable result
func (a *Adapter) Load(ctx context.Context, req domain.ReportRequest) Settled {
	start := time.Now()
	result, err := a.safeFetch(ctx, req)
	out := Settled{Kind: req.Kind, Result: result, Err: err, Duration: time.Since(start)}

	if err != nil || result == nil {
		out.Result = domain.EmptyResult()
		out.Defaulted = true
		a.logger.WarnContext(ctx, "report source failed, using empty result",
			slog.String("kind", string(req.Kind)),
			slog.String("range", req.Range.String()),
			slog.Duration("duration", out.Duration),
			slog.Any("error", err))
		a.metrics.RecordSourceFetch(ctx, string(req.Kind), infrastructure.OutcomeDefaulted, out.Duration)
		return out
	}

	a.logger.DebugContext(ctx, "report source settled",
		slog.String("kind", string(req.Kind)),
		slog.Int("rows", len(result.Rows)),
		slog.Duration("duration", out.Duration))
	a.metrics.RecordSourceFetch(ctx, string(req.Kind), infrastructure.OutcomeOK, out.Duration)
	return out
}

// safeFetch converts a panicking fetcher into an error
func (a *Adapter) safeFetch(ctx context.Context, req domain.ReportRequest) (result *domain.ReportResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &panicError{value: rec}
		}
	}()
	return a.fetcher.Fetch(ctx, req)
}

type panicError struct{ value any }

func (p *panicError) Error() string {
	return fmt.Sprintf("report source panicked: %v", p.value)
}
