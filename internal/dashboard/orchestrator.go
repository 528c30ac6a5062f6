// Package dashboard aggregates the report sources into one state per filter
// and derives the values the renderers and exporters read.
package dashboard

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"agriconsole/internal/config"
	"agriconsole/internal/infrastructure"
	"agriconsole/internal/sources"
	"agriconsole/pkg/contracts/domain"
)

// Loader settles one report request. *sources.Adapter implements it.
type Loader interface {
	Load(ctx context.Context, req domain.ReportRequest) sources.Settled
}

// Orchestrator runs aggregation cycles
type Orchestrator struct {
	loader        Loader
	maxTrendDays  int
	topItemsLimit int
	location      *time.Location
	logger        *slog.Logger
	metrics       *infrastructure.DashboardMetrics
	tracer        trace.Tracer

	generation atomic.Uint64
	version    atomic.Uint64
}

// OrchestratorOption configures an Orchestrator
type OrchestratorOption func(*Orchestrator)

// WithMetrics records cycle metrics
func WithMetrics(m *infrastructure.DashboardMetrics) OrchestratorOption {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithTracer records one span per cycle and per source
func WithTracer(t trace.Tracer) OrchestratorOption {
	return func(o *Orchestrator) {
		if t != nil {
			o.tracer = t
		}
	}
}

// NewOrchestrator creates an orchestrator over a loader
func NewOrchestrator(loader Loader, cfg config.ReportsConfig, logger *slog.Logger, opts ...OrchestratorOption) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		loader:        loader,
		maxTrendDays:  cfg.MaxTrendDays,
		topItemsLimit: cfg.TopItemsLimit,
		location:      cfg.Location(),
		logger:        logger.With(slog.String("component", "orchestrator")),
		tracer:        tracenoop.NewTracerProvider().Tracer("dashboard"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Begin allocates the next generation and an empty loading state
func (o *Orchestrator) Begin(filter domain.Filter) *State {
	gen := o.generation.Add(1)
	trendRange := filter.Range.LastDays(o.maxTrendDays)
	return NewState(uuid.NewString(), gen, filter, trendRange)
}

// Run dispatches every source for the filter and returns once all have
// settled. It never fails; failed sources hold the empty default.
func (o *Orchestrator) Run(ctx context.Context, filter domain.Filter) *State {
	state := o.Begin(filter)
	o.Fill(ctx, state)
	return state
}

// Fill populates a state created by Begin. The daily trend is awaited before
// the KPI summary is finalized; all other sources are independent.
func (o *Orchestrator) Fill(ctx context.Context, state *State) {
	ctx, span := o.tracer.Start(ctx, "dashboard.aggregate", trace.WithAttributes(
		attribute.String("cycle.id", state.ID()),
		attribute.Int64("cycle.generation", int64(state.Generation())),
		attribute.String("filter", state.Filter().Key()),
	))
	defer span.End()

	logger := o.logger.With(
		slog.String("cycle_id", state.ID()),
		slog.Uint64("generation", state.Generation()),
		slog.String("filter", state.Filter().Key()),
	)
	logger.DebugContext(ctx, "aggregation started")

	trendDone := make(chan struct{})
	var g errgroup.Group

	for _, kind := range domain.AllKinds {
		g.Go(func() error {
			settled := o.load(ctx, state, kind)

			switch kind {
			case domain.KindDailyTrend:
				if !settled.Defaulted {
					settled.Result = &domain.ReportResult{
						Summary: settled.Result.Summary,
						Rows:    DensifyTrend(settled.Result.Rows, state.TrendRange(), o.location),
					}
				}
				o.store(state, settled)
				close(trendDone)
			case domain.KindItemSummary:
				<-trendDone
				kpi := CalculateKPI(state.Rows(domain.KindDailyTrend), settled.Result)
				settled.Result = finalizeSummary(settled.Result, kpi)
				o.store(state, settled)
				state.setKPI(kpi)
			default:
				o.store(state, settled)
			}
			return nil
		})
	}
	_ = g.Wait()
	state.settle()

	defaulted := state.Defaulted()
	o.metrics.RecordAggregation(ctx, state.Duration(), len(defaulted))
	if len(defaulted) > 0 {
		span.SetStatus(codes.Error, "partial results")
		span.SetAttributes(attribute.Int("sources.defaulted", len(defaulted)))
	}

	kinds := make([]string, len(defaulted))
	for i, k := range defaulted {
		kinds[i] = string(k)
	}
	logger.InfoContext(ctx, "aggregation settled",
		slog.Int("sources", len(domain.AllKinds)),
		slog.Int("ok", len(domain.AllKinds)-len(defaulted)),
		slog.Any("defaulted", kinds),
		slog.Duration("duration", state.Duration()))
}

func (o *Orchestrator) load(ctx context.Context, state *State, kind domain.ReportKind) sources.Settled {
	req := o.request(state, kind)

	ctx, span := o.tracer.Start(ctx, "dashboard.source", trace.WithAttributes(
		attribute.String("report.kind", string(kind)),
	))
	defer span.End()

	settled := o.loader.Load(ctx, req)
	settled.Kind = kind
	if settled.Result == nil {
		settled.Result = domain.EmptyResult()
		settled.Defaulted = true
	}
	if settled.Defaulted {
		span.SetStatus(codes.Error, "defaulted")
		if settled.Err != nil {
			span.RecordError(settled.Err)
		}
	}
	span.SetAttributes(attribute.Int("report.rows", len(settled.Result.Rows)))
	return settled
}

// request builds the fetch for one kind. The trend uses the clamped window
// and top items carries the configured limit.
func (o *Orchestrator) request(state *State, kind domain.ReportKind) domain.ReportRequest {
	filter := state.Filter()
	req := domain.ReportRequest{
		Kind:          kind,
		Range:         filter.Range,
		DistributorID: filter.DistributorID,
	}
	switch kind {
	case domain.KindDailyTrend:
		req.Range = state.TrendRange()
	case domain.KindTopItems:
		req.Limit = o.topItemsLimit
	}
	return req
}

func (o *Orchestrator) store(state *State, settled sources.Settled) {
	state.set(settled.Kind, Slot{
		Result:    settled.Result,
		Version:   o.version.Add(1),
		Defaulted: settled.Defaulted,
	})
}
