// Package charts turns report rows into chart specifications and draws them
// on a surface. Every redraw destroys the previous chart instance first.
package charts

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"agriconsole/internal/config"
	"agriconsole/internal/dashboard"
	"agriconsole/pkg/contracts/domain"
)

// Chart is a mounted chart instance
type Chart interface {
	Destroy()
}

// Surface creates chart instances from specs
type Surface interface {
	Create(name string, spec Spec) (Chart, error)
}

// Renderer owns the chart instances on a surface
type Renderer struct {
	surface Surface
	cfg     config.ChartsConfig
	logger  *slog.Logger

	mu      sync.Mutex
	mounted map[string]Chart
	rng     *rand.Rand
}

// NewRenderer creates a renderer. A zero Seed draws a random seed.
func NewRenderer(surface Surface, cfg config.ChartsConfig, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Renderer{
		surface: surface,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "chart_renderer")),
		mounted: make(map[string]Chart),
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Render destroys the chart called name and, unless rows is empty, creates
// it again from build(rows).
func (r *Renderer) Render(name string, rows []domain.Row, build func([]domain.Row) Spec) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mount(name, len(rows) == 0, func() Spec { return build(rows) })
}

// mount must be called with r.mu held
func (r *Renderer) mount(name string, empty bool, build func() Spec) error {
	if prev, ok := r.mounted[name]; ok {
		prev.Destroy()
		delete(r.mounted, name)
	}
	if empty {
		return nil
	}

	spec := build()
	if spec.Empty() {
		return nil
	}
	chart, err := r.surface.Create(name, spec)
	if err != nil {
		return fmt.Errorf("create chart %s: %w", name, err)
	}
	r.mounted[name] = chart
	return nil
}

// RenderTrend draws the daily sales trend
func (r *Renderer) RenderTrend(rows []domain.Row) error {
	return r.Render(ChartSalesTrend, rows, TrendSpec)
}

// RenderCategories draws the category donut
func (r *Renderer) RenderCategories(rows []domain.Row) error {
	return r.Render(ChartCategorySales, rows, CategorySpec)
}

// RenderDistributors draws the distributor bars
func (r *Renderer) RenderDistributors(rows []domain.Row) error {
	return r.Render(ChartDistributorSales, rows, DistributorSpec)
}

// RenderPaymentStatus draws the payment status donut
func (r *Renderer) RenderPaymentStatus(rows []domain.Row) error {
	return r.Render(ChartPaymentStatus, rows, PaymentSpec)
}

// RenderTopItems draws quantity and amount per top item
func (r *Renderer) RenderTopItems(rows []domain.Row) error {
	return r.Render(ChartTopItems, rows, TopItemsSpec)
}

// RenderCropDisease draws the dataset selected by tab
func (r *Renderer) RenderCropDisease(tab Tab, crops, diseases []domain.Row) error {
	rows := crops
	if tab == TabDisease {
		rows = diseases
	}
	return r.Render(ChartCropDisease, rows, func(rows []domain.Row) Spec {
		return CropDiseaseSpec(tab, rows)
	})
}

// RenderTopItemDaily draws the estimated per-day series of the top items
// over the trend's days. It is skipped when disabled in configuration.
func (r *Renderer) RenderTopItemDaily(items, trend []domain.Row) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	days := make([]string, 0, len(trend))
	for _, row := range trend {
		days = append(days, row.String(domain.FieldDate))
	}
	empty := !r.cfg.ApproximateItemSeries || len(items) == 0 || len(days) == 0
	return r.mount(ChartTopItemDaily, empty, func() Spec {
		return ApproximateItemSeries(items, days, r.cfg.Jitter, r.rng)
	})
}

// RenderState redraws every chart from a settled state. Failures of one
// chart do not stop the others.
func (r *Renderer) RenderState(state *dashboard.State, tab Tab) error {
	steps := []struct {
		name string
		run  func() error
	}{
		{ChartSalesTrend, func() error { return r.RenderTrend(state.Rows(domain.KindDailyTrend)) }},
		{ChartCategorySales, func() error { return r.RenderCategories(state.Rows(domain.KindCategorySales)) }},
		{ChartDistributorSales, func() error { return r.RenderDistributors(state.Rows(domain.KindDistributorSales)) }},
		{ChartPaymentStatus, func() error { return r.RenderPaymentStatus(state.Rows(domain.KindPaymentStatus)) }},
		{ChartTopItems, func() error { return r.RenderTopItems(state.Rows(domain.KindTopItems)) }},
		{ChartCropDisease, func() error {
			return r.RenderCropDisease(tab, state.Rows(domain.KindCropSales), state.Rows(domain.KindDiseaseSales))
		}},
		{ChartTopItemDaily, func() error {
			return r.RenderTopItemDaily(state.Rows(domain.KindTopItems), state.Rows(domain.KindDailyTrend))
		}},
	}

	var firstErr error
	for _, step := range steps {
		if err := step.run(); err != nil {
			r.logger.Warn("chart render failed", slog.String("chart", step.name), slog.Any("error", err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Mounted reports whether a chart instance currently exists
func (r *Renderer) Mounted(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.mounted[name]
	return ok
}

// Teardown destroys every mounted chart
func (r *Renderer) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, c := range r.mounted {
		c.Destroy()
		delete(r.mounted, name)
	}
}

// IsKnown reports whether name is a chart this package draws
func IsKnown(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}
