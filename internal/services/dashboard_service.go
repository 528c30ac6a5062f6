package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"agriconsole/internal/archive"
	"agriconsole/internal/charts"
	"agriconsole/internal/config"
	"agriconsole/internal/dashboard"
	"agriconsole/internal/exporter"
	"agriconsole/internal/geo"
	"agriconsole/internal/infrastructure"
	"agriconsole/internal/treemap"
	"agriconsole/pkg/contracts/domain"
	"agriconsole/pkg/contracts/events"
)

// maxCachedFilters bounds the number of published states kept for reuse by
// chart and export requests
const maxCachedFilters = 16

// Aggregator runs aggregation cycles. *dashboard.Orchestrator implements it.
type Aggregator interface {
	Begin(filter domain.Filter) *dashboard.State
	Fill(ctx context.Context, state *dashboard.State)
}

// Publisher pushes dashboard events to connected clients. *websocket.Hub implements it.
type Publisher interface {
	Broadcast(ctx context.Context, msgType events.MessageType, data any)
}

// Published is a settled state together with the charts drawn from it
type Published struct {
	State       *dashboard.State
	publishedAt time.Time

	width  int
	height int
	format *charts.Formatter

	mu       sync.Mutex
	surface  *charts.SVGSurface
	renderer *charts.Renderer
	tab      charts.Tab
	regions  *dashboard.Memo[geo.Map]
	areas    *dashboard.Memo[[]treemap.Rect]
}

// DashboardService coordinates aggregation, rendering and export
type DashboardService struct {
	aggregator Aggregator
	exports    *exporter.Engine
	formatter  *charts.Formatter
	chartsCfg  config.ChartsConfig
	publisher  Publisher
	archiver   archive.Archiver
	metrics    *infrastructure.DashboardMetrics
	logger     *slog.Logger
	now        func() time.Time

	mu        sync.RWMutex
	current   *Published
	byFilter  map[string]*Published
	published uint64
}

// DashboardOption configures a DashboardService
type DashboardOption func(*DashboardService)

// WithPublisher broadcasts loading and ready events
func WithPublisher(p Publisher) DashboardOption {
	return func(s *DashboardService) { s.publisher = p }
}

// WithArchiver enables archiving of exports
func WithArchiver(a archive.Archiver) DashboardOption {
	return func(s *DashboardService) { s.archiver = a }
}

// WithMetrics records stale cycles and exports
func WithMetrics(m *infrastructure.DashboardMetrics) DashboardOption {
	return func(s *DashboardService) { s.metrics = m }
}

// WithClock replaces time.Now for cache expiry
func WithClock(now func() time.Time) DashboardOption {
	return func(s *DashboardService) { s.now = now }
}

// NewDashboardService creates the dashboard service
func NewDashboardService(aggregator Aggregator, exports *exporter.Engine, formatter *charts.Formatter,
	chartsCfg config.ChartsConfig, logger *slog.Logger, opts ...DashboardOption) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &DashboardService{
		aggregator: aggregator,
		exports:    exports,
		formatter:  formatter,
		chartsCfg:  chartsCfg,
		logger:     logger.With(slog.String("service", "dashboard")),
		byFilter:   make(map[string]*Published),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load runs a fresh aggregation cycle for filter and returns the newest
// published state for it. The cycle runs to completion even if the caller
// goes away; a cycle overtaken by a newer one is discarded.
func (s *DashboardService) Load(ctx context.Context, filter domain.Filter) *Published {
	ctx = infrastructure.EnsureTraceID(ctx)
	state := s.aggregator.Begin(filter)

	s.broadcast(ctx, events.MessageTypeDashboardLoading, events.DashboardLoading{
		ID:         state.ID(),
		Generation: state.Generation(),
		From:       filter.Range.FromString(),
		To:         filter.Range.ToString(),
	})

	s.aggregator.Fill(context.WithoutCancel(ctx), state)

	p := s.newPublished(state)
	p.render()

	if winner, ok := s.publish(p); !ok {
		s.metrics.RecordStaleCycle(ctx)
		s.logger.InfoContext(ctx, "Discarding stale aggregation cycle",
			slog.Uint64("generation", state.Generation()),
			slog.Uint64("published", winner.State.Generation()),
			slog.String("filter", filter.Key()))
		if winner.State.Filter().Key() == filter.Key() {
			return winner
		}
		return p
	}

	s.broadcast(ctx, events.MessageTypeDashboardReady, events.DashboardReady{
		ID:         state.ID(),
		Generation: state.Generation(),
		From:       filter.Range.FromString(),
		To:         filter.Range.ToString(),
		Defaulted:  state.Defaulted(),
		DurationMS: state.Duration().Milliseconds(),
		Charts:     p.Charts(),
	})
	return p
}

// Get returns the published state for filter, running a cycle when none is
// cached or the cached one is older than the configured cache TTL. A
// non-positive TTL keeps entries until they are evicted.
func (s *DashboardService) Get(ctx context.Context, filter domain.Filter) *Published {
	s.mu.RLock()
	p, ok := s.byFilter[filter.Key()]
	s.mu.RUnlock()
	if ok && !s.expired(p) {
		return p
	}
	return s.Load(ctx, filter)
}

func (s *DashboardService) expired(p *Published) bool {
	ttl := s.chartsCfg.CacheTTL
	return ttl > 0 && s.now().Sub(p.publishedAt) >= ttl
}

// Current returns the newest published state, nil before the first cycle
func (s *DashboardService) Current() *Published {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// publish stores p unless a newer generation was already published. It
// returns the state that is current afterwards.
func (s *DashboardService) publish(p *Published) (*Published, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gen := p.State.Generation()
	if gen <= s.published {
		// A same-filter entry from a newer cycle is kept; otherwise an older
		// state may still fill an empty cache slot
		key := p.State.Filter().Key()
		if existing, ok := s.byFilter[key]; !ok || existing.State.Generation() < gen {
			s.cache(key, p)
		}
		return s.current, false
	}

	s.published = gen
	s.current = p
	s.cache(p.State.Filter().Key(), p)
	return p, true
}

// cache must be called with s.mu held
func (s *DashboardService) cache(key string, p *Published) {
	s.byFilter[key] = p
	if len(s.byFilter) <= maxCachedFilters {
		return
	}
	var oldestKey string
	var oldest time.Time
	for k, v := range s.byFilter {
		if v == s.current {
			continue
		}
		if oldestKey == "" || v.publishedAt.Before(oldest) {
			oldestKey, oldest = k, v.publishedAt
		}
	}
	if old := s.byFilter[oldestKey]; old != nil {
		old.teardown()
	}
	delete(s.byFilter, oldestKey)
}

func (s *DashboardService) broadcast(ctx context.Context, t events.MessageType, data any) {
	if s.publisher != nil {
		s.publisher.Broadcast(ctx, t, data)
	}
}

func (s *DashboardService) newPublished(state *dashboard.State) *Published {
	surface := charts.NewSVGSurface(s.chartsCfg.Width, s.chartsCfg.Height, s.formatter)
	f := s.formatter
	return &Published{
		State:       state,
		publishedAt: s.now(),
		width:       s.chartsCfg.Width,
		height:      s.chartsCfg.Height,
		format:      f,
		surface:     surface,
		renderer:    charts.NewRenderer(surface, s.chartsCfg, s.logger),
		tab:         charts.TabCrop,
		regions: dashboard.NewMemo(func(st *dashboard.State) geo.Map {
			return geo.Build(geo.India, geo.SalesByRegion(st.Rows(domain.KindStateSales)), f)
		}, domain.KindStateSales),
		areas: dashboard.NewMemo(func(st *dashboard.State) []treemap.Rect {
			return treemap.Layout(
				treemap.ItemsFromRows(st.Rows(domain.KindAreaSales), domain.FieldArea),
				float64(s.chartsCfg.Width), float64(s.chartsCfg.Height), treemapPadding)
		}, domain.KindAreaSales),
	}
}

// render is the single render pass that follows a settled cycle
func (p *Published) render() {
	p.mu.Lock()
	defer p.mu.Unlock()
	// Failures are logged by the renderer; the remaining charts still draw
	_ = p.renderer.RenderState(p.State, p.tab)
	p.State.MarkChartsReady()
}

func (p *Published) teardown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.renderer.Teardown()
}

// Charts lists the snapshot names available for this state, in page order
func (p *Published) Charts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var names []string
	for _, name := range charts.Names {
		if p.renderer.Mounted(name) {
			names = append(names, name)
		}
	}
	return append(names, ChartStateMap, ChartAreaTreemap)
}
