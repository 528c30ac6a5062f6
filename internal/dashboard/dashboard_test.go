package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriconsole/internal/config"
	"agriconsole/internal/sources"
	"agriconsole/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func mustRange(t *testing.T, from, to string) domain.DateRange {
	t.Helper()
	r, err := domain.NewDateRange(from, to)
	require.NoError(t, err)
	return r
}

// fakeFetcher serves canned rows per kind and fails the kinds in failing
type fakeFetcher struct {
	mu       sync.Mutex
	rows     map[domain.ReportKind][]domain.Row
	summary  map[domain.ReportKind]map[string]float64
	failing  map[domain.ReportKind]bool
	delay    map[domain.ReportKind]time.Duration
	requests []domain.ReportRequest
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		rows:    map[domain.ReportKind][]domain.Row{},
		summary: map[domain.ReportKind]map[string]float64{},
		failing: map[domain.ReportKind]bool{},
		delay:   map[domain.ReportKind]time.Duration{},
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, req domain.ReportRequest) (*domain.ReportResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	delay := f.delay[req.Kind]
	failing := f.failing[req.Kind]
	rows := f.rows[req.Kind]
	summary := f.summary[req.Kind]
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if failing {
		return nil, fmt.Errorf("%s: 500 internal error", req.Kind)
	}
	if summary == nil {
		summary = map[string]float64{}
	}
	return &domain.ReportResult{Summary: summary, Rows: rows}, nil
}

func (f *fakeFetcher) request(kind domain.ReportKind) (domain.ReportRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r.Kind == kind {
			return r, true
		}
	}
	return domain.ReportRequest{}, false
}

func newOrchestrator(f sources.Fetcher) *Orchestrator {
	return NewOrchestrator(sources.NewAdapter(f, testLogger(), nil), config.Default().Reports, testLogger())
}

func TestCalculateKPI(t *testing.T) {
	trend := []domain.Row{
		{domain.FieldTotalSales: 100.0, domain.FieldTotalInvoices: 2.0},
		{domain.FieldTotalSales: 300.0, domain.FieldTotalInvoices: 2.0},
	}
	summary := &domain.ReportResult{Summary: map[string]float64{
		domain.SummaryTotalCustomers: 9,
		domain.SummaryTotalSales:     999999,
	}}

	k := CalculateKPI(trend, summary)

	assert.Equal(t, 400.0, k.TotalSales)
	assert.Equal(t, 4.0, k.TotalOrders)
	assert.Equal(t, 100.0, k.AvgOrderValue)
	assert.Equal(t, 9.0, k.TotalCustomers)
}

func TestCalculateKPI_Empty(t *testing.T) {
	assert.Equal(t, domain.KPI{}, CalculateKPI(nil, nil))
	assert.Equal(t, domain.KPI{}, CalculateKPI([]domain.Row{}, domain.EmptyResult()))

	k := CalculateKPI([]domain.Row{{domain.FieldTotalSales: "abc", domain.FieldTotalInvoices: 0.0}}, nil)
	assert.Zero(t, k.AvgOrderValue)
}

func TestDensifyTrend(t *testing.T) {
	window := mustRange(t, "2024-03-01", "2024-03-05")
	rows := []domain.Row{
		{domain.FieldDate: "2024-03-02", domain.FieldTotalSales: 50.0, domain.FieldTotalInvoices: 1.0},
		{domain.FieldDate: "2024-03-02T00:00:00.000Z", domain.FieldTotalSales: "25", domain.FieldTotalInvoices: 1.0},
		{domain.FieldDate: "2024-02-20", domain.FieldTotalSales: 1000.0},
		{domain.FieldDate: "not a date", domain.FieldTotalSales: 1000.0},
		{domain.FieldDate: "2024-03-05", domain.FieldTotalSales: 10.0, domain.FieldTotalInvoices: 3.0},
	}

	out := DensifyTrend(rows, window, time.UTC)

	require.Len(t, out, 5)
	assert.Equal(t, "2024-03-01", out[0].String(domain.FieldDate))
	assert.Zero(t, out[0].Number(domain.FieldTotalSales))
	assert.Equal(t, 75.0, out[1].Number(domain.FieldTotalSales))
	assert.Equal(t, 2.0, out[1].Number(domain.FieldTotalInvoices))
	assert.Equal(t, "2024-03-05", out[4].String(domain.FieldDate))
	assert.Equal(t, 3.0, out[4].Number(domain.FieldTotalInvoices))
}

func TestDensifyTrend_TimestampsUseReportTimezone(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	window := mustRange(t, "2024-03-01", "2024-03-05")
	rows := []domain.Row{
		// local midnight of 5 March sent as a UTC instant
		{domain.FieldDate: "2024-03-04T18:30:00.000Z", domain.FieldTotalSales: 70.0, domain.FieldTotalInvoices: 1.0},
		{domain.FieldDate: "2024-03-02", domain.FieldTotalSales: 20.0},
	}

	out := DensifyTrend(rows, window, ist)
	require.Len(t, out, 5)
	assert.Equal(t, 20.0, out[1].Number(domain.FieldTotalSales))
	assert.Zero(t, out[3].Number(domain.FieldTotalSales))
	assert.Equal(t, "2024-03-05", out[4].String(domain.FieldDate))
	assert.Equal(t, 70.0, out[4].Number(domain.FieldTotalSales))

	utc := DensifyTrend(rows, window, time.UTC)
	assert.Equal(t, 70.0, utc[3].Number(domain.FieldTotalSales), "UTC keys the instant to the previous day")
}

func TestRun_TrendWindowClamp(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		wantDays int
		wantFrom string
	}{
		{"single day", "2024-03-10", "2024-03-10", 1, "2024-03-10"},
		{"under limit", "2024-03-01", "2024-03-20", 20, "2024-03-01"},
		{"exactly limit", "2024-03-01", "2024-03-30", 30, "2024-03-01"},
		{"quarter", "2024-01-01", "2024-03-31", 30, "2024-03-02"},
		{"year", "2023-01-01", "2023-12-31", 30, "2023-12-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeFetcher()
			f.rows[domain.KindDailyTrend] = []domain.Row{
				{domain.FieldDate: tt.to, domain.FieldTotalSales: 10.0, domain.FieldTotalInvoices: 1.0},
			}

			state := newOrchestrator(f).Run(context.Background(), domain.Filter{Range: mustRange(t, tt.from, tt.to)})

			rows := state.Rows(domain.KindDailyTrend)
			assert.Len(t, rows, tt.wantDays)
			assert.Equal(t, tt.wantFrom, rows[0].String(domain.FieldDate))
			assert.Equal(t, tt.to, rows[len(rows)-1].String(domain.FieldDate))

			req, ok := f.request(domain.KindDailyTrend)
			require.True(t, ok)
			assert.Equal(t, tt.wantFrom, req.Range.FromString())

			other, ok := f.request(domain.KindCategorySales)
			require.True(t, ok)
			assert.Equal(t, tt.from, other.Range.FromString(), "only the trend is clamped")
		})
	}
}

func TestRun_PartialFailureTolerance(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 25; i++ {
		f := newFakeFetcher()
		for _, kind := range domain.AllKinds {
			f.rows[kind] = []domain.Row{{domain.FieldTotalAmount: 1.0, domain.FieldDate: "2024-03-01"}}
			f.failing[kind] = rng.IntN(2) == 0
		}

		state := newOrchestrator(f).Run(context.Background(), domain.Filter{Range: mustRange(t, "2024-03-01", "2024-03-03")})

		require.False(t, state.Loading())
		for _, kind := range domain.AllKinds {
			slot, written := state.Slot(kind)
			require.True(t, written, "slot %s must be written", kind)
			require.NotNil(t, slot.Result)
			assert.NotNil(t, slot.Result.Summary)
			assert.Equal(t, f.failing[kind], slot.Defaulted, kind)
			if f.failing[kind] {
				assert.Empty(t, slot.Result.Rows, kind)
			}
		}
	}
}

func TestRun_AllSourcesFail(t *testing.T) {
	f := newFakeFetcher()
	for _, kind := range domain.AllKinds {
		f.failing[kind] = true
	}

	state := newOrchestrator(f).Run(context.Background(), domain.Filter{Range: mustRange(t, "2024-03-01", "2024-03-31")})

	assert.False(t, state.Loading())
	assert.Len(t, state.Defaulted(), len(domain.AllKinds))
	assert.Equal(t, domain.KPI{}, state.KPI())
	for _, kind := range domain.AllKinds {
		for _, row := range state.Rows(kind) {
			assert.Zero(t, row.Number(domain.FieldTotalSales), "kind %s", kind)
		}
	}
}

func TestRun_KPIWaitsForTrend(t *testing.T) {
	f := newFakeFetcher()
	f.delay[domain.KindDailyTrend] = 50 * time.Millisecond
	f.rows[domain.KindDailyTrend] = []domain.Row{
		{domain.FieldDate: "2024-03-01", domain.FieldTotalSales: 100.0, domain.FieldTotalInvoices: 2.0},
		{domain.FieldDate: "2024-03-02", domain.FieldTotalSales: 300.0, domain.FieldTotalInvoices: 2.0},
	}
	f.summary[domain.KindItemSummary] = map[string]float64{
		domain.SummaryTotalCustomers: 3,
		domain.SummaryTotalSales:     1,
		domain.SummaryTotalOrders:    1,
	}

	state := newOrchestrator(f).Run(context.Background(), domain.Filter{Range: mustRange(t, "2024-03-01", "2024-03-02")})

	k := state.KPI()
	assert.Equal(t, 400.0, k.TotalSales, "totals come from the trend, not the summary")
	assert.Equal(t, 4.0, k.TotalOrders)
	assert.Equal(t, 100.0, k.AvgOrderValue)
	assert.Equal(t, 3.0, k.TotalCustomers)

	summary := state.Result(domain.KindItemSummary)
	require.NotNil(t, summary)
	assert.Equal(t, 400.0, summary.SummaryValue(domain.SummaryTotalSales), "summary totals agree with the KPI")
	assert.Equal(t, 4.0, summary.SummaryValue(domain.SummaryTotalOrders))
	assert.Equal(t, 3.0, summary.SummaryValue(domain.SummaryTotalCustomers))
	assert.Equal(t, 1.0, f.summary[domain.KindItemSummary][domain.SummaryTotalSales], "source result is not mutated")
}

func TestFinalizeSummary_Nil(t *testing.T) {
	out := finalizeSummary(nil, domain.KPI{TotalSales: 10, TotalOrders: 2})
	assert.Equal(t, 10.0, out.SummaryValue(domain.SummaryTotalSales))
	assert.Equal(t, 2.0, out.SummaryValue(domain.SummaryTotalOrders))
	assert.NotNil(t, out.Rows)
}

func TestRun_RequestParameters(t *testing.T) {
	f := newFakeFetcher()
	id := 42

	newOrchestrator(f).Run(context.Background(), domain.Filter{
		Range:         mustRange(t, "2024-03-01", "2024-03-31"),
		DistributorID: &id,
	})

	require.Len(t, f.requests, len(domain.AllKinds))
	for _, req := range f.requests {
		require.NotNil(t, req.DistributorID)
		assert.Equal(t, 42, *req.DistributorID)
		if req.Kind == domain.KindTopItems {
			assert.Equal(t, 10, req.Limit)
		} else {
			assert.Zero(t, req.Limit)
		}
	}
}

func TestRun_ConcurrentDispatch(t *testing.T) {
	var inFlight, peak atomic.Int32
	fetcher := sources.FetcherFunc(func(ctx context.Context, req domain.ReportRequest) (*domain.ReportResult, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		return domain.EmptyResult(), nil
	})

	newOrchestrator(fetcher).Run(context.Background(), domain.Filter{Range: mustRange(t, "2024-03-01", "2024-03-02")})

	assert.Greater(t, peak.Load(), int32(1))
}

func TestRun_GenerationsAndVersions(t *testing.T) {
	o := newOrchestrator(newFakeFetcher())
	filter := domain.Filter{Range: mustRange(t, "2024-03-01", "2024-03-02")}

	a := o.Run(context.Background(), filter)
	b := o.Run(context.Background(), filter)

	assert.Less(t, a.Generation(), b.Generation())
	assert.NotEqual(t, a.ID(), b.ID())
	for _, kind := range domain.AllKinds {
		assert.NotZero(t, a.Version(kind))
		assert.Less(t, a.Version(kind), b.Version(kind))
	}
}

func TestMemo(t *testing.T) {
	f := newFakeFetcher()
	f.rows[domain.KindStateSales] = []domain.Row{{domain.FieldState: "Kerala", domain.FieldTotalAmount: 5.0}}
	o := newOrchestrator(f)
	state := o.Run(context.Background(), domain.Filter{Range: mustRange(t, "2024-03-01", "2024-03-02")})

	memo := NewMemo(func(s *State) int { return len(s.Rows(domain.KindStateSales)) }, domain.KindStateSales)

	assert.Equal(t, 1, memo.Get(state))
	assert.Equal(t, 1, memo.Get(state))
	assert.Equal(t, 1, memo.Computes())

	o.store(state, sources.Settled{Kind: domain.KindCategorySales, Result: domain.EmptyResult()})
	memo.Get(state)
	assert.Equal(t, 1, memo.Computes(), "unrelated slot write does not recompute")

	o.store(state, sources.Settled{Kind: domain.KindStateSales, Result: domain.EmptyResult()})
	assert.Equal(t, 0, memo.Get(state))
	assert.Equal(t, 2, memo.Computes())

	next := o.Run(context.Background(), state.Filter())
	assert.Equal(t, 1, memo.Get(next))
	assert.Equal(t, 3, memo.Computes())
}

func TestStateView(t *testing.T) {
	f := newFakeFetcher()
	f.failing[domain.KindGSTAnalysis] = true
	state := newOrchestrator(f).Run(context.Background(), domain.Filter{Range: mustRange(t, "2024-01-01", "2024-03-31")})
	state.MarkChartsReady()

	v := state.View()
	assert.Equal(t, "2024-01-01", v.From)
	assert.Equal(t, "2024-03-02", v.TrendFrom)
	assert.True(t, v.ChartsReady)
	assert.False(t, v.Loading)
	assert.Len(t, v.Reports, len(domain.AllKinds))
	assert.Equal(t, []domain.ReportKind{domain.KindGSTAnalysis}, v.Defaulted)
}

func TestFetcherErrorIsNotSurfaced(t *testing.T) {
	fetcher := sources.FetcherFunc(func(ctx context.Context, req domain.ReportRequest) (*domain.ReportResult, error) {
		return nil, errors.New("boom")
	})
	assert.NotPanics(t, func() {
		newOrchestrator(fetcher).Run(context.Background(), domain.Filter{Range: mustRange(t, "2024-03-01", "2024-03-01")})
	})
}
