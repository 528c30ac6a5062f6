package dashboard

import (
	"sync"
	"time"

	"agriconsole/pkg/contracts/domain"
)

// Slot is the settled result of one report kind within a cycle
type Slot struct {
	Result    *domain.ReportResult
	Version   uint64
	Defaulted bool
}

// State is the aggregated dashboard for one filter. The orchestrator writes
// each slot once per cycle; everything else reads.
type State struct {
	mu sync.RWMutex

	id          string
	generation  uint64
	filter      domain.Filter
	trendRange  domain.DateRange
	slots       map[domain.ReportKind]Slot
	kpi         domain.KPI
	loading     bool
	chartsReady bool
	startedAt   time.Time
	settledAt   time.Time
}

// NewState creates an empty, loading state for a filter
func NewState(id string, generation uint64, filter domain.Filter, trendRange domain.DateRange) *State {
	return &State{
		id:         id,
		generation: generation,
		filter:     filter,
		trendRange: trendRange,
		slots:      make(map[domain.ReportKind]Slot, len(domain.AllKinds)),
		loading:    true,
		startedAt:  time.Now(),
	}
}

// ID identifies the cycle that produced the state
func (s *State) ID() string { return s.id }

// Generation is the cycle's position in dispatch order
func (s *State) Generation() uint64 { return s.generation }

// Filter returns the parameters shared by all sources
func (s *State) Filter() domain.Filter { return s.filter }

// Range returns the requested date range
func (s *State) Range() domain.DateRange { return s.filter.Range }

// TrendRange returns the clamped window the daily trend covers
func (s *State) TrendRange() domain.DateRange { return s.trendRange }

func (s *State) set(kind domain.ReportKind, slot Slot) {
	s.mu.Lock()
	s.slots[kind] = slot
	s.mu.Unlock()
}

func (s *State) setKPI(k domain.KPI) {
	s.mu.Lock()
	s.kpi = k
	s.mu.Unlock()
}

func (s *State) settle() {
	s.mu.Lock()
	s.loading = false
	s.settledAt = time.Now()
	s.mu.Unlock()
}

// MarkChartsReady records that the render pass after settling has run
func (s *State) MarkChartsReady() {
	s.mu.Lock()
	s.chartsReady = true
	s.mu.Unlock()
}

// Result returns the slot's result, or an empty result if the slot was
// never written.
func (s *State) Result(kind domain.ReportKind) *domain.ReportResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if slot, ok := s.slots[kind]; ok && slot.Result != nil {
		return slot.Result
	}
	return domain.EmptyResult()
}

// Rows is shorthand for Result(kind).Rows
func (s *State) Rows(kind domain.ReportKind) []domain.Row {
	return s.Result(kind).Rows
}

// Slot returns the raw slot and whether it has been written
func (s *State) Slot(kind domain.ReportKind) (Slot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.slots[kind]
	return slot, ok
}

// Version returns the write version of a slot, 0 when unwritten
func (s *State) Version(kind domain.ReportKind) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots[kind].Version
}

// KPI returns the derived headline numbers
func (s *State) KPI() domain.KPI {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kpi
}

// Loading reports whether any source is still in flight
func (s *State) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// ChartsReady reports whether the render pass has run
func (s *State) ChartsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chartsReady
}

// Defaulted lists the kinds that settled to the empty default, in dispatch order
func (s *State) Defaulted() []domain.ReportKind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.ReportKind
	for _, kind := range domain.AllKinds {
		if s.slots[kind].Defaulted {
			out = append(out, kind)
		}
	}
	return out
}

// Duration is the time from dispatch until every source settled
func (s *State) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settledAt.IsZero() {
		return 0
	}
	return s.settledAt.Sub(s.startedAt)
}

// View is the JSON form of a settled state
type View struct {
	ID          string                                     `json:"id"`
	Generation  uint64                                     `json:"generation"`
	From        string                                     `json:"from"`
	To          string                                     `json:"to"`
	TrendFrom   string                                     `json:"trendFrom"`
	Distributor *int                                       `json:"distributorId,omitempty"`
	Loading     bool                                       `json:"loading"`
	ChartsReady bool                                       `json:"chartsReady"`
	KPI         domain.KPI                                 `json:"kpi"`
	Reports     map[domain.ReportKind]*domain.ReportResult `json:"reports"`
	Defaulted   []domain.ReportKind                        `json:"defaulted,omitempty"`
}

// View snapshots the state for serialization
func (s *State) View() View {
	reports := make(map[domain.ReportKind]*domain.ReportResult, len(domain.AllKinds))
	for _, kind := range domain.AllKinds {
		reports[kind] = s.Result(kind)
	}
	return View{
		ID:          s.id,
		Generation:  s.generation,
		From:        s.filter.Range.FromString(),
		To:          s.filter.Range.ToString(),
		TrendFrom:   s.trendRange.FromString(),
		Distributor: s.filter.DistributorID,
		Loading:     s.Loading(),
		ChartsReady: s.ChartsReady(),
		KPI:         s.KPI(),
		Reports:     reports,
		Defaulted:   s.Defaulted(),
	}
}
