package dashboard

import (
	"slices"
	"sync"

	"agriconsole/pkg/contracts/domain"
)

// Memo caches a value derived from a state and recomputes it only when one
// of the declared input slots has been rewritten.
type Memo[T any] struct {
	mu       sync.Mutex
	deps     []domain.ReportKind
	compute  func(*State) T
	versions []uint64
	state    *State
	value    T
	valid    bool
	computes int
}

// NewMemo declares a derived value over the given slots
func NewMemo[T any](compute func(*State) T, deps ...domain.ReportKind) *Memo[T] {
	return &Memo[T]{deps: deps, compute: compute}
}

// Get returns the cached value or recomputes it
func (m *Memo[T]) Get(s *State) T {
	versions := make([]uint64, len(m.deps))
	for i, kind := range m.deps {
		versions[i] = s.Version(kind)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.valid && m.state == s && slices.Equal(m.versions, versions) {
		return m.value
	}
	m.value = m.compute(s)
	m.versions = versions
	m.state = s
	m.valid = true
	m.computes++
	return m.value
}

// Computes reports how many times the value has been recomputed
func (m *Memo[T]) Computes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.computes
}
