package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for report dates (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// DateRange is an inclusive calendar window. Callers guarantee From <= To.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NewDateRange parses two YYYY-MM-DD strings into a DateRange
func NewDateRange(from, to string) (DateRange, error) {
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return DateRange{}, fmt.Errorf("parse from date %q: %w", from, err)
	}
	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return DateRange{}, fmt.Errorf("parse to date %q: %w", to, err)
	}
	return DateRange{From: f, To: t}, nil
}

// Days returns the number of calendar days covered, counting both ends.
func (r DateRange) Days() int {
	from := truncateDay(r.From)
	to := truncateDay(r.To)
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from).Hours()/24) + 1
}

// LastDays returns the trailing window of at most n days ending at To.
func (r DateRange) LastDays(n int) DateRange {
	if n <= 0 || r.Days() <= n {
		return r
	}
	return DateRange{From: truncateDay(r.To).AddDate(0, 0, -(n - 1)), To: r.To}
}

// FromString formats the start date for query strings and filenames
func (r DateRange) FromString() string { return r.From.Format(DateLayout) }

// ToString formats the end date for query strings and filenames
func (r DateRange) ToString() string { return r.To.Format(DateLayout) }

// String implements fmt.Stringer
func (r DateRange) String() string {
	return r.FromString() + ".." + r.ToString()
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Filter is the set of parameters shared by every report source in a cycle.
// A nil DistributorID means all distributors.
type Filter struct {
	Range         DateRange `json:"range"`
	DistributorID *int      `json:"distributorId,omitempty"`
}

// Key identifies the filter for caching and staleness checks
func (f Filter) Key() string {
	if f.DistributorID == nil {
		return f.Range.String() + "|all"
	}
	return fmt.Sprintf("%s|%d", f.Range.String(), *f.DistributorID)
}

// ReportRequest is a single fetch against one report source
type ReportRequest struct {
	Kind          ReportKind `json:"kind"`
	Range         DateRange  `json:"range"`
	DistributorID *int       `json:"distributorId,omitempty"`
	Limit         int        `json:"limit,omitempty"`
}

// ReportResult is the normalized payload of a report source
type ReportResult struct {
	Summary map[string]float64 `json:"summary"`
	Rows    []Row              `json:"rows"`
}

// EmptyResult is the safe default a failed source settles to
func EmptyResult() *ReportResult {
	return &ReportResult{Summary: map[string]float64{}, Rows: []Row{}}
}

// IsEmpty reports whether the result has no rows
func (r *ReportResult) IsEmpty() bool {
	return r == nil || len(r.Rows) == 0
}

// SummaryValue returns a summary number, or zero when absent
func (r *ReportResult) SummaryValue(key string) float64 {
	if r == nil || r.Summary == nil {
		return 0
	}
	return r.Summary[key]
}
