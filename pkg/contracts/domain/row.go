package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Row is one record of a report. Values are strings, numbers or ISO date
// strings as decoded from JSON.
type Row map[string]any

// String returns the field as text. Missing and null values yield "".
func (r Row) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return decimal.NewFromFloat(t).String()
	case int:
		return fmt.Sprintf("%d", t)
	case int64:
		return fmt.Sprintf("%d", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(t)
	}
}

// Has reports whether the field is present and non-null
func (r Row) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// Number returns the field as a float64. Malformed or missing values read as 0.
func (r Row) Number(key string) float64 {
	v, ok := r[key]
	if !ok || v == nil {
		return 0
	}
	return ParseNumber(v)
}

// Date parses the field as a calendar day in UTC. See DateIn.
func (r Row) Date(key string) (time.Time, bool) {
	return r.DateIn(key, time.UTC)
}

// DateIn parses the field as a calendar day in loc and returns midnight of
// that day. A plain YYYY-MM-DD names the day directly. A timestamp carrying
// an offset is converted to loc first, so local midnight sent as a UTC
// instant keys to the local day.
func (r Row) DateIn(key string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	s := r.String(key)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.ParseInLocation(DateLayout, s, loc); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		y, m, d := t.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), true
	}
	if len(s) >= len(DateLayout) {
		if t, err := time.ParseInLocation(DateLayout, s[:len(DateLayout)], loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumber converts a decoded JSON scalar to float64 without failing.
// Non-numeric strings, NaN and infinities become 0.
func ParseNumber(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case json.Number:
		f = parseDecimal(t.String())
	case string:
		f = parseDecimal(t)
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseDecimal(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
