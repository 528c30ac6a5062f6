package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"float", 12.5, 12.5},
		{"int", 7, 7},
		{"numeric string", "1234.56", 1234.56},
		{"thousands separators", "1,234.50", 1234.5},
		{"padded string", "  42 ", 42},
		{"malformed string", "12abc", 0},
		{"empty string", "", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
		{"NaN", math.NaN(), 0},
		{"infinity", math.Inf(1), 0},
		{"json number", json.Number("99.75"), 99.75},
		{"overflowing json number", json.Number("1e400"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ParseNumber(tt.input), 1e-9)
		})
	}
}

func TestRow_Accessors(t *testing.T) {
	row := Row{
		FieldDate:        "2024-03-05T00:00:00.000Z",
		FieldTotalSales:  "not a number",
		FieldTotalAmount: 1500.0,
		FieldCategory:    nil,
		FieldCount:       3.0,
	}

	assert.Equal(t, float64(0), row.Number(FieldTotalSales))
	assert.Equal(t, 1500.0, row.Number(FieldTotalAmount))
	assert.Equal(t, "", row.String(FieldCategory))
	assert.Equal(t, "", row.String("missing"))
	assert.Equal(t, "3", row.String(FieldCount))
	assert.False(t, row.Has(FieldCategory))
	assert.True(t, row.Has(FieldCount))

	d, ok := row.Date(FieldDate)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), d.UTC())
}

func TestRow_DateIn(t *testing.T) {
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
		loc   *time.Location
		want  string
	}{
		{"plain date stays put in IST", "2024-03-05", ist, "2024-03-05"},
		{"plain date stays put west of UTC", "2024-03-05", ny, "2024-03-05"},
		{"utc instant at local midnight", "2024-03-04T18:30:00.000Z", ist, "2024-03-05"},
		{"utc instant in utc", "2024-03-04T18:30:00.000Z", time.UTC, "2024-03-04"},
		{"offset timestamp", "2024-03-05T00:00:00+05:30", ist, "2024-03-05"},
		{"nil location means utc", "2024-03-05T01:00:00Z", nil, "2024-03-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Row{FieldDate: tt.value}.DateIn(FieldDate, tt.loc)
			require.True(t, ok)
			assert.Equal(t, tt.want, d.Format(DateLayout))
			assert.Zero(t, d.Hour())
		})
	}

	_, ok := Row{FieldDate: "soon"}.DateIn(FieldDate, ist)
	assert.False(t, ok)
}

func TestDateRange_DaysAndClamp(t *testing.T) {
	r, err := NewDateRange("2024-01-01", "2024-03-31")
	require.NoError(t, err)
	assert.Equal(t, 91, r.Days())

	clamped := r.LastDays(30)
	assert.Equal(t, 30, clamped.Days())
	assert.Equal(t, "2024-03-02", clamped.FromString())
	assert.Equal(t, "2024-03-31", clamped.ToString())

	short, err := NewDateRange("2024-01-01", "2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, short, short.LastDays(30))

	_, err = NewDateRange("2024/01/01", "2024-01-10")
	assert.Error(t, err)
}

func TestFilter_Key(t *testing.T) {
	r, _ := NewDateRange("2024-01-01", "2024-01-31")
	id := 7
	assert.Equal(t, "2024-01-01..2024-01-31|all", Filter{Range: r}.Key())
	assert.Equal(t, "2024-01-01..2024-01-31|7", Filter{Range: r, DistributorID: &id}.Key())
}
