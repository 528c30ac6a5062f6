package geo

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriconsole/internal/charts"
	"agriconsole/pkg/contracts/domain"
)

func testFormatter() *charts.Formatter {
	return charts.NewFormatter("₹", "en-US")
}

func TestNormalize(t *testing.T) {
	want := Normalize("Madhya Pradesh")
	assert.Equal(t, "madhyapradesh", want)
	assert.Equal(t, want, Normalize("madhya-pradesh!!"))
	assert.Equal(t, want, Normalize("MADHYAPRADESH"))
	assert.Equal(t, want, Normalize("  Madhya_Pradesh 2 "))

	for _, s := range []string{"Tamil Nadu", "J&K", "Dadra & Nagar Haveli", "", "123", "Ōdishā"} {
		once := Normalize(s)
		assert.Equal(t, once, Normalize(once), "idempotent for %q", s)
	}
}

func TestKeyAliases(t *testing.T) {
	assert.Equal(t, "odisha", Key("Orissa"))
	assert.Equal(t, "jammuandkashmir", Key("Jammu & Kashmir"))
	assert.Equal(t, "delhi", Key("NCT of Delhi"))
	assert.Equal(t, "kerala", Key("KERALA"))
}

func TestCatalogIsUnique(t *testing.T) {
	keys := map[string]bool{}
	cells := map[string]bool{}
	for _, r := range India {
		k := Key(r.Name)
		assert.False(t, keys[k], "duplicate region %s", r.Name)
		keys[k] = true

		cell := fmt.Sprintf("%d,%d", r.Col, r.Row)
		assert.False(t, cells[cell], "overlapping tile %s", r.Name)
		cells[cell] = true
	}
	assert.Len(t, India, 36)
}

func TestBuild_MatchesAndColors(t *testing.T) {
	m := Build(India, map[string]float64{
		"madhya-pradesh!!": 500,
		"KERALA":           1000,
		"Atlantis":         99,
	}, testFormatter())

	assert.Equal(t, [2]float64{0, 1000}, m.Domain)
	assert.Equal(t, []string{"Atlantis"}, m.Unmatched)

	kerala, ok := m.Region("Kerala")
	require.True(t, ok)
	assert.True(t, kerala.Matched)
	assert.Equal(t, ScaleStops[2], kerala.Color, "max value gets the high stop")
	assert.Equal(t, "Kerala: ₹1,000", kerala.Tooltip)

	mp, _ := m.Region("Madhya Pradesh")
	assert.Equal(t, ScaleStops[1], mp.Color, "half of max gets the mid stop")

	goa, _ := m.Region("Goa")
	assert.False(t, goa.Matched)
	assert.Equal(t, NoDataColor, goa.Color)
	assert.Equal(t, "Goa: No data", goa.Tooltip)
}

func TestBuild_UnmatchedIsSorted(t *testing.T) {
	sales := map[string]float64{
		"Zanzibar": 1, "Atlantis": 2, "Mordor": 3, "Lilliput": 4, "Kerala": 5,
	}
	for range 20 {
		m := Build(India, sales, testFormatter())
		assert.Equal(t, []string{"Atlantis", "Lilliput", "Mordor", "Zanzibar"}, m.Unmatched)
	}
}

func TestBuild_UnmatchedAlwaysNeutral(t *testing.T) {
	for _, high := range []float64{1, 1e3, 1e9, 1e15} {
		sales := map[string]float64{}
		for _, r := range India {
			if r.Name != "Sikkim" {
				sales[strings.ToUpper(r.Name)] = high
			}
		}
		m := Build(India, sales, testFormatter())

		sikkim, ok := m.Region("Sikkim")
		require.True(t, ok)
		assert.Equal(t, NoDataColor, sikkim.Color)
		for _, r := range m.Regions {
			if r.Name != "Sikkim" {
				assert.NotEqual(t, NoDataColor, r.Color)
			}
		}
	}
}

func TestBuild_NeutralIsNotOnScale(t *testing.T) {
	s := Scale{Max: 100}
	for v := 0.0; v <= 100; v += 5 {
		assert.NotEqual(t, NoDataColor, s.Color(v))
	}
	assert.Equal(t, ScaleStops[0], s.Color(0))
}

func TestBuild_EmptySales(t *testing.T) {
	m := Build(India, nil, testFormatter())

	assert.Equal(t, [2]float64{0, 1}, m.Domain)
	assert.Equal(t, 0.0, m.Legend.Min)
	assert.Equal(t, 1.0, m.Legend.Max)
	assert.NotEmpty(t, m.Legend.Ticks)
	for _, r := range m.Regions {
		assert.Equal(t, NoDataColor, r.Color)
	}

	var buf bytes.Buffer
	require.NoError(t, DrawSVG(&buf, m, "State-wise Sales"))
	assert.Contains(t, buf.String(), "legend-gradient")
}

func TestBuild_ZeroValuesUseUnitDomain(t *testing.T) {
	m := Build(India, map[string]float64{"Goa": 0, "Kerala": -5}, testFormatter())
	assert.Equal(t, [2]float64{0, 1}, m.Domain)
	goa, _ := m.Region("Goa")
	assert.True(t, goa.Matched)
	assert.Equal(t, NoDataColor, goa.Color)
}

func TestLegendTicksInsideDomain(t *testing.T) {
	l := NewLegend(0, 123456, testFormatter())
	require.NotEmpty(t, l.Ticks)
	for _, tick := range l.Ticks {
		assert.GreaterOrEqual(t, tick, 0.0)
		assert.LessOrEqual(t, tick, 123456.0)
	}
	assert.Equal(t, "₹0", l.MinLabel)
	assert.Equal(t, "₹123,456", l.MaxLabel)
}

func TestSalesByRegion(t *testing.T) {
	sales := SalesByRegion([]domain.Row{
		{domain.FieldState: "Kerala", domain.FieldTotalAmount: 10.0},
		{domain.FieldState: "Kerala", domain.FieldTotalAmount: "5"},
		{domain.FieldState: nil, domain.FieldTotalAmount: 7.0},
	})
	assert.Equal(t, map[string]float64{"Kerala": 15}, sales)
}

func TestDrawSVG(t *testing.T) {
	m := Build(India, map[string]float64{"Tamil Nadu": 10}, testFormatter())
	var buf bytes.Buffer
	require.NoError(t, DrawSVG(&buf, m, "State <Sales>"))

	svg := buf.String()
	assert.Contains(t, svg, "State &lt;Sales&gt;")
	assert.Contains(t, svg, "Tamil Nadu: ₹10")
	assert.Equal(t, len(India), strings.Count(svg, "data-region="))
}
