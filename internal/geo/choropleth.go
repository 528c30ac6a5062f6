package geo

import (
	"fmt"
	"math"
	"slices"

	"agriconsole/internal/charts"
	"agriconsole/pkg/contracts/domain"
)

// NoDataColor fills regions without a positive sales value. It is not a
// point on the sequential scale.
const NoDataColor = "#e0e0e0"

// ScaleStops are the low, mid and high colors of the sequential scale
var ScaleStops = [3]string{"#f1f8e9", "#7cb342", "#1b5e20"}

// RegionView is one catalog region resolved against the sales data
type RegionView struct {
	Name    string  `json:"name"`
	Key     string  `json:"key"`
	Value   float64 `json:"value"`
	Matched bool    `json:"matched"`
	Color   string  `json:"color"`
	Tooltip string  `json:"tooltip"`
	Path    string  `json:"-"`
}

// Legend describes the gradient key drawn under the map
type Legend struct {
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	MinLabel string    `json:"minLabel"`
	MaxLabel string    `json:"maxLabel"`
	Ticks    []float64 `json:"ticks"`
	Stops    [3]string `json:"stops"`
}

// Map is a fully resolved choropleth
type Map struct {
	Regions   []RegionView `json:"regions"`
	Domain    [2]float64   `json:"domain"`
	Legend    Legend       `json:"legend"`
	Unmatched []string     `json:"unmatched,omitempty"`

	catalog []Region
}

// Scale maps a value in [0, max] onto the 3-stop gradient
type Scale struct {
	Max float64
}

// Color returns the gradient color of v, clamped to the domain
func (s Scale) Color(v float64) string {
	t := 0.0
	if s.Max > 0 {
		t = math.Max(0, math.Min(1, v/s.Max))
	}
	if t <= 0.5 {
		return lerpHex(ScaleStops[0], ScaleStops[1], t*2)
	}
	return lerpHex(ScaleStops[1], ScaleStops[2], (t-0.5)*2)
}

// SalesByRegion sums amounts per region name from state-sales rows
func SalesByRegion(rows []domain.Row) map[string]float64 {
	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		name := row.String(domain.FieldState)
		if name == "" {
			continue
		}
		out[name] += row.Number(domain.FieldTotalAmount)
	}
	return out
}

// Build resolves sales against catalog. Regions are matched by normalized
// name; a region without a positive value gets NoDataColor. The domain is
// [0, max matched value], or [0, 1] when nothing positive matched.
func Build(catalog []Region, sales map[string]float64, f *charts.Formatter) Map {
	byKey := make(map[string]float64, len(sales))
	names := make(map[string]string, len(sales))
	for name, v := range sales {
		k := Key(name)
		byKey[k] += v
		names[k] = name
	}

	regions := make([]RegionView, len(catalog))
	catalogKeys := make(map[string]bool, len(catalog))
	maxV := 0.0
	for i, r := range catalog {
		k := Key(r.Name)
		catalogKeys[k] = true
		v, ok := byKey[k]
		regions[i] = RegionView{Name: r.Name, Key: k, Value: v, Matched: ok, Path: r.Path(CellSize, CellGap)}
		if ok && v > maxV {
			maxV = v
		}
	}

	upper := maxV
	if upper <= 0 {
		upper = 1
	}
	scale := Scale{Max: upper}

	for i := range regions {
		rv := &regions[i]
		if rv.Matched && rv.Value > 0 {
			rv.Color = scale.Color(rv.Value)
			rv.Tooltip = fmt.Sprintf("%s: %s", rv.Name, f.Currency(rv.Value))
		} else {
			rv.Color = NoDataColor
			rv.Tooltip = fmt.Sprintf("%s: No data", rv.Name)
		}
	}

	var unmatched []string
	for k, name := range names {
		if !catalogKeys[k] {
			unmatched = append(unmatched, name)
		}
	}
	slices.Sort(unmatched)

	return Map{
		Regions:   regions,
		Domain:    [2]float64{0, upper},
		Legend:    NewLegend(0, upper, f),
		Unmatched: unmatched,
		catalog:   catalog,
	}
}

// NewLegend builds the gradient key with min/max labels and ticks inside
// the domain.
func NewLegend(lo, hi float64, f *charts.Formatter) Legend {
	var ticks []float64
	for _, t := range charts.NiceTicks(lo, hi, 4) {
		if t >= lo && t <= hi {
			ticks = append(ticks, t)
		}
	}
	return Legend{
		Min:      lo,
		Max:      hi,
		MinLabel: f.Currency(lo),
		MaxLabel: f.Currency(hi),
		Ticks:    ticks,
		Stops:    ScaleStops,
	}
}

// Region returns the view for a catalog name
func (m Map) Region(name string) (RegionView, bool) {
	k := Key(name)
	for _, r := range m.Regions {
		if r.Key == k {
			return r, true
		}
	}
	return RegionView{}, false
}

func lerpHex(a, b string, t float64) string {
	ar, ag, ab := parseHex(a)
	br, bg, bb := parseHex(b)
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return fmt.Sprintf("#%02x%02x%02x", mix(ar, br), mix(ag, bg), mix(ab, bb))
}

func parseHex(s string) (r, g, b uint8) {
	fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b)
	return r, g, b
}
