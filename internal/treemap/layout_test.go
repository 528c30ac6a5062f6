package treemap

import (
	"bytes"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agriconsole/internal/charts"
	"agriconsole/pkg/contracts/domain"
)

const eps = 1e-6

func randomItems(rng *rand.Rand, n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{Label: fmt.Sprintf("item-%d", i), Value: 1 + rng.Float64()*1000}
	}
	return items
}

func TestLayout_AreaConservation(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.IntN(20)
		W := 100 + rng.Float64()*900
		H := 100 + rng.Float64()*600
		p := rng.Float64() * 4
		items := randomItems(rng, n)

		rects := Layout(items, W, H, p)
		require.Len(t, rects, n)

		outer, inner, padding := 0.0, 0.0, 0.0
		for _, r := range rects {
			outer += r.Outer.Area()
			inner += r.Area()
			padding += r.Outer.Area() - math.Max(0, r.Outer.W-p)*math.Max(0, r.Outer.H-p)
		}
		assert.InDelta(t, W*H, outer, W*H*eps, "cells tile the box")
		assert.InDelta(t, W*H-padding, inner, W*H*eps, "drawn area is box minus padding")
	}
}

func TestLayout_ProportionalAndInside(t *testing.T) {
	items := []Item{{"a", 6}, {"b", 6}, {"c", 4}, {"d", 3}, {"e", 2}, {"f", 2}, {"g", 1}}
	W, H := 600.0, 400.0
	rects := Layout(items, W, H, 0)

	total := 24.0
	for _, r := range rects {
		assert.InDelta(t, r.Value/total*W*H, r.Outer.Area(), 1e-6)
		assert.GreaterOrEqual(t, r.X, -eps)
		assert.GreaterOrEqual(t, r.Y, -eps)
		assert.LessOrEqual(t, r.X+r.W, W+eps)
		assert.LessOrEqual(t, r.Y+r.H, H+eps)
	}

	for i := range rects {
		for j := i + 1; j < len(rects); j++ {
			a, b := rects[i].Outer, rects[j].Outer
			overlapW := math.Min(a.X+a.W, b.X+b.W) - math.Max(a.X, b.X)
			overlapH := math.Min(a.Y+a.H, b.Y+b.H) - math.Max(a.Y, b.Y)
			assert.False(t, overlapW > eps && overlapH > eps, "%s overlaps %s", rects[i].Label, rects[j].Label)
		}
	}
}

func TestLayout_FiltersSortsAndCaps(t *testing.T) {
	items := []Item{{"zero", 0}, {"neg", -5}, {"inf", math.Inf(1)}}
	for i := 0; i < 30; i++ {
		items = append(items, Item{Label: fmt.Sprintf("i%02d", i), Value: float64(i + 1)})
	}

	rects := Layout(items, 300, 200, 2)

	require.Len(t, rects, 20)
	assert.Equal(t, "i29", rects[0].Label)
	for i := 1; i < len(rects); i++ {
		assert.GreaterOrEqual(t, rects[i-1].Value, rects[i].Value)
	}
	for _, r := range rects {
		assert.NotContains(t, []string{"zero", "neg", "inf", "i00"}, r.Label)
	}
}

func TestLayout_Empty(t *testing.T) {
	assert.Empty(t, Layout(nil, 100, 100, 2))
	assert.Empty(t, Layout([]Item{{"a", 0}}, 100, 100, 2))
	assert.Empty(t, Layout([]Item{{"a", 1}}, 0, 100, 2))
}

func TestLayout_SingleItemFillsBox(t *testing.T) {
	rects := Layout([]Item{{"only", 5}}, 200, 100, 4)
	require.Len(t, rects, 1)
	assert.Equal(t, Box{W: 200, H: 100}, rects[0].Outer)
	assert.Equal(t, Box{X: 2, Y: 2, W: 196, H: 96}, rects[0].Box)
}

func TestItemsFromRows(t *testing.T) {
	items := ItemsFromRows([]domain.Row{
		{domain.FieldArea: "North", domain.FieldTotalAmount: "1,200"},
		{domain.FieldArea: "South", domain.FieldTotalAmount: "oops"},
	}, domain.FieldArea)
	assert.Equal(t, []Item{{"North", 1200}, {"South", 0}}, items)
}

func TestDrawSVG(t *testing.T) {
	f := charts.NewFormatter("₹", "en-US")
	rects := Layout([]Item{
		{"Krishna District Agro Centre", 5000},
		{"Guntur", 1000},
	}, 400, 300, 2)

	var buf bytes.Buffer
	require.NoError(t, DrawSVG(&buf, rects, 400, 300, "Area-wise Sales", f))
	svg := buf.String()

	assert.Contains(t, svg, "<title>Krishna District Agro Centre: ₹5,000</title>", "full label on hover")
	assert.Contains(t, svg, ">Krishna Distr…<", "truncated label in cell")
	assert.Equal(t, 2, strings.Count(svg, "<title>"))

	buf.Reset()
	require.NoError(t, DrawSVG(&buf, nil, 400, 300, "Area-wise Sales", f))
	assert.Contains(t, buf.String(), "No data")
}
