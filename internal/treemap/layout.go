// Package treemap partitions a box into rectangles proportional to values.
package treemap

import (
	"cmp"
	"math"
	"slices"

	"agriconsole/internal/config"
	"agriconsole/pkg/contracts/domain"
)

// Item is one labeled value to lay out
type Item struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Box is an axis-aligned rectangle
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Area returns W*H
func (b Box) Area() float64 { return b.W * b.H }

// Rect is a laid-out item. Outer is the cell's share of the box; the drawn
// rectangle is Outer inset by half the padding on every side.
type Rect struct {
	Item
	Box
	Outer Box `json:"outer"`
}

// ItemsFromRows reads (label, totalAmount) pairs from report rows
func ItemsFromRows(rows []domain.Row, labelField string) []Item {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, Item{Label: row.String(labelField), Value: row.Number(domain.FieldTotalAmount)})
	}
	return items
}

// Layout drops non-positive values, keeps the largest items up to the
// treemap limit and squarifies them into width x height. Each output
// rectangle is its cell inset by padding/2, so neighbours are padding apart.
func Layout(items []Item, width, height, padding float64) []Rect {
	kept := make([]Item, 0, len(items))
	for _, it := range items {
		if it.Value > 0 && !math.IsInf(it.Value, 0) {
			kept = append(kept, it)
		}
	}
	slices.SortStableFunc(kept, func(a, b Item) int { return cmp.Compare(b.Value, a.Value) })
	if len(kept) > config.TreemapItemLimit {
		kept = kept[:config.TreemapItemLimit]
	}
	if len(kept) == 0 || width <= 0 || height <= 0 {
		return nil
	}

	total := 0.0
	for _, it := range kept {
		total += it.Value
	}
	areas := make([]float64, len(kept))
	for i, it := range kept {
		areas[i] = it.Value / total * width * height
	}

	cells := squarify(areas, Box{W: width, H: height})

	half := math.Max(0, padding) / 2
	out := make([]Rect, len(kept))
	for i, c := range cells {
		out[i] = Rect{Item: kept[i], Outer: c, Box: inset(c, half)}
	}
	return out
}

func inset(b Box, d float64) Box {
	w := math.Max(0, b.W-2*d)
	h := math.Max(0, b.H-2*d)
	return Box{X: b.X + (b.W-w)/2, Y: b.Y + (b.H-h)/2, W: w, H: h}
}

// squarify lays areas (sorted descending, summing to the box area) into
// rows whose aspect ratios stay close to 1.
func squarify(areas []float64, box Box) []Box {
	out := make([]Box, 0, len(areas))
	var row []float64
	for i := 0; i < len(areas); {
		side := math.Min(box.W, box.H)
		next := append(slices.Clone(row), areas[i])
		if len(row) == 0 || worst(next, side) <= worst(row, side) {
			row = next
			i++
			continue
		}
		var placed []Box
		placed, box = layoutRow(row, box)
		out = append(out, placed...)
		row = nil
	}
	if len(row) > 0 {
		placed, _ := layoutRow(row, box)
		out = append(out, placed...)
	}
	return out
}

// worst is the largest aspect ratio in row when laid along side
func worst(row []float64, side float64) float64 {
	sum, lo, hi := 0.0, math.Inf(1), 0.0
	for _, a := range row {
		sum += a
		lo = math.Min(lo, a)
		hi = math.Max(hi, a)
	}
	if sum == 0 || lo == 0 {
		return math.Inf(1)
	}
	s2, w2 := sum*sum, side*side
	return math.Max(w2*hi/s2, s2/(w2*lo))
}

// layoutRow places row along the shorter side of box and returns the boxes
// and the remaining free space.
func layoutRow(row []float64, box Box) ([]Box, Box) {
	sum := 0.0
	for _, a := range row {
		sum += a
	}
	placed := make([]Box, len(row))

	if box.W >= box.H {
		colW := 0.0
		if box.H > 0 {
			colW = sum / box.H
		}
		y := box.Y
		for i, a := range row {
			h := 0.0
			if colW > 0 {
				h = a / colW
			}
			placed[i] = Box{X: box.X, Y: y, W: colW, H: h}
			y += h
		}
		return placed, Box{X: box.X + colW, Y: box.Y, W: math.Max(0, box.W-colW), H: box.H}
	}

	rowH := 0.0
	if box.W > 0 {
		rowH = sum / box.W
	}
	x := box.X
	for i, a := range row {
		w := 0.0
		if rowH > 0 {
			w = a / rowH
		}
		placed[i] = Box{X: x, Y: box.Y, W: w, H: rowH}
		x += w
	}
	return placed, Box{X: box.X, Y: box.Y + rowH, W: box.W, H: math.Max(0, box.H-rowH)}
}
