package geo

import "fmt"

// Region is one entry of the static geometry catalog
type Region struct {
	Name string
	Col  int
	Row  int
}

// Path returns the region's outline as SVG path data for a grid of cell
// pixels with gap pixels between tiles.
func (r Region) Path(cell, gap float64) string {
	x := float64(r.Col) * cell
	y := float64(r.Row) * cell
	s := cell - gap
	return fmt.Sprintf("M%.1f %.1fh%.1fv%.1fh%.1fZ", x, y, s, s, -s)
}

// Center returns the tile center
func (r Region) Center(cell, gap float64) (float64, float64) {
	half := (cell - gap) / 2
	return float64(r.Col)*cell + half, float64(r.Row)*cell + half
}

// India is a tile-grid catalog of the states and union territories,
// positioned to keep their rough relative placement.
var India = []Region{
	{"Jammu and Kashmir", 2, 0},
	{"Ladakh", 3, 0},
	{"Chandigarh", 0, 1},
	{"Punjab", 1, 1},
	{"Himachal Pradesh", 2, 1},
	{"Uttarakhand", 3, 1},
	{"Sikkim", 6, 1},
	{"Arunachal Pradesh", 8, 1},
	{"Haryana", 1, 2},
	{"Delhi", 2, 2},
	{"Uttar Pradesh", 3, 2},
	{"Bihar", 4, 2},
	{"West Bengal", 5, 2},
	{"Meghalaya", 6, 2},
	{"Assam", 7, 2},
	{"Nagaland", 8, 2},
	{"Rajasthan", 1, 3},
	{"Madhya Pradesh", 2, 3},
	{"Chhattisgarh", 3, 3},
	{"Jharkhand", 4, 3},
	{"Tripura", 6, 3},
	{"Mizoram", 7, 3},
	{"Manipur", 8, 3},
	{"Gujarat", 0, 4},
	{"Maharashtra", 2, 4},
	{"Telangana", 3, 4},
	{"Odisha", 4, 4},
	{"Dadra and Nagar Haveli and Daman and Diu", 0, 5},
	{"Goa", 1, 5},
	{"Karnataka", 2, 5},
	{"Andhra Pradesh", 3, 5},
	{"Lakshadweep", 0, 6},
	{"Kerala", 1, 6},
	{"Tamil Nadu", 2, 6},
	{"Puducherry", 3, 6},
	{"Andaman and Nicobar Islands", 5, 7},
}

// gridSize returns the number of columns and rows a catalog spans
func gridSize(catalog []Region) (cols, rows int) {
	for _, r := range catalog {
		cols = max(cols, r.Col+1)
		rows = max(rows, r.Row+1)
	}
	return cols, rows
}
