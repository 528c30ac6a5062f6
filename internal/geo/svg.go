package geo

import (
	"fmt"
	"html"
	"io"
)

// Layout constants of the drawn map
const (
	CellSize = 56.0
	CellGap  = 4.0

	legendHeight = 64.0
	mapPadding   = 16.0
)

// DrawSVG writes the map with its legend as a standalone SVG document
func DrawSVG(w io.Writer, m Map, title string) error {
	cols, rows := gridSize(m.catalog)
	width := float64(cols)*CellSize + 2*mapPadding
	height := float64(rows)*CellSize + 2*mapPadding + legendHeight + 24

	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	esc := html.EscapeString

	printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" font-family="sans-serif" font-size="11">`, width, height, width, height)
	printf(`<rect width="100%%" height="100%%" fill="#ffffff"/>`)
	printf(`<text x="%.1f" y="18" text-anchor="middle" font-size="15" font-weight="bold">%s</text>`, width/2, esc(title))
	printf(`<g transform="translate(%.1f %.1f)">`, mapPadding, mapPadding+16)
	for _, r := range m.Regions {
		printf(`<path d="%s" fill="%s" stroke="#ffffff" data-region="%s"><title>%s</title></path>`,
			r.Path, r.Color, esc(r.Key), esc(r.Tooltip))
	}
	for _, r := range m.catalog {
		cx, cy := r.Center(CellSize, CellGap)
		printf(`<text x="%.1f" y="%.1f" text-anchor="middle" dominant-baseline="middle" font-size="9" pointer-events="none">%s</text>`,
			cx, cy, esc(abbreviation(r.Name)))
	}
	printf(`</g>`)

	drawLegend(printf, m.Legend, mapPadding, height-legendHeight, width-2*mapPadding)
	printf(`</svg>`)
	return err
}

func drawLegend(printf func(string, ...any), l Legend, x, y, width float64) {
	barW := width * 0.6
	printf(`<defs><linearGradient id="legend-gradient" x1="0" x2="1" y1="0" y2="0">`)
	printf(`<stop offset="0%%" stop-color="%s"/><stop offset="50%%" stop-color="%s"/><stop offset="100%%" stop-color="%s"/>`,
		l.Stops[0], l.Stops[1], l.Stops[2])
	printf(`</linearGradient></defs>`)
	printf(`<rect x="%.1f" y="%.1f" width="%.1f" height="12" fill="url(#legend-gradient)" stroke="#9e9e9e"/>`, x, y, barW)

	span := l.Max - l.Min
	for _, t := range l.Ticks {
		tx := x
		if span > 0 {
			tx = x + (t-l.Min)/span*barW
		}
		printf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#616161"/>`, tx, y+12, tx, y+17)
	}
	printf(`<text x="%.1f" y="%.1f" text-anchor="start">%s</text>`, x, y+30, html.EscapeString(l.MinLabel))
	printf(`<text x="%.1f" y="%.1f" text-anchor="end">%s</text>`, x+barW, y+30, html.EscapeString(l.MaxLabel))

	nx := x + barW + 24
	printf(`<rect x="%.1f" y="%.1f" width="12" height="12" fill="%s" stroke="#9e9e9e"/>`, nx, y, NoDataColor)
	printf(`<text x="%.1f" y="%.1f">No data</text>`, nx+18, y+10)
}

// abbreviation shortens a region name to the initials of its words
func abbreviation(name string) string {
	var out []rune
	start := true
	for _, r := range name {
		switch {
		case r == ' ':
			start = true
		case start:
			if r >= 'A' && r <= 'Z' {
				out = append(out, r)
			}
			start = false
		}
	}
	if len(out) == 1 {
		rs := []rune(name)
		if len(rs) >= 2 {
			return string(rs[:2])
		}
	}
	return string(out)
}
