package treemap

import (
	"fmt"
	"html"
	"io"

	"agriconsole/internal/charts"
)

// LabelRunes is the longest label drawn inside a cell before truncation
const LabelRunes = 14

// DrawSVG writes the laid-out rectangles as a standalone SVG document. Cells
// show a truncated label and the value; the hover title carries both in full.
func DrawSVG(w io.Writer, rects []Rect, width, height float64, title string, f *charts.Formatter) error {
	const header = 28.0
	var err error
	printf := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}
	esc := html.EscapeString

	printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" font-family="sans-serif" font-size="11">`,
		width, height+header, width, height+header)
	printf(`<rect width="100%%" height="100%%" fill="#ffffff"/>`)
	printf(`<text x="%.1f" y="19" text-anchor="middle" font-size="15" font-weight="bold">%s</text>`, width/2, esc(title))
	if len(rects) == 0 {
		printf(`<text x="%.1f" y="%.1f" text-anchor="middle" fill="#9e9e9e">No data</text>`, width/2, header+height/2)
	}
	printf(`<g transform="translate(0 %.1f)">`, header)
	for i, r := range rects {
		value := f.Currency(r.Value)
		printf(`<g><title>%s: %s</title>`, esc(r.Label), esc(value))
		printf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`, r.X, r.Y, r.W, r.H, charts.ColorAt(i))
		if r.W >= 48 && r.H >= 30 {
			printf(`<text x="%.2f" y="%.2f" fill="#ffffff">%s</text>`, r.X+4, r.Y+14, esc(charts.Truncate(r.Label, LabelRunes)))
			printf(`<text x="%.2f" y="%.2f" fill="#ffffff" font-size="10">%s</text>`, r.X+4, r.Y+27, esc(value))
		}
		printf(`</g>`)
	}
	printf(`</g></svg>`)
	return err
}
