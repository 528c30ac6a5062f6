package charts

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"math"
	"sync"
)

// SVGSurface draws specs as standalone SVG documents held in memory
type SVGSurface struct {
	mu     sync.RWMutex
	width  int
	height int
	format *Formatter
	docs   map[string]svgDoc
	seq    uint64
}

type svgDoc struct {
	id   uint64
	spec Spec
	svg  []byte
}

// NewSVGSurface creates a surface drawing width x height documents
func NewSVGSurface(width, height int, format *Formatter) *SVGSurface {
	return &SVGSurface{
		width:  width,
		height: height,
		format: format,
		docs:   make(map[string]svgDoc),
	}
}

// Create draws spec and mounts it under name
func (s *SVGSurface) Create(name string, spec Spec) (Chart, error) {
	var buf bytes.Buffer
	if err := DrawSVG(&buf, spec, s.width, s.height, s.format); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.docs[name] = svgDoc{id: s.seq, spec: spec, svg: buf.Bytes()}
	return &svgChart{surface: s, name: name, id: s.seq}, nil
}

// SVG returns the mounted document for name
func (s *SVGSurface) SVG(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[name]
	return d.svg, ok
}

// Spec returns the spec the mounted document was drawn from
func (s *SVGSurface) Spec(name string) (Spec, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.docs[name]
	return d.spec, ok
}

// Len returns the number of mounted documents
func (s *SVGSurface) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

type svgChart struct {
	surface *SVGSurface
	name    string
	id      uint64
}

// Destroy unmounts the document if it is still this instance
func (c *svgChart) Destroy() {
	c.surface.mu.Lock()
	defer c.surface.mu.Unlock()
	if d, ok := c.surface.docs[c.name]; ok && d.id == c.id {
		delete(c.surface.docs, c.name)
	}
}

const (
	marginTop    = 48.0
	marginBottom = 56.0
	marginSide   = 72.0
	tickCount    = 5
	labelRunes   = 14
)

// svgWriter keeps the first write error
type svgWriter struct {
	w   io.Writer
	err error
}

func (s *svgWriter) printf(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format, args...)
}

func esc(s string) string { return html.EscapeString(s) }

// DrawSVG writes spec as an SVG document
func DrawSVG(w io.Writer, spec Spec, width, height int, f *Formatter) error {
	switch spec.Kind {
	case KindLine, KindBar, KindGroupedBar, KindHBar, KindDonut:
	default:
		return fmt.Errorf("%w: kind %q", ErrUnknownChart, spec.Kind)
	}

	sw := &svgWriter{w: w}
	W, H := float64(width), float64(height)

	sw.printf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif" font-size="12">`, width, height, width, height)
	sw.printf(`<rect width="100%%" height="100%%" fill="#ffffff"/>`)
	sw.printf(`<text x="%.1f" y="24" text-anchor="middle" font-size="16" font-weight="bold">%s</text>`, W/2, esc(spec.Title))

	switch {
	case spec.Empty():
		sw.printf(`<text x="%.1f" y="%.1f" text-anchor="middle" fill="#9e9e9e">No data</text>`, W/2, H/2)
	case spec.Kind == KindLine:
		drawLine(sw, spec, W, H, f)
	case spec.Kind == KindHBar:
		drawHBars(sw, spec, W, H, f)
	case spec.Kind == KindDonut:
		drawDonut(sw, spec, W, H, f)
	default:
		drawBars(sw, spec, W, H, f)
	}

	if spec.Approximate {
		sw.printf(`<text x="%.1f" y="%.1f" text-anchor="end" font-style="italic" fill="#757575">%s</text>`, W-8, H-8, esc(spec.Note))
	}
	sw.printf(`</svg>`)
	return sw.err
}

// axisScales returns one value scale per axis, sized to the series on it
func axisScales(spec Spec, y0, y1 float64) (map[Axis]linear, map[Axis][]float64, map[Axis]Unit) {
	maxes := map[Axis]float64{}
	units := map[Axis]Unit{}
	for _, s := range spec.Series {
		if _, seen := units[s.Axis]; !seen {
			units[s.Axis] = s.Unit
		}
		for _, v := range s.Values {
			maxes[s.Axis] = math.Max(maxes[s.Axis], v)
		}
	}
	scales := map[Axis]linear{}
	ticks := map[Axis][]float64{}
	for axis := range units {
		t := NiceTicks(0, maxes[axis], tickCount)
		ticks[axis] = t
		scales[axis] = linear{d0: t[0], d1: t[len(t)-1], r0: y0, r1: y1}
	}
	return scales, ticks, units
}

func drawAxes(sw *svgWriter, x0, x1 float64, scales map[Axis]linear, ticks map[Axis][]float64, units map[Axis]Unit, f *Formatter) {
	for axis, sc := range scales {
		for _, t := range ticks[axis] {
			y := sc.at(t)
			if axis == AxisLeft {
				sw.printf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#e0e0e0"/>`, x0, y, x1, y)
				sw.printf(`<text x="%.2f" y="%.2f" text-anchor="end" dominant-baseline="middle">%s</text>`, x0-6, y, esc(f.Format(units[axis], t)))
			} else {
				sw.printf(`<text x="%.2f" y="%.2f" text-anchor="start" dominant-baseline="middle">%s</text>`, x1+6, y, esc(f.Format(units[axis], t)))
			}
		}
	}
	sw.printf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#9e9e9e"/>`, x0, scales[firstAxis(scales)].r0, x1, scales[firstAxis(scales)].r0)
}

func firstAxis(scales map[Axis]linear) Axis {
	if _, ok := scales[AxisLeft]; ok {
		return AxisLeft
	}
	return AxisRight
}

func drawLegend(sw *svgWriter, spec Spec, W float64) {
	x := W - marginSide
	for i := len(spec.Series) - 1; i >= 0; i-- {
		s := spec.Series[i]
		name := Truncate(s.Name, labelRunes)
		x -= float64(len([]rune(name)))*7 + 24
		sw.printf(`<rect x="%.2f" y="32" width="10" height="10" fill="%s"/>`, x, s.Color)
		sw.printf(`<text x="%.2f" y="41">%s</text>`, x+14, esc(name))
	}
}

func xLabelStep(n int) int {
	step := int(math.Ceil(float64(n) / 10))
	if step < 1 {
		step = 1
	}
	return step
}

func drawLine(sw *svgWriter, spec Spec, W, H float64, f *Formatter) {
	x0, x1 := marginSide, W-marginSide
	y0, y1 := H-marginBottom, marginTop+16
	scales, ticks, units := axisScales(spec, y0, y1)
	drawAxes(sw, x0, x1, scales, ticks, units, f)

	n := len(spec.Labels)
	xAt := func(i int) float64 {
		if n == 1 {
			return (x0 + x1) / 2
		}
		return x0 + float64(i)*(x1-x0)/float64(n-1)
	}
	step := xLabelStep(n)
	for i, label := range spec.Labels {
		if i%step == 0 || i == n-1 {
			sw.printf(`<text x="%.2f" y="%.2f" text-anchor="middle">%s</text>`, xAt(i), y0+18, esc(Truncate(label, labelRunes)))
		}
	}

	for _, s := range spec.Series {
		sc := scales[s.Axis]
		sw.printf(`<polyline fill="none" stroke="%s" stroke-width="2" points="`, s.Color)
		for i, v := range s.Values {
			if i >= n {
				break
			}
			sw.printf("%.2f,%.2f ", xAt(i), sc.at(v))
		}
		sw.printf(`"/>`)
		for i, v := range s.Values {
			if i >= n {
				break
			}
			sw.printf(`<circle cx="%.2f" cy="%.2f" r="3" fill="%s"><title>%s %s: %s</title></circle>`,
				xAt(i), sc.at(v), s.Color, esc(spec.Labels[i]), esc(s.Name), esc(f.Format(s.Unit, v)))
		}
	}
	drawLegend(sw, spec, W)
}

func drawBars(sw *svgWriter, spec Spec, W, H float64, f *Formatter) {
	x0, x1 := marginSide, W-marginSide
	y0, y1 := H-marginBottom, marginTop+16
	scales, ticks, units := axisScales(spec, y0, y1)
	drawAxes(sw, x0, x1, scales, ticks, units, f)

	n := len(spec.Labels)
	band := (x1 - x0) / float64(n)
	group := band * 0.8
	barW := group / float64(len(spec.Series))

	for i, label := range spec.Labels {
		left := x0 + float64(i)*band + (band-group)/2
		for j, s := range spec.Series {
			if i >= len(s.Values) {
				continue
			}
			sc := scales[s.Axis]
			v := math.Max(0, s.Values[i])
			top := sc.at(v)
			sw.printf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"><title>%s %s: %s</title></rect>`,
				left+float64(j)*barW, top, barW, y0-top, s.Color, esc(label), esc(s.Name), esc(f.Format(s.Unit, s.Values[i])))
		}
		sw.printf(`<text x="%.2f" y="%.2f" text-anchor="middle">%s</text>`, left+group/2, y0+18, esc(Truncate(label, labelRunes)))
	}
	if len(spec.Series) > 1 {
		drawLegend(sw, spec, W)
	}
}

func drawHBars(sw *svgWriter, spec Spec, W, H float64, f *Formatter) {
	const labelWidth = 150.0
	x0, x1 := labelWidth, W-marginSide-40
	y0, y1 := marginTop, H-24
	s := spec.Series[0]

	maxV := 0.0
	for _, v := range s.Values {
		maxV = math.Max(maxV, v)
	}
	ticks := NiceTicks(0, maxV, tickCount)
	sc := linear{d0: 0, d1: ticks[len(ticks)-1], r0: x0, r1: x1}

	n := len(spec.Labels)
	band := (y1 - y0) / float64(n)
	barH := band * 0.7
	for i, label := range spec.Labels {
		if i >= len(s.Values) {
			break
		}
		v := s.Values[i]
		y := y0 + float64(i)*band + (band-barH)/2
		width := sc.at(math.Max(0, v)) - x0
		sw.printf(`<text x="%.2f" y="%.2f" text-anchor="end" dominant-baseline="middle">%s</text>`, x0-6, y+barH/2, esc(Truncate(label, 20)))
		sw.printf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"><title>%s: %s</title></rect>`,
			x0, y, width, barH, s.Color, esc(label), esc(f.Format(s.Unit, v)))
		sw.printf(`<text x="%.2f" y="%.2f" dominant-baseline="middle" fill="#424242">%s</text>`, x0+width+4, y+barH/2, esc(f.Format(s.Unit, v)))
	}
}

func drawDonut(sw *svgWriter, spec Spec, W, H float64, f *Formatter) {
	s := spec.Series[0]
	cx, cy := W*0.33, (H+marginTop)/2
	outer := math.Min(W*0.28, (H-marginTop)/2-12)
	inner := outer * 0.6

	total := 0.0
	for _, v := range s.Values {
		if v > 0 {
			total += v
		}
	}

	colorOf := func(i int) string {
		if i < len(spec.Colors) && spec.Colors[i] != "" {
			return spec.Colors[i]
		}
		return ColorAt(i)
	}

	if total <= 0 {
		sw.printf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`, cx, cy, outer, NeutralColor)
		sw.printf(`<circle cx="%.2f" cy="%.2f" r="%.2f" fill="#ffffff"/>`, cx, cy, inner)
	}

	angle := -math.Pi / 2
	for i, label := range spec.Labels {
		if i >= len(s.Values) || s.Values[i] <= 0 || total <= 0 {
			continue
		}
		frac := s.Values[i] / total
		tip := fmt.Sprintf("%s: %s (%.1f%%)", label, f.Format(s.Unit, s.Values[i]), frac*100)
		if frac >= 0.9999 {
			sw.printf(`<g><title>%s</title><circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/><circle cx="%.2f" cy="%.2f" r="%.2f" fill="#ffffff"/></g>`,
				esc(tip), cx, cy, outer, colorOf(i), cx, cy, inner)
			continue
		}
		end := angle + frac*2*math.Pi
		large := 0
		if end-angle > math.Pi {
			large = 1
		}
		sw.printf(`<path d="M %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 0 %.2f %.2f Z" fill="%s" stroke="#ffffff"><title>%s</title></path>`,
			cx+outer*math.Cos(angle), cy+outer*math.Sin(angle),
			outer, outer, large, cx+outer*math.Cos(end), cy+outer*math.Sin(end),
			cx+inner*math.Cos(end), cy+inner*math.Sin(end),
			inner, inner, large, cx+inner*math.Cos(angle), cy+inner*math.Sin(angle),
			colorOf(i), esc(tip))
		angle = end
	}

	lx, ly := W*0.62, marginTop+8
	for i, label := range spec.Labels {
		if i >= len(s.Values) {
			break
		}
		y := ly + float64(i)*20
		sw.printf(`<rect x="%.2f" y="%.2f" width="12" height="12" fill="%s"/>`, lx, y, colorOf(i))
		sw.printf(`<text x="%.2f" y="%.2f">%s %s</text>`, lx+18, y+10, esc(Truncate(label, 18)), esc(f.Format(s.Unit, s.Values[i])))
	}
}
