package services

import (
	"bytes"
	"context"
	"fmt"

	"agriconsole/internal/charts"
	apierrors "agriconsole/internal/errors"
	"agriconsole/internal/exporter"
	"agriconsole/internal/geo"
	"agriconsole/internal/treemap"
	"agriconsole/pkg/contracts/domain"
)

// Snapshot names of the geometry views. They always download as SVG.
const (
	ChartStateMap    = "state-map"
	ChartAreaTreemap = "area-treemap"
)

const treemapPadding = 4

// Image formats for snapshots
const (
	ImageSVG = "svg"
	ImagePNG = "png"
)

// Snapshot is a downloadable chart image
type Snapshot struct {
	Name        string
	Filename    string
	ContentType string
	Body        []byte
}

// IsSnapshotName reports whether name can be downloaded
func IsSnapshotName(name string) bool {
	return charts.IsKnown(name) || name == ChartStateMap || name == ChartAreaTreemap
}

// SVG returns the drawn document for a chart. An empty tab keeps the
// currently selected crop/disease tab. A chart whose data is empty is not
// mounted and yields charts.ErrUnknownChart.
func (p *Published) SVG(name string, tab charts.Tab) ([]byte, error) {
	switch name {
	case ChartStateMap:
		var buf bytes.Buffer
		if err := geo.DrawSVG(&buf, p.regions.Get(p.State), "State-wise Sales"); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case ChartAreaTreemap:
		var buf bytes.Buffer
		if err := treemap.DrawSVG(&buf, p.areas.Get(p.State), float64(p.width), float64(p.height), "Area-wise Sales", p.format); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	if !charts.IsKnown(name) {
		return nil, fmt.Errorf("%w: %q", charts.ErrUnknownChart, name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if name == charts.ChartCropDisease && tab != "" && tab != p.tab {
		if err := p.renderer.RenderCropDisease(tab, p.State.Rows(domain.KindCropSales), p.State.Rows(domain.KindDiseaseSales)); err != nil {
			return nil, err
		}
		p.tab = tab
	}
	svg, ok := p.surface.SVG(name)
	if !ok || !p.renderer.Mounted(name) {
		return nil, fmt.Errorf("%w: %q has no data", charts.ErrUnknownChart, name)
	}
	return svg, nil
}

// ChartImages returns every drawable view as an SVG image for the print
// document, in page order with the map and treemap last.
func (p *Published) ChartImages() []exporter.ChartImage {
	var images []exporter.ChartImage
	for _, name := range p.Charts() {
		svg, err := p.SVG(name, "")
		if err != nil {
			continue
		}
		images = append(images, exporter.ChartImage{
			Name:     name,
			Title:    p.title(name),
			MIMEType: "image/svg+xml",
			Data:     svg,
		})
	}
	return images
}

func (p *Published) title(name string) string {
	switch name {
	case ChartStateMap:
		return "State-wise Sales"
	case ChartAreaTreemap:
		return "Area-wise Sales"
	}
	if spec, ok := p.surface.Spec(name); ok && spec.Title != "" {
		return spec.Title
	}
	return name
}

// Snapshot renders a chart as SVG or PNG. Map and treemap are always SVG.
func (s *DashboardService) Snapshot(ctx context.Context, p *Published, name, format string, tab charts.Tab) (*Snapshot, error) {
	if !IsSnapshotName(name) {
		return nil, fmt.Errorf("%w: %q", charts.ErrUnknownChart, name)
	}
	svg, err := p.SVG(name, tab)
	if err != nil {
		return nil, err
	}

	r := p.State.Range()
	if format != ImagePNG || name == ChartStateMap || name == ChartAreaTreemap {
		return &Snapshot{
			Name:        name,
			Filename:    exporter.SnapshotFilename(name, r, ImageSVG),
			ContentType: "image/svg+xml",
			Body:        svg,
		}, nil
	}

	rasterizer := s.exports.Rasterizer()
	if rasterizer == nil {
		return nil, exporter.ErrRasterizerUnavailable
	}
	png, err := rasterizer.PNG(ctx, svg, s.chartsCfg.Width, s.chartsCfg.Height)
	if err != nil {
		return nil, apierrors.NewRenderError(name, err)
	}
	return &Snapshot{
		Name:        name,
		Filename:    exporter.SnapshotFilename(name, r, ImagePNG),
		ContentType: "image/png",
		Body:        png,
	}, nil
}
