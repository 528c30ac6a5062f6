package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"agriconsole/internal/config"
)

// ErrRasterizerUnavailable is returned when no browser is configured
var ErrRasterizerUnavailable = errors.New("rasterizer unavailable")

// Rasterizer turns markup into PDF and PNG bytes
type Rasterizer interface {
	PDF(ctx context.Context, html []byte) ([]byte, error)
	PNG(ctx context.Context, svg []byte, width, height int) ([]byte, error)
}

// ChromeRasterizer renders through a headless Chrome started per call
type ChromeRasterizer struct {
	opts   []chromedp.ExecAllocatorOption
	logger *slog.Logger
}

// NewChromeRasterizer builds allocator options from the export config
func NewChromeRasterizer(cfg config.ExportConfig, logger *slog.Logger) *ChromeRasterizer {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", true))
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}
	return &ChromeRasterizer{opts: opts, logger: logger.With(slog.String("component", "rasterizer"))}
}

// PDF prints an HTML document with backgrounds
func (r *ChromeRasterizer) PDF(ctx context.Context, html []byte) ([]byte, error) {
	var out []byte
	err := r.run(ctx, "pdf",
		chromedp.Navigate("about:blank"),
		setContent(string(html)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			out = data
			return nil
		}),
	)
	return out, err
}

// PNG screenshots an SVG document at the given size
func (r *ChromeRasterizer) PNG(ctx context.Context, svg []byte, width, height int) ([]byte, error) {
	html := `<!DOCTYPE html><html><head><style>html,body{margin:0;padding:0;background:#fff}</style></head><body>` +
		string(svg) + `</body></html>`

	var out []byte
	err := r.run(ctx, "png",
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate("about:blank"),
		setContent(html),
		chromedp.Screenshot("svg", &out, chromedp.NodeVisible, chromedp.ByQuery),
	)
	return out, err
}

func (r *ChromeRasterizer) run(ctx context.Context, what string, actions ...chromedp.Action) error {
	start := time.Now()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		r.logger.WarnContext(ctx, "Rasterizing failed",
			slog.String("output", what),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %s: %v", ErrRasterizerUnavailable, what, err)
	}

	r.logger.DebugContext(ctx, "Rasterized",
		slog.String("output", what),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func setContent(html string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		frameTree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
	})
}
