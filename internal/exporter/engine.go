package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"agriconsole/internal/charts"
	"agriconsole/internal/config"
	"agriconsole/pkg/contracts/domain"
)

// Format names an export format
type Format string

const (
	FormatCSV   Format = "csv"
	FormatXLS   Format = "xls"
	FormatXLSX  Format = "xlsx"
	FormatPrint Format = "print"
	FormatPDF   Format = "pdf"
)

// Formats lists every supported export format
var Formats = []Format{FormatCSV, FormatXLS, FormatXLSX, FormatPrint, FormatPDF}

var (
	// ErrNoData is returned when there is nothing to download
	ErrNoData = errors.New(config.MsgNoDataToDownload)
	// ErrUnknownFormat is returned for an unsupported format
	ErrUnknownFormat = errors.New("unknown export format")
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// NeedsCharts reports whether the format embeds chart images
func (f Format) NeedsCharts() bool {
	return f == FormatPrint || f == FormatPDF
}

// ContentType is the MIME type served for the format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLS:
		return "application/vnd.ms-excel"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/html; charset=utf-8"
	}
}

// Filename returns the download name for a date range
func (f Format) Filename(r domain.DateRange) string {
	from, to := r.FromString(), r.ToString()
	switch f {
	case FormatCSV:
		return fmt.Sprintf(config.CSVFilenamePattern, from, to)
	case FormatXLS:
		return fmt.Sprintf(config.XLSFilenamePattern, from, to)
	case FormatXLSX:
		return fmt.Sprintf(config.XLSXFilenamePattern, from, to)
	case FormatPDF:
		return fmt.Sprintf(config.PDFFilenamePattern, from, to)
	default:
		return fmt.Sprintf(config.PrintFilenamePattern, from, to)
	}
}

// SnapshotFilename names a single chart download, e.g. sales-trend_2024-01-01_to_2024-01-31.png
func SnapshotFilename(chart string, r domain.DateRange, ext string) string {
	return fmt.Sprintf(config.SnapshotFilenamePattern, chart, r.FromString(), r.ToString(), ext)
}

// Artifact is a produced export
type Artifact struct {
	Format      Format
	Filename    string
	ContentType string
	Body        []byte
}

// Engine produces exports from a settled dashboard
type Engine struct {
	cfg        config.ExportConfig
	formatter  *charts.Formatter
	rasterizer Rasterizer
	logger     *slog.Logger
}

// NewEngine creates an export engine. A nil rasterizer disables PDF output.
func NewEngine(cfg config.ExportConfig, formatter *charts.Formatter, rasterizer Rasterizer, logger *slog.Logger) *Engine {
	if formatter == nil {
		formatter = charts.NewFormatter(cfg.CurrencySymbol, cfg.Locale)
	}
	return &Engine{
		cfg:        cfg,
		formatter:  formatter,
		rasterizer: rasterizer,
		logger:     logger.With(slog.String("component", "exporter")),
	}
}

// Document builds the format-independent export content
func (e *Engine) Document(src Source) Document {
	return NewDocument(e.cfg.Title, src)
}

// Export serializes the source in the requested format. Images are only
// used by the print and PDF formats.
func (e *Engine) Export(ctx context.Context, format Format, src Source, images []ChartImage) (*Artifact, error) {
	doc := e.Document(src)
	if !doc.HasData() {
		return nil, ErrNoData
	}

	var body []byte
	var err error
	switch format {
	case FormatCSV:
		body, err = ToCSV(doc)
	case FormatXLS:
		body, err = ToSpreadsheetMarkup(doc)
	case FormatXLSX:
		body, err = ToXLSX(doc)
	case FormatPrint:
		body, err = ToPrintDocument(doc, e.formatter, images, PrintOptions{
			RowsPerSection: e.cfg.PrintRowsPerSection,
			AutoPrint:      true,
		})
	case FormatPDF:
		body, err = e.pdf(ctx, doc, images)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%s export failed: %w", format, err)
	}

	e.logger.InfoContext(ctx, "Export produced",
		slog.String("format", string(format)),
		slog.String("range", doc.Period()),
		slog.Int("bytes", len(body)))

	return &Artifact{
		Format:      format,
		Filename:    format.Filename(doc.Range),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

// Rasterizer returns the configured rasterizer, nil when PDF and PNG are disabled
func (e *Engine) Rasterizer() Rasterizer {
	return e.rasterizer
}

func (e *Engine) pdf(ctx context.Context, doc Document, images []ChartImage) ([]byte, error) {
	if e.rasterizer == nil {
		return nil, ErrRasterizerUnavailable
	}
	html, err := ToPrintDocument(doc, e.formatter, images, PrintOptions{RowsPerSection: e.cfg.PrintRowsPerSection})
	if err != nil {
		return nil, err
	}
	return e.rasterizer.PDF(ctx, html)
}
