package app

import (
	"context"
	"fmt"
	"log/slog"

	"agriconsole/internal/archive"
	"agriconsole/internal/charts"
	"agriconsole/internal/config"
	"agriconsole/internal/dashboard"
	"agriconsole/internal/exporter"
	"agriconsole/internal/infrastructure"
	"agriconsole/internal/services"
	"agriconsole/internal/sources"
)

// DashboardDeps are the optional collaborators of the dashboard engine
type DashboardDeps struct {
	Providers  *infrastructure.OTelProviders
	Metrics    *infrastructure.DashboardMetrics
	Publisher  services.Publisher
	Fetcher    sources.Fetcher
	Rasterizer exporter.Rasterizer
}

// BuildDashboard assembles the report client, orchestrator, export engine
// and optional archive into a DashboardService. A nil Fetcher uses the HTTP
// report client; a nil Rasterizer starts headless Chrome on demand.
func BuildDashboard(ctx context.Context, cfg *config.Config, logger *slog.Logger, deps DashboardDeps) (*services.DashboardService, error) {
	if deps.Providers == nil {
		deps.Providers = infrastructure.NoopProviders(logger)
	}

	fetcher := deps.Fetcher
	if fetcher == nil {
		client, err := sources.NewClient(cfg.Reports, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create report client: %w", err)
		}
		fetcher = client
	}
	adapter := sources.NewAdapter(fetcher, logger, deps.Metrics)

	orchestrator := dashboard.NewOrchestrator(adapter, cfg.Reports, logger,
		dashboard.WithMetrics(deps.Metrics),
		dashboard.WithTracer(deps.Providers.Tracer))

	formatter := charts.NewFormatter(cfg.Export.CurrencySymbol, cfg.Export.Locale)
	rasterizer := deps.Rasterizer
	if rasterizer == nil {
		rasterizer = exporter.NewChromeRasterizer(cfg.Export, logger)
	}
	engine := exporter.NewEngine(cfg.Export, formatter, rasterizer, logger)

	opts := []services.DashboardOption{services.WithMetrics(deps.Metrics)}
	if deps.Publisher != nil {
		opts = append(opts, services.WithPublisher(deps.Publisher))
	}
	if cfg.Archive.Enabled {
		store, err := archive.New(ctx, cfg.Archive, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize export archive: %w", err)
		}
		opts = append(opts, services.WithArchiver(store))
	}

	return services.NewDashboardService(orchestrator, engine, formatter, cfg.Charts, logger, opts...), nil
}
