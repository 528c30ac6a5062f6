package http

import (
	"context"

	"agriconsole/internal/charts"
	"agriconsole/internal/exporter"
	"agriconsole/internal/services"
	"agriconsole/pkg/contracts/domain"
)

// DashboardService is the part of services.DashboardService the handlers use
type DashboardService interface {
	Load(ctx context.Context, filter domain.Filter) *services.Published
	Get(ctx context.Context, filter domain.Filter) *services.Published
	Snapshot(ctx context.Context, p *services.Published, name, format string, tab charts.Tab) (*services.Snapshot, error)
	Export(ctx context.Context, p *services.Published, format exporter.Format, archive bool) (*services.ExportResult, error)
}

var _ DashboardService = (*services.DashboardService)(nil)
