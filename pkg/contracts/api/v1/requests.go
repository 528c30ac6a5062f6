// Package api contains the HTTP contract of the analytics dashboard.
// Version v1 represents the current stable API version.
package api

import (
	"agriconsole/pkg/contracts/domain"
)

// DashboardQuery is the filter shared by every dashboard endpoint
type DashboardQuery struct {
	From          string `json:"from" query:"from" validate:"required,datetime=2006-01-02"`
	To            string `json:"to" query:"to" validate:"required,datetime=2006-01-02,daterange_after=From"`
	DistributorID *int   `json:"distributorId,omitempty" query:"distributorId" validate:"omitempty,min=1"`
}

// Filter converts a validated query into the domain filter
func (q DashboardQuery) Filter() (domain.Filter, error) {
	r, err := domain.NewDateRange(q.From, q.To)
	if err != nil {
		return domain.Filter{}, err
	}
	return domain.Filter{Range: r, DistributorID: q.DistributorID}, nil
}

// ChartQuery selects a chart image
type ChartQuery struct {
	DashboardQuery
	Chart  string `json:"chart" param:"chart" validate:"required"`
	Format string `json:"format" query:"format" validate:"omitempty,oneof=svg png"`
	Tab    string `json:"tab" query:"tab" validate:"omitempty,oneof=crop disease"`
}

// ExportQuery selects an export format
type ExportQuery struct {
	DashboardQuery
	Format  string `json:"format" param:"format" validate:"required,oneof=csv xls xlsx print pdf"`
	Archive bool   `json:"archive" query:"archive"`
}
