package api

import (
	"agriconsole/pkg/contracts/domain"
)

// DashboardResponse is the body of GET /api/dashboard
type DashboardResponse struct {
	ID          string                                     `json:"id"`
	Generation  uint64                                     `json:"generation"`
	From        string                                     `json:"from"`
	To          string                                     `json:"to"`
	TrendFrom   string                                     `json:"trendFrom"`
	Distributor *int                                       `json:"distributorId,omitempty"`
	Loading     bool                                       `json:"loading"`
	ChartsReady bool                                       `json:"chartsReady"`
	KPI         domain.KPI                                 `json:"kpi"`
	Reports     map[domain.ReportKind]*domain.ReportResult `json:"reports"`
	Defaulted   []domain.ReportKind                        `json:"defaulted,omitempty"`
	Charts      []string                                   `json:"charts"`
}

// ArchiveResponse describes an export copied to object storage
type ArchiveResponse struct {
	Filename string `json:"filename"`
	URI      string `json:"uri"`
	Size     int64  `json:"size"`
}
