package dashboard

import (
	"maps"

	"agriconsole/pkg/contracts/domain"
)

// CalculateKPI derives the headline numbers. Totals come from the daily
// trend; the customer count comes from the item summary.
func CalculateKPI(trend []domain.Row, summary *domain.ReportResult) domain.KPI {
	var k domain.KPI
	for _, row := range trend {
		k.TotalSales += row.Number(domain.FieldTotalSales)
		k.TotalOrders += row.Number(domain.FieldTotalInvoices)
	}
	k.TotalCustomers = summary.SummaryValue(domain.SummaryTotalCustomers)
	if k.TotalOrders > 0 {
		k.AvgOrderValue = k.TotalSales / k.TotalOrders
	}
	return k
}

// finalizeSummary returns a copy of the item summary whose totals agree with
// the KPI. Sales and orders come from the trend, never from the source.
func finalizeSummary(result *domain.ReportResult, kpi domain.KPI) *domain.ReportResult {
	out := &domain.ReportResult{Summary: make(map[string]float64), Rows: []domain.Row{}}
	if result != nil {
		maps.Copy(out.Summary, result.Summary)
		if result.Rows != nil {
			out.Rows = result.Rows
		}
	}
	out.Summary[domain.SummaryTotalSales] = kpi.TotalSales
	out.Summary[domain.SummaryTotalOrders] = kpi.TotalOrders
	return out
}
