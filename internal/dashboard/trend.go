package dashboard

import (
	"time"

	"agriconsole/pkg/contracts/domain"
)

// DensifyTrend returns exactly one row per day of window, in date order.
// Rows sharing a date are summed, days without rows are zero and rows
// outside the window or without a parseable date are dropped. Timestamps
// are keyed by their calendar day in loc.
func DensifyTrend(rows []domain.Row, window domain.DateRange, loc *time.Location) []domain.Row {
	days := window.Days()
	if days == 0 {
		return []domain.Row{}
	}

	type totals struct{ sales, invoices float64 }
	byDate := make(map[string]totals, len(rows))
	for _, row := range rows {
		t, ok := row.DateIn(domain.FieldDate, loc)
		if !ok {
			continue
		}
		key := t.Format(domain.DateLayout)
		cur := byDate[key]
		cur.sales += row.Number(domain.FieldTotalSales)
		cur.invoices += row.Number(domain.FieldTotalInvoices)
		byDate[key] = cur
	}

	out := make([]domain.Row, 0, days)
	start := window.From
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format(domain.DateLayout)
		cur := byDate[key]
		out = append(out, domain.Row{
			domain.FieldDate:          key,
			domain.FieldTotalSales:    cur.sales,
			domain.FieldTotalInvoices: cur.invoices,
		})
	}
	return out
}
