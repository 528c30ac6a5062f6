package exporter

import (
	"math"

	"github.com/shopspring/decimal"

	"agriconsole/internal/charts"
	"agriconsole/pkg/contracts/domain"
)

// KPISectionTitle heads the summary preamble in every format
const KPISectionTitle = "KPI Summary"

// MissingPrint stands in for a null value in the print document
const MissingPrint = "-"

// plainCell formats a cell for CSV and spreadsheet output. Missing values
// come back empty; currency always carries exactly two decimals.
func plainCell(row domain.Row, c Column) string {
	if !row.Has(c.Field) {
		return ""
	}
	switch c.Kind {
	case ColumnMoney:
		return formatMoney(row.Number(c.Field))
	case ColumnQuantity:
		return formatQuantity(row.Number(c.Field))
	case ColumnCount:
		return formatCount(row.Number(c.Field))
	case ColumnDate:
		if t, ok := row.Date(c.Field); ok {
			return t.Format(domain.DateLayout)
		}
		return row.String(c.Field)
	default:
		return row.String(c.Field)
	}
}

// printCell formats a cell for the print document
func printCell(f *charts.Formatter, row domain.Row, c Column) string {
	if !row.Has(c.Field) {
		return MissingPrint
	}
	switch c.Kind {
	case ColumnMoney:
		return f.Money(row.Number(c.Field))
	case ColumnQuantity:
		return f.Quantity(row.Number(c.Field))
	case ColumnCount:
		return f.Number(row.Number(c.Field))
	default:
		if s := plainCell(row, c); s != "" {
			return s
		}
		return MissingPrint
	}
}

// plainMetric formats a KPI value for CSV and spreadsheet output
func plainMetric(m KPIMetric) string {
	if m.Kind == ColumnMoney {
		return formatMoney(m.Value)
	}
	return formatCount(m.Value)
}

// printMetric formats a KPI value for the print document
func printMetric(f *charts.Formatter, m KPIMetric) string {
	if m.Kind == ColumnMoney {
		return f.Money(m.Value)
	}
	return f.Number(m.Value)
}

// formatMoney formats currency with exactly 2 decimal places, so 13.4 appears as 13.40
func formatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func formatQuantity(v float64) string {
	return decimal.NewFromFloat(v).String()
}

func formatCount(v float64) string {
	return decimal.NewFromFloat(math.Round(v)).String()
}
