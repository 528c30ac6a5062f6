package exporter

import (
	"time"

	"agriconsole/internal/config"
	"agriconsole/pkg/contracts/domain"
)

// ColumnKind selects how a cell is formatted
type ColumnKind int

const (
	ColumnText ColumnKind = iota
	ColumnDate
	ColumnMoney
	ColumnQuantity
	ColumnCount
)

// Column is one fixed column of a section
type Column struct {
	Header string
	Field  string
	Kind   ColumnKind
}

// Section describes one dataset block of an export
type Section struct {
	ID      string
	Title   string
	Kind    domain.ReportKind
	Columns []Column
}

// Sections lists the dataset sections in export order
var Sections = []Section{
	{
		ID: "daily-trend", Title: "Daily Sales Trend", Kind: domain.KindDailyTrend,
		Columns: []Column{
			{"Date", domain.FieldDate, ColumnDate},
			{"Total Sales", domain.FieldTotalSales, ColumnMoney},
			{"Invoices", domain.FieldTotalInvoices, ColumnCount},
		},
	},
	{
		ID: "category-sales", Title: "Category-wise Sales", Kind: domain.KindCategorySales,
		Columns: []Column{
			{"Category", domain.FieldCategory, ColumnText},
			{"Total Amount", domain.FieldTotalAmount, ColumnMoney},
			{"Total Quantity", domain.FieldTotalQuantity, ColumnQuantity},
		},
	},
	{
		ID: "top-items", Title: "Top Selling Items", Kind: domain.KindTopItems,
		Columns: []Column{
			{"Item", domain.FieldItemName, ColumnText},
			{"Quantity", domain.FieldTotalQuantity, ColumnQuantity},
			{"Amount", domain.FieldTotalAmount, ColumnMoney},
		},
	},
	{
		ID: "distributor-performance", Title: "Distributor Performance", Kind: domain.KindDistributorSales,
		Columns: []Column{
			{"Distributor", domain.FieldDistributorName, ColumnText},
			{"Total Amount", domain.FieldTotalAmount, ColumnMoney},
			{"Invoices", domain.FieldTotalInvoices, ColumnCount},
		},
	},
	{
		ID: "state-sales", Title: "State-wise Sales", Kind: domain.KindStateSales,
		Columns: []Column{
			{"State", domain.FieldState, ColumnText},
			{"Total Amount", domain.FieldTotalAmount, ColumnMoney},
			{"Invoices", domain.FieldTotalInvoices, ColumnCount},
		},
	},
	{
		ID: "area-sales", Title: "Area-wise Sales", Kind: domain.KindAreaSales,
		Columns: []Column{
			{"Area", domain.FieldArea, ColumnText},
			{"Total Amount", domain.FieldTotalAmount, ColumnMoney},
			{"Invoices", domain.FieldTotalInvoices, ColumnCount},
		},
	},
	{
		ID: "crop-sales", Title: "Crop-wise Sales", Kind: domain.KindCropSales,
		Columns: []Column{
			{"Crop", domain.FieldCrop, ColumnText},
			{"Total Amount", domain.FieldTotalAmount, ColumnMoney},
			{"Total Quantity", domain.FieldTotalQuantity, ColumnQuantity},
		},
	},
	{
		ID: "disease-sales", Title: "Disease-wise Sales", Kind: domain.KindDiseaseSales,
		Columns: []Column{
			{"Disease", domain.FieldDisease, ColumnText},
			{"Total Amount", domain.FieldTotalAmount, ColumnMoney},
			{"Total Quantity", domain.FieldTotalQuantity, ColumnQuantity},
		},
	},
}

// Headers returns the column headers of the section
func (s Section) Headers() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Header
	}
	return out
}

// Source is the read side of a settled dashboard. *dashboard.State satisfies it.
type Source interface {
	Range() domain.DateRange
	KPI() domain.KPI
	Rows(kind domain.ReportKind) []domain.Row
}

// Dataset is a section with its rows
type Dataset struct {
	Section
	Rows []domain.Row
}

// Document is the format-independent content of an export
type Document struct {
	Title       string
	Range       domain.DateRange
	KPI         domain.KPI
	Datasets    []Dataset
	GeneratedAt time.Time
}

// KPIMetric is one line of the summary preamble
type KPIMetric struct {
	Label string
	Value float64
	Kind  ColumnKind
}

// NewDocument collects every section from the source in export order
func NewDocument(title string, src Source) Document {
	if title == "" {
		title = config.AppName
	}
	doc := Document{
		Title:       title,
		Range:       src.Range(),
		KPI:         src.KPI(),
		Datasets:    make([]Dataset, 0, len(Sections)),
		GeneratedAt: time.Now(),
	}
	for _, s := range Sections {
		doc.Datasets = append(doc.Datasets, Dataset{Section: s, Rows: src.Rows(s.Kind)})
	}
	return doc
}

// Metrics returns the KPI preamble lines
func (d Document) Metrics() []KPIMetric {
	return []KPIMetric{
		{"Total Sales", d.KPI.TotalSales, ColumnMoney},
		{"Total Orders", d.KPI.TotalOrders, ColumnCount},
		{"Total Customers", d.KPI.TotalCustomers, ColumnCount},
		{"Average Order Value", d.KPI.AvgOrderValue, ColumnMoney},
	}
}

// HasData reports whether anything is worth downloading. A trend made only
// of zero-filled days does not count.
func (d Document) HasData() bool {
	for _, ds := range d.Datasets {
		if ds.Kind != domain.KindDailyTrend {
			if len(ds.Rows) > 0 {
				return true
			}
			continue
		}
		for _, row := range ds.Rows {
			if row.Number(domain.FieldTotalSales) != 0 || row.Number(domain.FieldTotalInvoices) != 0 {
				return true
			}
		}
	}
	return false
}

// Period is the human-readable date range, e.g. "2024-01-01 to 2024-01-31"
func (d Document) Period() string {
	return d.Range.FromString() + " to " + d.Range.ToString()
}
