package charts

import (
	"cmp"
	"errors"
	"math"
	"math/rand/v2"
	"slices"

	"agriconsole/internal/config"
	"agriconsole/pkg/contracts/domain"
)

// ErrUnknownChart is returned for a chart name the renderer does not draw
var ErrUnknownChart = errors.New("unknown chart")

// Chart names
const (
	ChartSalesTrend       = "sales-trend"
	ChartCategorySales    = "category-sales"
	ChartDistributorSales = "distributor-sales"
	ChartPaymentStatus    = "payment-status"
	ChartTopItems         = "top-items"
	ChartCropDisease      = "crop-disease"
	ChartTopItemDaily     = "top-item-daily"
)

// Names lists every chart the renderer draws, in page order
var Names = []string{
	ChartSalesTrend,
	ChartCategorySales,
	ChartDistributorSales,
	ChartPaymentStatus,
	ChartTopItems,
	ChartCropDisease,
	ChartTopItemDaily,
}

// Kind is the visual form of a chart
type Kind string

const (
	KindLine       Kind = "line"
	KindDonut      Kind = "donut"
	KindBar        Kind = "bar"
	KindHBar       Kind = "hbar"
	KindGroupedBar Kind = "grouped-bar"
)

// Unit decides how a series' values are formatted
type Unit int

const (
	UnitQuantity Unit = iota
	UnitCurrency
	UnitCount
)

// Axis is the value scale a series is drawn against
type Axis int

const (
	AxisLeft Axis = iota
	AxisRight
)

// Tab selects the dataset shown by the crop/disease chart
type Tab string

const (
	TabCrop    Tab = "crop"
	TabDisease Tab = "disease"
)

// Series is one named list of values aligned with Spec.Labels
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	Unit   Unit      `json:"unit"`
	Axis   Axis      `json:"axis"`
	Color  string    `json:"color"`
}

// Spec describes a chart independent of any drawing surface
type Spec struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Kind        Kind     `json:"kind"`
	Labels      []string `json:"labels"`
	Series      []Series `json:"series"`
	Colors      []string `json:"colors,omitempty"`
	Approximate bool     `json:"approximate,omitempty"`
	Note        string   `json:"note,omitempty"`
}

// Empty reports whether there is nothing to draw
func (s Spec) Empty() bool {
	return len(s.Labels) == 0 || len(s.Series) == 0
}

// TrendSpec draws daily sales against invoice counts on two scales
func TrendSpec(rows []domain.Row) Spec {
	labels := make([]string, len(rows))
	sales := make([]float64, len(rows))
	invoices := make([]float64, len(rows))
	for i, row := range rows {
		labels[i] = row.String(domain.FieldDate)
		sales[i] = row.Number(domain.FieldTotalSales)
		invoices[i] = row.Number(domain.FieldTotalInvoices)
	}
	return Spec{
		Name:   ChartSalesTrend,
		Title:  "Sales Trend",
		Kind:   KindLine,
		Labels: labels,
		Series: []Series{
			{Name: "Sales", Values: sales, Unit: UnitCurrency, Axis: AxisLeft, Color: ColorAt(0)},
			{Name: "Invoices", Values: invoices, Unit: UnitCount, Axis: AxisRight, Color: ColorAt(1)},
		},
	}
}

// CategorySpec draws the top categories by amount. The remainder is dropped.
func CategorySpec(rows []domain.Row) Spec {
	top := TopN(rows, domain.FieldTotalAmount, config.CategoryChartLimit)
	labels, amounts := column(top, domain.FieldCategory, domain.FieldTotalAmount)
	colors := make([]string, len(labels))
	for i := range labels {
		colors[i] = ColorAt(i)
	}
	return Spec{
		Name:   ChartCategorySales,
		Title:  "Category-wise Sales",
		Kind:   KindDonut,
		Labels: labels,
		Series: []Series{{Name: "Amount", Values: amounts, Unit: UnitCurrency}},
		Colors: colors,
	}
}

// DistributorSpec draws the top distributors by amount as horizontal bars
func DistributorSpec(rows []domain.Row) Spec {
	top := TopN(rows, domain.FieldTotalAmount, config.DistributorChartLimit)
	labels, amounts := column(top, domain.FieldDistributorName, domain.FieldTotalAmount)
	return Spec{
		Name:   ChartDistributorSales,
		Title:  "Distributor Performance",
		Kind:   KindHBar,
		Labels: labels,
		Series: []Series{{Name: "Amount", Values: amounts, Unit: UnitCurrency, Color: ColorAt(1)}},
	}
}

// PaymentSpec draws amount per payment status with fixed status colors
func PaymentSpec(rows []domain.Row) Spec {
	labels, amounts := column(rows, domain.FieldStatus, domain.FieldTotalAmount)
	colors := make([]string, len(labels))
	for i, l := range labels {
		colors[i] = PaymentStatusColor(l)
	}
	return Spec{
		Name:   ChartPaymentStatus,
		Title:  "Payment Status",
		Kind:   KindDonut,
		Labels: labels,
		Series: []Series{{Name: "Amount", Values: amounts, Unit: UnitCurrency}},
		Colors: colors,
	}
}

// TopItemsSpec draws quantity and amount per item on two scales
func TopItemsSpec(rows []domain.Row) Spec {
	labels, qty := column(rows, domain.FieldItemName, domain.FieldTotalQuantity)
	_, amounts := column(rows, domain.FieldItemName, domain.FieldTotalAmount)
	return Spec{
		Name:   ChartTopItems,
		Title:  "Top Selling Items",
		Kind:   KindGroupedBar,
		Labels: labels,
		Series: []Series{
			{Name: "Quantity", Values: qty, Unit: UnitQuantity, Axis: AxisLeft, Color: ColorAt(2)},
			{Name: "Amount", Values: amounts, Unit: UnitCurrency, Axis: AxisRight, Color: ColorAt(0)},
		},
	}
}

// CropDiseaseSpec draws the active tab's dataset as bars
func CropDiseaseSpec(tab Tab, rows []domain.Row) Spec {
	labelField, limit, title := domain.FieldCrop, config.CropChartLimit, "Crop-wise Sales"
	if tab == TabDisease {
		labelField, limit, title = domain.FieldDisease, config.DiseaseChartLimit, "Disease-wise Sales"
	}
	top := TopN(rows, domain.FieldTotalAmount, limit)
	labels, amounts := column(top, labelField, domain.FieldTotalAmount)
	return Spec{
		Name:   ChartCropDisease,
		Title:  title,
		Kind:   KindBar,
		Labels: labels,
		Series: []Series{{Name: "Amount", Values: amounts, Unit: UnitCurrency, Color: ColorAt(3)}},
		Note:   string(tab),
	}
}

// ApproximateItemSeries spreads each item's total quantity evenly over the
// given days and perturbs every day by up to ±jitter of the daily share.
// The result is an estimate, not a measured per-day series.
func ApproximateItemSeries(items []domain.Row, days []string, jitter float64, rng *rand.Rand) Spec {
	spec := Spec{
		Name:        ChartTopItemDaily,
		Title:       "Top Items Daily (estimated)",
		Kind:        KindLine,
		Labels:      slices.Clone(days),
		Approximate: true,
		Note:        "Estimated from item totals; not a measured daily series",
	}
	if len(days) == 0 {
		return spec
	}

	if len(items) > config.TopItemSeriesLimit {
		items = items[:config.TopItemSeriesLimit]
	}
	for i, item := range items {
		share := item.Number(domain.FieldTotalQuantity) / float64(len(days))
		values := make([]float64, len(days))
		for d := range days {
			noise := 1.0
			if jitter > 0 && rng != nil {
				noise += jitter * (2*rng.Float64() - 1)
			}
			values[d] = math.Max(0, math.Round(share*noise))
		}
		spec.Series = append(spec.Series, Series{
			Name:   item.String(domain.FieldItemName),
			Values: values,
			Unit:   UnitQuantity,
			Color:  ColorAt(i),
		})
	}
	return spec
}

// TopN returns up to n rows ordered by descending value. Ties keep their
// input order.
func TopN(rows []domain.Row, valueField string, n int) []domain.Row {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b domain.Row) int {
		return cmp.Compare(b.Number(valueField), a.Number(valueField))
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func column(rows []domain.Row, labelField, valueField string) ([]string, []float64) {
	labels := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, row := range rows {
		labels[i] = row.String(labelField)
		values[i] = row.Number(valueField)
	}
	return labels, values
}
