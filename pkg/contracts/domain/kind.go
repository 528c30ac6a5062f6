package domain

// ReportKind names one of the fixed report sources
type ReportKind string

const (
	KindDailyTrend       ReportKind = "daily-trend"
	KindCategorySales    ReportKind = "category-sales"
	KindDistributorSales ReportKind = "distributor-sales"
	KindPaymentStatus    ReportKind = "payment-status"
	KindAreaSales        ReportKind = "area-sales"
	KindTopItems         ReportKind = "top-items"
	KindGSTAnalysis      ReportKind = "gst-analysis"
	KindStateSales       ReportKind = "state-sales"
	KindCropSales        ReportKind = "crop-sales"
	KindDiseaseSales     ReportKind = "disease-sales"
	KindItemSummary      ReportKind = "item-wise-summary"
)

// AllKinds lists every report kind in dispatch order
var AllKinds = []ReportKind{
	KindDailyTrend,
	KindCategorySales,
	KindDistributorSales,
	KindPaymentStatus,
	KindAreaSales,
	KindTopItems,
	KindGSTAnalysis,
	KindStateSales,
	KindCropSales,
	KindDiseaseSales,
	KindItemSummary,
}

// Valid reports whether k is a known kind
func (k ReportKind) Valid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Row field names. Keys are stable within a kind.
const (
	FieldDate            = "date"
	FieldTotalSales      = "totalSales"
	FieldTotalInvoices   = "totalInvoices"
	FieldCategory        = "category"
	FieldTotalAmount     = "totalAmount"
	FieldTotalQuantity   = "totalQuantity"
	FieldDistributorName = "distributorName"
	FieldStatus          = "status"
	FieldCount           = "count"
	FieldArea            = "area"
	FieldItemName        = "itemName"
	FieldGSTRate         = "gstRate"
	FieldTaxableAmount   = "taxableAmount"
	FieldGSTAmount       = "gstAmount"
	FieldState           = "state"
	FieldCrop            = "crop"
	FieldDisease         = "disease"
)

// Summary keys
const (
	SummaryTotalCustomers = "totalCustomers"
	SummaryTotalSales     = "totalSales"
	SummaryTotalOrders    = "totalOrders"
	SummaryTotalGST       = "totalGst"
)
