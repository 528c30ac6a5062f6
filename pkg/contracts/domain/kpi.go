package domain

// KPI holds the headline numbers derived once aggregation completes
type KPI struct {
	TotalSales     float64 `json:"totalSales"`
	TotalOrders    float64 `json:"totalOrders"`
	TotalCustomers float64 `json:"totalCustomers"`
	AvgOrderValue  float64 `json:"avgOrderValue"`
}
