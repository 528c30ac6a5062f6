package config

import "time"

// Application constants
const (
	AppName    = "Agri Console Analytics"
	AppVersion = "1.4.0"

	// API Endpoints
	APIBasePath       = "/api"
	DashboardEndpoint = "/api/dashboard"
	HealthEndpoint    = "/api/health"
	MetricsEndpoint   = "/metrics"
	WebSocketEndpoint = "/ws"

	// Upstream report defaults
	DefaultTrendWindowDays = 30
	DefaultTopItemsLimit   = 10
	DefaultReportTimeout   = 20 * time.Second

	// Chart limits
	CategoryChartLimit    = 8
	DistributorChartLimit = 10
	CropChartLimit        = 8
	DiseaseChartLimit     = 6
	TreemapItemLimit      = 20
	TopItemSeriesLimit    = 5

	// Export filename patterns
	CSVFilenamePattern      = "analytics_data_%s_to_%s.csv"
	XLSFilenamePattern      = "analytics_report_%s_to_%s.xls"
	XLSXFilenamePattern     = "analytics_report_%s_to_%s.xlsx"
	PDFFilenamePattern      = "analytics_report_%s_to_%s.pdf"
	PrintFilenamePattern    = "analytics_report_%s_to_%s.html"
	SnapshotFilenamePattern = "%s_%s_to_%s.%s"

	// User-facing notices
	MsgNoDataToDownload = "No data to download"
)
