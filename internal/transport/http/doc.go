// Package http contains the chi handlers of the analytics API.
//
//	GET /api/dashboard                      aggregated dashboard for a filter
//	GET /api/dashboard/charts/{chart}       chart snapshot (svg or png)
//	GET /api/dashboard/export/{format}      csv, xls, xlsx, print or pdf export
//	GET /api/health                         health status
//
// Every dashboard endpoint takes from and to (YYYY-MM-DD) and an optional
// distributorId. Errors are rendered as RFC 7807 problem details.
package http
