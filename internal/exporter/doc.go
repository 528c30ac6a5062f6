// Package exporter serializes a settled dashboard into downloadable reports.
//
// Every format reproduces the same logical layout: a KPI summary preamble
// followed by the dataset sections listed in Sections, in that order.
//
// Formats:
//
//	csv    text/csv, currency with two fixed decimals, missing values empty
//	xls    HTML table markup that spreadsheet applications open directly
//	xlsx   excelize workbook, one sheet per section
//	print  standalone HTML with embedded chart images, locale currency, "-" for missing
//	pdf    the print document rendered by headless Chrome
//
// Example usage:
//
//	engine := exporter.NewEngine(cfg.Export, formatter, rasterizer, logger)
//	artifact, err := engine.Export(ctx, exporter.FormatCSV, state, nil)
//	if errors.Is(err, exporter.ErrNoData) {
//	    // nothing to download
//	}
package exporter
