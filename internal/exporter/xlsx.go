package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"agriconsole/pkg/contracts/domain"
)

// SummarySheet holds the title, period and KPI preamble
const SummarySheet = "Summary"

// Excel number formats
const (
	numFmtMoney = "#,##0.00"
	numFmtCount = "#,##0"
)

type xlsxStyles struct {
	header int
	title  int
	money  int
	count  int
}

// ToXLSX renders the document as a workbook with one sheet per section,
// in export order after the summary sheet.
func ToXLSX(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	styles, err := newXLSXStyles(f)
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeSummarySheet(f, doc, styles); err != nil {
		return nil, err
	}

	for _, ds := range doc.Datasets {
		if _, err := f.NewSheet(ds.Title); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", ds.Title, err)
		}
		if err := writeDatasetSheet(f, ds, styles); err != nil {
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func newXLSXStyles(f *excelize.File) (xlsxStyles, error) {
	var s xlsxStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"2E7D32"}},
	}); err != nil {
		return s, fmt.Errorf("failed to create header style: %w", err)
	}
	if s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}}); err != nil {
		return s, fmt.Errorf("failed to create title style: %w", err)
	}
	moneyFmt := numFmtMoney
	if s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt}); err != nil {
		return s, fmt.Errorf("failed to create money style: %w", err)
	}
	countFmt := numFmtCount
	if s.count, err = f.NewStyle(&excelize.Style{CustomNumFmt: &countFmt}); err != nil {
		return s, fmt.Errorf("failed to create count style: %w", err)
	}
	return s, nil
}

func writeSummarySheet(f *excelize.File, doc Document, styles xlsxStyles) error {
	rows := [][]any{
		{doc.Title},
		{"Period", doc.Period()},
		{},
		{"Metric", "Value"},
	}
	for _, m := range doc.Metrics() {
		rows = append(rows, []any{m.Label, m.Value})
	}
	for i, row := range rows {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "A1", styles.title); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A4", "B4", styles.header); err != nil {
		return err
	}
	for i, m := range doc.Metrics() {
		cell, _ := excelize.CoordinatesToCellName(2, 5+i)
		if err := f.SetCellStyle(SummarySheet, cell, cell, metricStyle(m.Kind, styles)); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", "B", 24)
}

func writeDatasetSheet(f *excelize.File, ds Dataset, styles xlsxStyles) error {
	headers := make([]any, len(ds.Columns))
	for i, c := range ds.Columns {
		headers[i] = c.Header
	}
	if err := setRow(f, ds.Title, 1, headers); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(ds.Columns), 1)
	if err := f.SetCellStyle(ds.Title, "A1", last, styles.header); err != nil {
		return err
	}

	for r, row := range ds.Rows {
		values := make([]any, len(ds.Columns))
		for i, c := range ds.Columns {
			values[i] = xlsxValue(row, c)
		}
		if err := setRow(f, ds.Title, r+2, values); err != nil {
			return err
		}
	}

	if len(ds.Rows) > 0 {
		for i, c := range ds.Columns {
			if c.Kind != ColumnMoney && c.Kind != ColumnCount {
				continue
			}
			top, _ := excelize.CoordinatesToCellName(i+1, 2)
			bottom, _ := excelize.CoordinatesToCellName(i+1, len(ds.Rows)+1)
			if err := f.SetCellStyle(ds.Title, top, bottom, metricStyle(c.Kind, styles)); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(ds.Title, "A", "A", 28)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// xlsxValue keeps numbers numeric so the workbook can sum them. Missing
// values stay blank.
func xlsxValue(row domain.Row, c Column) any {
	if !row.Has(c.Field) {
		return nil
	}
	switch c.Kind {
	case ColumnMoney, ColumnQuantity, ColumnCount:
		return row.Number(c.Field)
	default:
		return plainCell(row, c)
	}
}

func metricStyle(kind ColumnKind, styles xlsxStyles) int {
	if kind == ColumnMoney {
		return styles.money
	}
	return styles.count
}
