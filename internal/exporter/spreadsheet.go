package exporter

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

// spreadsheetTemplate is HTML that Excel and LibreOffice open as a workbook.
// Cells hold the same plain values as the CSV.
var spreadsheetTemplate = template.Must(template.New("xls").Parse(`<html xmlns:o="urn:schemas-microsoft-com:office:office" xmlns:x="urn:schemas-microsoft-com:office:excel" xmlns="http://www.w3.org/TR/REC-html40">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
th { background: #2e7d32; color: #fff; font-weight: bold; }
td.num { mso-number-format: "0.00"; text-align: right; }
.section-title { font-size: 14pt; font-weight: bold; }
</style>
</head>
<body>
<table data-section="kpi">
<tr><td class="section-title" colspan="2">{{.Title}}</td></tr>
<tr><td>Period</td><td>{{.Period}}</td></tr>
<tr><td class="section-title" colspan="2">{{.KPITitle}}</td></tr>
<tr><th>Metric</th><th>Value</th></tr>
{{- range .Metrics}}
<tr class="data"><td>{{.Label}}</td><td class="num">{{.Value}}</td></tr>
{{- end}}
</table>
{{- range .Sections}}
<br>
<table data-section="{{.ID}}">
<tr><td class="section-title" colspan="{{len .Headers}}">{{.Title}}</td></tr>
<tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr>
{{- range .Rows}}
<tr class="data">{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</table>
{{- end}}
</body>
</html>
`))

type markupMetric struct {
	Label string
	Value string
}

type markupSection struct {
	ID      string
	Title   string
	Headers []string
	Rows    [][]string
	Note    string
}

type markupData struct {
	Title    string
	Period   string
	KPITitle string
	Metrics  []markupMetric
	Sections []markupSection
}

func spreadsheetData(doc Document) markupData {
	data := markupData{
		Title:    doc.Title,
		Period:   doc.Period(),
		KPITitle: KPISectionTitle,
	}
	for _, m := range doc.Metrics() {
		data.Metrics = append(data.Metrics, markupMetric{m.Label, plainMetric(m)})
	}
	for _, ds := range doc.Datasets {
		sec := markupSection{ID: ds.ID, Title: ds.Title, Headers: ds.Headers()}
		for _, row := range ds.Rows {
			cells := make([]string, len(ds.Columns))
			for i, c := range ds.Columns {
				cells[i] = plainCell(row, c)
			}
			sec.Rows = append(sec.Rows, cells)
		}
		data.Sections = append(data.Sections, sec)
	}
	return data
}

// WriteSpreadsheetMarkup writes the document as spreadsheet-compatible HTML
func WriteSpreadsheetMarkup(w io.Writer, doc Document) error {
	if err := spreadsheetTemplate.Execute(w, spreadsheetData(doc)); err != nil {
		return fmt.Errorf("failed to render spreadsheet markup: %w", err)
	}
	return nil
}

// ToSpreadsheetMarkup renders the document as spreadsheet-compatible HTML
func ToSpreadsheetMarkup(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSpreadsheetMarkup(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
