package exporter

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"io"

	"agriconsole/internal/charts"
)

// ChartImage is a pre-rendered chart embedded in the print document.
// The exporter treats Data as opaque.
type ChartImage struct {
	Name     string
	Title    string
	MIMEType string
	Data     []byte
}

// DataURI returns the image as a data: URL
func (c ChartImage) DataURI() template.URL {
	return template.URL("data:" + c.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(c.Data))
}

// PrintOptions controls the print document
type PrintOptions struct {
	// RowsPerSection caps the rows printed per section. Zero prints every row.
	RowsPerSection int
	// AutoPrint opens the print dialog once the document loads
	AutoPrint bool
}

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>{{.Title}} {{.Period}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 24px; color: #212121; }
h1 { color: #1b5e20; margin-bottom: 4px; }
.period { color: #616161; margin-bottom: 16px; }
.kpis { display: flex; gap: 12px; margin-bottom: 24px; }
.kpi { flex: 1; border: 1px solid #c8e6c9; border-radius: 6px; padding: 12px; }
.kpi .label { font-size: 11px; color: #616161; text-transform: uppercase; }
.kpi .value { font-size: 20px; font-weight: bold; }
.charts { display: grid; grid-template-columns: 1fr 1fr; gap: 16px; }
.chart { page-break-inside: avoid; }
.chart img { width: 100%; border: 1px solid #eeeeee; }
section { page-break-inside: avoid; margin-top: 24px; }
table { width: 100%; border-collapse: collapse; font-size: 12px; }
th { background: #2e7d32; color: #fff; text-align: left; padding: 6px; }
td { border-bottom: 1px solid #e0e0e0; padding: 5px 6px; }
.note { font-size: 11px; color: #757575; margin-top: 4px; }
footer { margin-top: 32px; font-size: 10px; color: #9e9e9e; }
@media print { .charts { page-break-after: always; } }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="period">{{.Period}}</div>
<section data-section="kpi">
<h2>{{.KPITitle}}</h2>
<div class="kpis">
{{- range .Metrics}}
<div class="kpi"><div class="label">{{.Label}}</div><div class="value">{{.Value}}</div></div>
{{- end}}
</div>
</section>
{{- if .Charts}}
<div class="charts">
{{- range .Charts}}
<figure class="chart" data-chart="{{.Name}}"><img src="{{.DataURI}}" alt="{{.Title}}"><figcaption>{{.Title}}</figcaption></figure>
{{- end}}
</div>
{{- end}}
{{- range .Sections}}
<section data-section="{{.ID}}">
<h2>{{.Title}}</h2>
<table>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr class="data">{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
{{- if .Note}}
<div class="note">{{.Note}}</div>
{{- end}}
</section>
{{- end}}
<footer>Generated {{.Generated}}</footer>
{{- if .AutoPrint}}
<script>window.addEventListener("load", function () { window.print(); });</script>
{{- end}}
</body>
</html>
`))

type printData struct {
	markupData
	Charts    []ChartImage
	Generated string
	AutoPrint bool
}

func printDocumentData(doc Document, f *charts.Formatter, images []ChartImage, opts PrintOptions) printData {
	data := printData{
		markupData: markupData{
			Title:    doc.Title,
			Period:   doc.Period(),
			KPITitle: KPISectionTitle,
		},
		Charts:    images,
		Generated: doc.GeneratedAt.Format("2006-01-02 15:04"),
		AutoPrint: opts.AutoPrint,
	}
	for _, m := range doc.Metrics() {
		data.Metrics = append(data.Metrics, markupMetric{m.Label, printMetric(f, m)})
	}
	for _, ds := range doc.Datasets {
		sec := markupSection{ID: ds.ID, Title: ds.Title, Headers: ds.Headers()}
		rows := ds.Rows
		if opts.RowsPerSection > 0 && len(rows) > opts.RowsPerSection {
			rows = rows[:opts.RowsPerSection]
			sec.Note = fmt.Sprintf("Showing first %d of %d rows", opts.RowsPerSection, len(ds.Rows))
		}
		if len(ds.Rows) == 0 {
			sec.Note = "No data for this period"
		}
		for _, row := range rows {
			cells := make([]string, len(ds.Columns))
			for i, c := range ds.Columns {
				cells[i] = printCell(f, row, c)
			}
			sec.Rows = append(sec.Rows, cells)
		}
		data.Sections = append(data.Sections, sec)
	}
	return data
}

// WritePrintDocument writes a standalone HTML report with the chart images embedded
func WritePrintDocument(w io.Writer, doc Document, f *charts.Formatter, images []ChartImage, opts PrintOptions) error {
	if err := printTemplate.Execute(w, printDocumentData(doc, f, images, opts)); err != nil {
		return fmt.Errorf("failed to render print document: %w", err)
	}
	return nil
}

// ToPrintDocument renders the print document
func ToPrintDocument(doc Document, f *charts.Formatter, images []ChartImage, opts PrintOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePrintDocument(&buf, doc, f, images, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
