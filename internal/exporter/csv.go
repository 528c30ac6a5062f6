package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// utf8BOM helps Excel recognize UTF-8, which matters for the rupee sign
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVOptions configures CSV writing behavior
type CSVOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// CSVWriter streams records to an underlying writer
type CSVWriter struct {
	writer *csv.Writer
	rows   int
}

// NewCSVWriter creates a CSV writer, writing the BOM first if requested
func NewCSVWriter(w io.Writer, opts CSVOptions) (*CSVWriter, error) {
	if opts.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}
	return &CSVWriter{writer: csv.NewWriter(w)}, nil
}

// WriteRecord writes a single record
func (c *CSVWriter) WriteRecord(record ...string) error {
	if err := c.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write record %d: %w", c.rows, err)
	}
	c.rows++
	return nil
}

// Blank writes an empty separator line
func (c *CSVWriter) Blank() error {
	return c.WriteRecord()
}

// Close flushes buffered records
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.writer.Error()
}

// WriteCSV writes the document as CSV: title and period, the KPI summary,
// then each dataset section as a title line, a header line and its rows.
func WriteCSV(w io.Writer, doc Document, opts CSVOptions) error {
	cw, err := NewCSVWriter(w, opts)
	if err != nil {
		return err
	}

	if err := cw.WriteRecord(doc.Title); err != nil {
		return err
	}
	if err := cw.WriteRecord("Period", doc.Period()); err != nil {
		return err
	}
	if err := cw.Blank(); err != nil {
		return err
	}

	if err := cw.WriteRecord(KPISectionTitle); err != nil {
		return err
	}
	if err := cw.WriteRecord("Metric", "Value"); err != nil {
		return err
	}
	for _, m := range doc.Metrics() {
		if err := cw.WriteRecord(m.Label, plainMetric(m)); err != nil {
			return err
		}
	}

	for _, ds := range doc.Datasets {
		if err := cw.Blank(); err != nil {
			return err
		}
		if err := cw.WriteRecord(ds.Title); err != nil {
			return err
		}
		if err := cw.WriteRecord(ds.Headers()...); err != nil {
			return err
		}
		for _, row := range ds.Rows {
			record := make([]string, len(ds.Columns))
			for i, c := range ds.Columns {
				record[i] = plainCell(row, c)
			}
			if err := cw.WriteRecord(record...); err != nil {
				return err
			}
		}
	}

	return cw.Close()
}

// ToCSV renders the document as CSV text
func ToCSV(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, doc, CSVOptions{BOMPrefix: true}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
