package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset is a table of string cells. Keys name the row entry of each column
// and must be unique; when Keys is empty the headers double as keys.
type Dataset struct {
	Title   string
	Headers []string
	Keys    []string
	Rows    []map[string]string
}

// Key returns the row key of column i.
func (d Dataset) Key(i int) string {
	if len(d.Keys) > 0 {
		return d.Keys[i]
	}
	return d.Headers[i]
}

// Validate checks that the dataset has columns with distinct keys.
func (d Dataset) Validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("dataset requires at least one header")
	}
	if len(d.Keys) > 0 && len(d.Keys) != len(d.Headers) {
		return fmt.Errorf("dataset has %d keys for %d headers", len(d.Keys), len(d.Headers))
	}
	seen := make(map[string]struct{}, len(d.Headers))
	for i := range d.Headers {
		key := d.Key(i)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate column key %q", key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Width reports the widest rendered value per column, header included.
func (d Dataset) Width() []int {
	widths := make([]int, len(d.Headers))
	for i, header := range d.Headers {
		widths[i] = len([]rune(header))
		key := d.Key(i)
		for _, row := range d.Rows {
			if n := len([]rune(row[key])); n > widths[i] {
				widths[i] = n
			}
		}
	}
	return widths
}

// CSVExporter renders a Dataset as CSV.
type CSVExporter struct {
	comma rune
}

// NewCSVExporter builds a comma separated exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{comma: ','}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("csv: %w", err)
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	writer.Comma = e.comma
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	record := make([]string, len(data.Headers))
	for _, row := range data.Rows {
		for i := range data.Headers {
			record[i] = row[data.Key(i)]
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
