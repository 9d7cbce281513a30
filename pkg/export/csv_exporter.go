package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// GridCell is one slot of a Grid. An anchor carries Text and the number of
// rows it spans; the rows below it inside the span are Covered.
type GridCell struct {
	Text    string
	Span    int
	Covered bool
}

// Grid is a table whose cells may span several rows of their column.
type Grid struct {
	Corner     string
	Columns    []string
	RowHeaders []string
	Cells      [][]GridCell
}

func (g Grid) validate() error {
	if len(g.Columns) == 0 {
		return fmt.Errorf("grid requires at least one column")
	}
	if len(g.Cells) != len(g.RowHeaders) {
		return fmt.Errorf("grid has %d rows but %d row headers", len(g.Cells), len(g.RowHeaders))
	}
	for i, row := range g.Cells {
		if len(row) != len(g.Columns) {
			return fmt.Errorf("grid row %d has %d cells, want %d", i, len(row), len(g.Columns))
		}
	}
	return nil
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	records := make([][]string, 0, len(data.Rows)+1)
	records = append(records, data.Headers)
	for _, row := range data.Rows {
		record := make([]string, len(data.Headers))
		for i, header := range data.Headers {
			record[i] = row[header]
		}
		records = append(records, record)
	}
	return writeCSV(records)
}

// RenderGrid writes one CSV row per grid row. CSV cannot merge cells, so a
// covered slot repeats nothing and is left blank.
func (e *CSVExporter) RenderGrid(grid Grid) ([]byte, error) {
	if err := grid.validate(); err != nil {
		return nil, err
	}
	records := make([][]string, 0, len(grid.Cells)+1)
	records = append(records, append([]string{grid.Corner}, grid.Columns...))
	for i, row := range grid.Cells {
		record := make([]string, 0, len(row)+1)
		record = append(record, grid.RowHeaders[i])
		for _, cell := range row {
			if cell.Covered {
				record = append(record, "")
				continue
			}
			record = append(record, cell.Text)
		}
		records = append(records, record)
	}
	return writeCSV(records)
}

func writeCSV(records [][]string) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			if i == 0 {
				return nil, fmt.Errorf("write csv headers: %w", err)
			}
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
