package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/powperpay/reportctl/internal"
)

// CSVExporter exports a report's tabular data as CSV. Reports without
// tabular data fall back to a field/value summary.
type CSVExporter struct{}

// Export writes the report as CSV
func (e *CSVExporter) Export(report *internal.Report, w io.Writer) error {
	if report.Table != nil && len(report.Table.Rows) > 0 {
		return e.exportTable(report.Table, w)
	}
	return e.exportSummary(report, w)
}

// exportTable emits a header row from the stored column keys followed by
// one line per data row.
func (e *CSVExporter) exportTable(table *internal.TabularData, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s\n", strings.Join(table.Columns, ",")); err != nil {
		return err
	}
	for _, row := range table.Rows {
		cells := make([]string, len(table.Columns))
		for i, col := range table.Columns {
			cells[i] = escapeCell(internal.FormatCell(row[col]))
		}
		if _, err := fmt.Fprintf(w, "%s\n", strings.Join(cells, ",")); err != nil {
			return err
		}
	}
	return nil
}

// exportSummary is the fallback for reports without a result set
func (e *CSVExporter) exportSummary(report *internal.Report, w io.Writer) error {
	rows := [][2]string{
		{"Title", report.Title},
		{"Type", report.Type},
		{"Created At", report.CreatedAt.Format("2006-01-02")},
		{"Description", report.Description},
	}
	if _, err := fmt.Fprint(w, "Field,Value\n"); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s,%s\n", row[0], quoteCell(row[1])); err != nil {
			return err
		}
	}
	return nil
}

// escapeCell quotes a cell only when it contains a comma or a double
// quote, doubling internal quotes.
func escapeCell(value string) string {
	if strings.ContainsAny(value, ",\"") {
		return quoteCell(value)
	}
	return value
}

func quoteCell(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// Extension returns the file extension for this format
func (e *CSVExporter) Extension() string {
	return "csv"
}
