package export

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/powperpay/reportctl/internal"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(report *internal.Report, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "csv":
		return &CSVExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: csv, json, yaml)", format)
	}
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Filename derives the output filename from a report title: every
// non-alphanumeric character replaced, lowercased, plus the format
// extension.
func Filename(report *internal.Report, ext string) string {
	name := strings.ToLower(nonAlphanumeric.ReplaceAllString(report.Title, "_"))
	if strings.Trim(name, "_") == "" {
		name = "report"
	}
	return name + "." + ext
}
