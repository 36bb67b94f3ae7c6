package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/powperpay/reportctl/internal"
)

func TestJSONExporter_Export(t *testing.T) {
	tests := []struct {
		name   string
		report *internal.Report
	}{
		{
			name:   "full report",
			report: internal.CreateTestReport("test1"),
		},
		{
			name: "report without table",
			report: &internal.Report{
				ID:     "test2",
				Title:  "Empty",
				Status: internal.StatusDraft,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exporter := &JSONExporter{}

			if err := exporter.Export(tt.report, &buf); err != nil {
				t.Fatalf("JSONExporter.Export() error = %v", err)
			}

			output := buf.String()
			// Verify it's valid JSON
			var report internal.Report
			if err := json.Unmarshal([]byte(output), &report); err != nil {
				t.Fatalf("Output is not valid JSON: %v\nOutput: %s", err, output)
			}
			if report.ID != tt.report.ID {
				t.Errorf("round-tripped id = %q, want %q", report.ID, tt.report.ID)
			}

			// Verify it's pretty-printed (contains indentation)
			if !strings.Contains(output, "  ") {
				t.Error("Output should be pretty-printed with indentation")
			}
		})
	}
}

func TestJSONExporter_Extension(t *testing.T) {
	if got := (&JSONExporter{}).Extension(); got != "json" {
		t.Errorf("Extension() = %q, want json", got)
	}
}
