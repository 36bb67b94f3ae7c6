package export

import (
	"testing"

	"github.com/powperpay/reportctl/internal"
)

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"csv", false},
		{"json", false},
		{"yaml", false},
		{"xml", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exporter, err := NewExporter(tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewExporter(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
			if !tt.wantErr && exporter.Extension() != tt.format {
				t.Errorf("Extension() = %q, want %q", exporter.Extension(), tt.format)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name  string
		title string
		ext   string
		want  string
	}{
		{"spaces replaced and lowercased", "Payroll Summary Q3", "csv", "payroll_summary_q3.csv"},
		{"punctuation replaced", "Benefits: 2026 (draft)", "json", "benefits__2026__draft_.json"},
		{"empty title falls back", "", "csv", "report.csv"},
		{"only symbols falls back", "!!!", "yaml", "report.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := &internal.Report{Title: tt.title}
			if got := Filename(report, tt.ext); got != tt.want {
				t.Errorf("Filename(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}
