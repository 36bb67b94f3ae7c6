package internal

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestParseContent(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Block
	}{
		{
			name: "heading and table",
			text: "# Title\n\n| A | B |\n|---|---|\n| 1 | 2 |\n",
			want: []Block{
				{Kind: BlockHeading1, Text: "Title"},
				{Kind: BlockBreak},
				{Kind: BlockTable, Table: &TableBlock{
					Header: []string{"A", "B"},
					Rows:   [][]string{{"1", "2"}},
				}},
				{Kind: BlockBreak},
			},
		},
		{
			name: "subheading before heading check",
			text: "## Sub\n# Top",
			want: []Block{
				{Kind: BlockHeading2, Text: "Sub"},
				{Kind: BlockHeading1, Text: "Top"},
			},
		},
		{
			name: "bullets and numbered items",
			text: "- first\n2. second",
			want: []Block{
				{Kind: BlockBullet, Text: "first"},
				{Kind: BlockNumbered, Text: "second"},
			},
		},
		{
			name: "lone pipe line is dropped",
			text: "| only |",
			want: nil,
		},
		{
			name: "table at end of input is flushed",
			text: "| A |\n|---|\n| 1 |",
			want: []Block{
				{Kind: BlockTable, Table: &TableBlock{
					Header: []string{"A"},
					Rows:   [][]string{{"1"}},
				}},
			},
		},
		{
			name: "paragraph",
			text: "plain text",
			want: []Block{
				{Kind: BlockParagraph, Text: "plain text"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseContent(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseContent() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSplitTableRow(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"edge pipes dropped", "| a | b |", []string{"a", "b"}},
		{"no edge pipes", "a | b", []string{"a", "b"}},
		{"cells trimmed", "|  a  |  b  |", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitTableRow(tt.line); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitTableRow(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestHumanizeHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"employeePay", "employee Pay"},
		{"EmployeePayTotal", "Employee Pay Total"},
		{"department", "department"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := HumanizeHeader(tt.header); got != tt.want {
				t.Errorf("HumanizeHeader(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestTabularPreview(t *testing.T) {
	t.Run("nil data", func(t *testing.T) {
		table, notice := TabularPreview(nil)
		if table != nil || notice != "" {
			t.Errorf("TabularPreview(nil) = %v, %q, want nil, empty", table, notice)
		}
	})

	t.Run("empty rows", func(t *testing.T) {
		table, _ := TabularPreview(&TabularData{Columns: []string{"a"}})
		if table != nil {
			t.Errorf("TabularPreview() with no rows = %v, want nil", table)
		}
	})

	t.Run("all rows fit", func(t *testing.T) {
		data := CreateTestTable()
		table, notice := TabularPreview(data)
		if table == nil {
			t.Fatal("TabularPreview() returned nil table")
		}
		if len(table.Rows) != 2 {
			t.Errorf("TabularPreview() rows = %d, want 2", len(table.Rows))
		}
		if notice != "" {
			t.Errorf("TabularPreview() notice = %q, want empty", notice)
		}
		if table.Header[0] != "employee Name" {
			t.Errorf("TabularPreview() header[0] = %q, want humanized %q", table.Header[0], "employee Name")
		}
	})

	t.Run("rows capped with notice", func(t *testing.T) {
		data := &TabularData{Columns: []string{"n"}}
		for i := 0; i < 10; i++ {
			data.Rows = append(data.Rows, Row{"n": i})
		}
		table, notice := TabularPreview(data)
		if len(table.Rows) != 7 {
			t.Errorf("TabularPreview() rows = %d, want 7", len(table.Rows))
		}
		want := "Showing 7 of 10 rows. Export the report for the full result set."
		if notice != want {
			t.Errorf("TabularPreview() notice = %q, want %q", notice, want)
		}
	})

	t.Run("missing cells render blank", func(t *testing.T) {
		data := &TabularData{
			Columns: []string{"a", "b"},
			Rows:    []Row{{"a": "x"}},
		}
		table, _ := TabularPreview(data)
		if table.Rows[0][1] != "" {
			t.Errorf("missing cell = %q, want blank", table.Rows[0][1])
		}
	})
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"float", 42.5, "42.5"},
		{"bool", true, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCell(tt.value); got != tt.want {
				t.Errorf("FormatCell(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseContentRoundTripsGeneratedReport(t *testing.T) {
	report := CreateTestReport("r1")
	blocks := ParseContent(report.Content)
	if len(blocks) == 0 {
		t.Fatal("ParseContent() returned no blocks for generated content")
	}
	if blocks[0].Kind != BlockHeading1 || blocks[0].Text != report.Title {
		t.Errorf("first block = %+v, want heading %q", blocks[0], report.Title)
	}
	var kinds []string
	for _, b := range blocks {
		kinds = append(kinds, fmt.Sprint(b.Kind))
	}
	if !strings.Contains(report.Content, "## Executive Summary") {
		t.Errorf("generated content missing summary section, blocks: %v", kinds)
	}
}
