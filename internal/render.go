package internal

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// BlockKind classifies a renderable block of report content
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading1
	BlockHeading2
	BlockBullet
	BlockNumbered
	BlockBreak
	BlockTable
)

// TableBlock is a parsed pipe-delimited table
type TableBlock struct {
	Header []string
	Rows   [][]string
}

// Block is one renderable unit of report content, in input order
type Block struct {
	Kind  BlockKind
	Text  string
	Table *TableBlock
}

var numberedItemRe = regexp.MustCompile(`^\d+\.\s*`)

// ParseContent scans report text line by line and produces an ordered
// sequence of renderable blocks. Consecutive lines containing a pipe are
// grouped into one table: the first line is the header, the second is the
// separator and is skipped, the rest are data rows. A table still open at
// the end of input is flushed.
func ParseContent(text string) []Block {
	var blocks []Block
	var tableLines []string

	flushTable := func() {
		if len(tableLines) >= 2 {
			blocks = append(blocks, Block{Kind: BlockTable, Table: parseTable(tableLines)})
		}
		tableLines = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "|") && strings.TrimSpace(line) != "" {
			tableLines = append(tableLines, line)
			continue
		}
		flushTable()

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			blocks = append(blocks, Block{Kind: BlockBreak})
		case strings.HasPrefix(trimmed, "## "):
			blocks = append(blocks, Block{Kind: BlockHeading2, Text: trimmed[3:]})
		case strings.HasPrefix(trimmed, "# "):
			blocks = append(blocks, Block{Kind: BlockHeading1, Text: trimmed[2:]})
		case strings.HasPrefix(trimmed, "- "):
			blocks = append(blocks, Block{Kind: BlockBullet, Text: trimmed[2:]})
		case numberedItemRe.MatchString(trimmed):
			blocks = append(blocks, Block{Kind: BlockNumbered, Text: numberedItemRe.ReplaceAllString(trimmed, "")})
		default:
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: trimmed})
		}
	}
	flushTable()

	return blocks
}

// parseTable splits grouped table lines into header and data rows. The
// second line is the markdown separator row.
func parseTable(lines []string) *TableBlock {
	table := &TableBlock{Header: splitTableRow(lines[0])}
	for _, line := range lines[2:] {
		table.Rows = append(table.Rows, splitTableRow(line))
	}
	return table
}

// splitTableRow splits a pipe-delimited line into trimmed cells, dropping
// the empty edge cells produced by leading and trailing pipes.
func splitTableRow(line string) []string {
	cells := strings.Split(line, "|")
	for i, cell := range cells {
		cells[i] = strings.TrimSpace(cell)
	}
	for len(cells) > 0 && cells[0] == "" {
		cells = cells[1:]
	}
	for len(cells) > 0 && cells[len(cells)-1] == "" {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// previewRowLimit caps how many tabular rows are rendered inline; the
// full result set is available through export.
const previewRowLimit = 7

// HumanizeHeader inserts a space before each internal capital letter.
// The first letter is left untouched: "employeePay" becomes "employee Pay".
func HumanizeHeader(header string) string {
	var b strings.Builder
	for i, r := range header {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TabularPreview turns structured tabular data into a displayable table
// capped at a handful of rows. It returns nil when there is nothing to
// render. The second return value is a truncation notice, empty when all
// rows fit.
func TabularPreview(data *TabularData) (*TableBlock, string) {
	if data == nil || len(data.Rows) == 0 {
		return nil, ""
	}

	table := &TableBlock{Header: make([]string, len(data.Columns))}
	for i, col := range data.Columns {
		table.Header[i] = HumanizeHeader(col)
	}

	shown := len(data.Rows)
	if shown > previewRowLimit {
		shown = previewRowLimit
	}
	for _, row := range data.Rows[:shown] {
		cells := make([]string, len(data.Columns))
		for i, col := range data.Columns {
			cells[i] = FormatCell(row[col])
		}
		table.Rows = append(table.Rows, cells)
	}

	notice := ""
	if shown < len(data.Rows) {
		notice = fmt.Sprintf("Showing %d of %d rows. Export the report for the full result set.", shown, len(data.Rows))
	}
	return table, notice
}

// FormatCell renders a single cell value as text; missing values render
// as a blank cell.
func FormatCell(value interface{}) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}
